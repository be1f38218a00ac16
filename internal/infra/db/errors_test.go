package db

import (
	"errors"
	"fmt"
	"testing"

	repo "shopcart/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("connection refused")

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, repo.ErrNotFound},
		{"wrapped record not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), repo.ErrNotFound},
		{"pg unique", &pgconn.PgError{Code: "23505"}, repo.ErrDuplicate},
		{"pg foreign key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), repo.ErrForeignKey},
		{"pg check", &pgconn.PgError{Code: "23514"}, nil},
		{"other", other, other},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TranslateError(tc.in)
			switch {
			case tc.in == nil:
				assert.NoError(t, got)
			case tc.want == nil:
				assert.Equal(t, tc.in, got)
			default:
				assert.ErrorIs(t, got, tc.want)
			}
		})
	}
}
