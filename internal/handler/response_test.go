package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopcart/internal/usecase"
	"shopcart/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, writeError(c, err))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"out of stock", usecase.ErrOutOfStock, http.StatusBadRequest, usecase.CodeOutOfStock},
		{"cart line missing", usecase.ErrCartItemNotFound, http.StatusNotFound, usecase.CodeNotFound},
		{"product missing", usecase.ErrProductNotFound, http.StatusNotFound, usecase.CodeNotFound},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, usecase.CodeUnauthorized},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, usecase.CodePersistence},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := render(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestWriteError_HidesPersistenceCause(t *testing.T) {
	err := usecase.NewAppError(http.StatusInternalServerError, usecase.CodePersistence, "pq: password authentication failed", errors.New("secret dsn"))

	status, body := render(t, err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, body.Message, "secret")
}

func TestWriteError_ValidationFields(t *testing.T) {
	fes := validator.Errors{{Field: "quantity", Message: "quantity must be a positive integer"}}
	err := usecase.NewAppError(http.StatusBadRequest, usecase.CodeValidation, fes.Error(), fes)

	status, body := render(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "quantity", body.Errors[0].Field)
}
