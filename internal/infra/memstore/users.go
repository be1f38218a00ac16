package memstore

import (
	"context"
	"strings"
	"time"

	"shopcart/internal/domain/model"
	repo "shopcart/internal/repository"
)

// Users は UserRepository の memdb 実装
type Users struct {
	s *Store
}

var _ repo.UserRepository = (*Users)(nil)

func (s *Store) Users() *Users { return &Users{s: s} }

func (r *Users) Create(ctx context.Context, u *model.User) error {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableUsers, "email", u.Email)
	if err != nil {
		return err
	}
	if raw != nil {
		return repo.ErrDuplicate
	}

	u.ID = r.s.nextID()
	cp := *u
	if err := txn.Insert(tableUsers, &cp); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableUsers, "email", strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, repo.ErrNotFound
	}
	u := *raw.(*model.User)
	return &u, nil
}

func (r *Users) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableUsers, "id", userID)
	if err != nil {
		return err
	}
	if raw == nil {
		return repo.ErrNotFound
	}
	next := *raw.(*model.User)
	next.LastLoginAt = &at
	if err := txn.Insert(tableUsers, &next); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
