package repository

import (
	"context"

	repo "shopcart/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	cartLines repo.CartLineRepository
	inventory repo.InventoryReader
}

func (r *txReposGorm) CartLines() repo.CartLineRepository { return r.cartLines }
func (r *txReposGorm) Inventory() repo.InventoryReader    { return r.inventory }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す（読み取りはFOR UPDATE）
		r := &txReposGorm{
			cartLines: &CartGormRepository{db: tx, lock: true},
			inventory: &InventoryGormRepository{db: tx, lock: true},
		}
		return fn(r)
	})
}
