package repository

import (
	"context"

	"shopcart/internal/domain/model"
	infradb "shopcart/internal/infra/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryGormRepository は TxManagerGorm の中でだけ作る。
type InventoryGormRepository struct {
	db   *gorm.DB
	lock bool
}

// 在庫の現在値（Tx内では商品行をロック）
func (r *InventoryGormRepository) StockLevel(ctx context.Context, productID int64) (int64, error) {
	q := r.db.WithContext(ctx)
	if r.lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var p model.Product
	if err := q.Select("id", "stock_level").First(&p, productID).Error; err != nil {
		return 0, infradb.TranslateError(err)
	}
	return p.StockLevel, nil
}
