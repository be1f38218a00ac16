package repository

import (
	"context"
	"errors"
	"time"

	"shopcart/internal/domain/model"
	infradb "shopcart/internal/infra/db"
	repo "shopcart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const whereLine = "user_id = ? AND product_id = ?"

type CartGormRepository struct {
	db *gorm.DB
	// Tx内ではFOR UPDATEで読む
	lock bool
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

func (r *CartGormRepository) read(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// 明細を1件取得
func (r *CartGormRepository) FindLine(ctx context.Context, userID int64, productID int64) (model.CartLine, error) {
	var line model.CartLine

	err := r.read(ctx).
		Where(whereLine, userID, productID).
		First(&line).Error
	if err != nil {
		return model.CartLine{}, infradb.TranslateError(err)
	}
	return line, nil
}

// 同一商品は数量加算（INSERT ... ON CONFLICT DO UPDATE）
func (r *CartGormRepository) AddQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartLine, error) {
	if qty <= 0 {
		return model.CartLine{}, errors.New("invalid quantity")
	}

	var out model.CartLine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		line := model.CartLine{
			UserID:    userID,
			ProductID: productID,
			Quantity:  qty,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_lines.quantity + EXCLUDED.quantity"),
				"updated_at": now,
			}),
		}).Create(&line).Error
		if err != nil {
			return err
		}

		return tx.Where(whereLine, userID, productID).First(&out).Error
	})
	if err != nil {
		return model.CartLine{}, infradb.TranslateError(err)
	}
	return out, nil
}

// 数量を+1
func (r *CartGormRepository) Increment(ctx context.Context, userID int64, productID int64) (model.CartLine, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where(whereLine, userID, productID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + 1"),
			"updated_at": time.Now(),
		})

	if res.Error != nil {
		return model.CartLine{}, infradb.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.CartLine{}, repo.ErrNotFound
	}
	return r.FindLine(ctx, userID, productID)
}

// 数量を-1。1だったら行を削除する（0の行は残さない）
func (r *CartGormRepository) DecrementOrDelete(ctx context.Context, userID int64, productID int64) (model.CartLine, bool, error) {
	var line model.CartLine
	removed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(whereLine, userID, productID).
			First(&line).Error
		if err != nil {
			return err
		}

		if line.Quantity > 1 {
			now := time.Now()
			err := tx.Model(&model.CartLine{}).
				Where(whereLine, userID, productID).
				Updates(map[string]interface{}{
					"quantity":   gorm.Expr("quantity - 1"),
					"updated_at": now,
				}).Error
			if err != nil {
				return err
			}
			line.Quantity--
			line.UpdatedAt = now
			return nil
		}

		if err := tx.Where(whereLine, userID, productID).Delete(&model.CartLine{}).Error; err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return model.CartLine{}, false, infradb.TranslateError(err)
	}
	return line, removed, nil
}

// 明細を削除（削除件数を返す）
func (r *CartGormRepository) Delete(ctx context.Context, userID int64, productID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where(whereLine, userID, productID).
		Delete(&model.CartLine{})

	if res.Error != nil {
		return 0, infradb.TranslateError(res.Error)
	}
	return res.RowsAffected, nil
}

type cartLineRow struct {
	ProductID   int64
	Quantity    int64
	SKU         string `gorm:"column:sku"`
	Name        string
	Price       decimal.Decimal
	Description string
}

// ユーザーの明細一覧（商品をjoin、価格は現在値）
func (r *CartGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartLineView, error) {
	var rows []cartLineRow

	err := r.db.WithContext(ctx).
		Table("cart_lines").
		Select("cart_lines.product_id, cart_lines.quantity, products.sku, products.name, products.price, products.description").
		Joins("join products on products.id = cart_lines.product_id").
		Where("cart_lines.user_id = ?", userID).
		Order("cart_lines.created_at asc").
		Order("cart_lines.product_id asc").
		Scan(&rows).Error
	if err != nil {
		return []model.CartLineView{}, infradb.TranslateError(err)
	}

	out := make([]model.CartLineView, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.CartLineView{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			Product: model.CartLineProduct{
				SKU:         row.SKU,
				Name:        row.Name,
				Price:       row.Price,
				Description: row.Description,
			},
		})
	}
	return out, nil
}
