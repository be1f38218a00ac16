package repository

import (
	"context"

	"shopcart/internal/domain/model"
	infradb "shopcart/internal/infra/db"
	repo "shopcart/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 新しい順＋ページング。カテゴリ（id, name）を付けて返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	offset := (q.Page - 1) * q.PageSize
	err := tx.
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Order("created_at desc").Order("id desc").
		Offset(offset).Limit(q.PageSize).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		First(&p, id).Error
	if err != nil {
		return model.Product{}, infradb.TranslateError(err)
	}
	return p, nil
}

// 商品の作成（sku重複はErrDuplicate、カテゴリ不在はErrForeignKey）
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	p.Category = nil
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, infradb.TranslateError(err)
	}
	return r.FindByID(ctx, p.ID)
}

// 商品の更新。在庫が変わったら調整履歴も残す。
func (r *ProductGormRepository) Update(ctx context.Context, actorUserID int64, p model.Product) (model.Product, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//現在の在庫を取得（カート操作と直列化するため行ロック）
		var cur model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cur, p.ID).Error; err != nil {
			return err
		}

		res := tx.Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"sku":         p.SKU,
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"stock_level": p.StockLevel,
			"category_id": p.CategoryID,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		delta := p.StockLevel - cur.StockLevel
		if delta == 0 {
			return nil
		}

		//adjustmentsを作成
		adj := model.InventoryAdjustment{
			ProductID:   p.ID,
			ActorUserID: actorUserID,
			Delta:       delta,
			Reason:      "product update",
		}
		return tx.Create(&adj).Error
	})
	if err != nil {
		return model.Product{}, infradb.TranslateError(err)
	}
	return r.FindByID(ctx, p.ID)
}

// 商品削除（カート明細はON DELETE CASCADE）
func (r *ProductGormRepository) Delete(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, id).Error
	})
	if err != nil {
		return model.Product{}, infradb.TranslateError(err)
	}
	return p, nil
}

func (r *ProductGormRepository) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
