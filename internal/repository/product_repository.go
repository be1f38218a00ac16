package repository

import (
	"context"

	"shopcart/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Page     int
	PageSize int
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	// stock_levelが変わった場合は同じTx内で調整履歴も作る
	Update(ctx context.Context, actorUserID int64, p model.Product) (model.Product, error)
	Delete(ctx context.Context, id int64) (model.Product, error)

	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
}
