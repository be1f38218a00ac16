package repository

import (
	"context"
)

// 在庫の読み取りだけ。カート側から在庫を減らすことはない。
type InventoryReader interface {
	// 商品が無ければErrNotFound
	StockLevel(ctx context.Context, productID int64) (int64, error)
}
