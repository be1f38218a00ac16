package repository

import (
	"context"

	"shopcart/internal/domain/model"
)

// カート明細の永続化だけを約束。在庫チェックはしない（usecase側の責務）。
type CartLineRepository interface {
	FindLine(ctx context.Context, userID int64, productID int64) (model.CartLine, error)

	// 無ければqtyで作成、あれば加算
	AddQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartLine, error)

	// 明細が無ければErrNotFound
	Increment(ctx context.Context, userID int64, productID int64) (model.CartLine, error)

	// 1減らす。1だった場合は行を削除してremoved=trueで削除前の値を返す。
	DecrementOrDelete(ctx context.Context, userID int64, productID int64) (line model.CartLine, removed bool, err error)

	// 削除した行数を返す
	Delete(ctx context.Context, userID int64, productID int64) (int64, error)

	ListByUserID(ctx context.Context, userID int64) ([]model.CartLineView, error)
}
