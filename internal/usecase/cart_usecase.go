package usecase

import (
	"context"
	"errors"

	"shopcart/internal/domain/model"
	repo "shopcart/internal/repository"
	"shopcart/internal/validator"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartUsecase はカート操作の在庫ルール。
// 状態は持たず、読み取り→判定→書き込みは必ず1トランザクションで行う。
type CartUsecase struct {
	txm       repo.TransactionManager
	carts     repo.CartLineRepository
	logger    *zap.Logger
	strictAdd bool
}

type CartOption func(*CartUsecase)

// 追加時に「既存数量＋追加数量」で在庫判定する
func WithStrictAddCheck(on bool) CartOption {
	return func(u *CartUsecase) { u.strictAdd = on }
}

// DI
func NewCartUsecase(txm repo.TransactionManager, carts repo.CartLineRepository, logger *zap.Logger, opts ...CartOption) *CartUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	u := &CartUsecase{txm: txm, carts: carts, logger: logger.Named("cart")}
	for _, o := range opts {
		o(u)
	}
	return u
}

// 減算の結果。Removed なら Line は削除直前の状態。
type DecrementResult struct {
	Line    model.CartLine `json:"line"`
	Removed bool           `json:"removed"`
}

type CartView struct {
	Items    []model.CartLineView `json:"items"`
	Subtotal decimal.Decimal      `json:"subtotal"`
}

// AddItemToCart は在庫を読み直し、数量を加算（無ければ作成）する。
func (u *CartUsecase) AddItemToCart(ctx context.Context, userID, productID, qty int64) (model.CartLine, error) {
	if err := validator.CartItem(productID, qty); err != nil {
		return model.CartLine{}, u.fail("add", userID, productID, validationError(err.Error(), err))
	}

	var line model.CartLine
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		stock, err := r.Inventory().StockLevel(ctx, productID)
		if err != nil {
			return productErr(err)
		}

		if qty > stock {
			return ErrOutOfStock
		}
		if u.strictAdd {
			cur, err := r.CartLines().FindLine(ctx, userID, productID)
			switch {
			case err == nil:
				// 足し算はしない（巨大な qty で桁あふれする）
				if qty > stock-cur.Quantity {
					return ErrOutOfStock
				}
			case !errors.Is(err, repo.ErrNotFound):
				return with(ErrPersistence, err)
			}
		}

		line, err = r.CartLines().AddQuantity(ctx, userID, productID, qty)
		if err != nil {
			return productErr(err)
		}
		return nil
	})
	if err != nil {
		return model.CartLine{}, u.fail("add", userID, productID, err)
	}
	return line, nil
}

// IncrementCartItem は既存明細を1つ増やす。明細が無ければ作らない。
func (u *CartUsecase) IncrementCartItem(ctx context.Context, userID, productID int64) (model.CartLine, error) {
	if err := validator.CartItem(productID, 1); err != nil {
		return model.CartLine{}, u.fail("increment", userID, productID, validationError(err.Error(), err))
	}

	var line model.CartLine
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		stock, err := r.Inventory().StockLevel(ctx, productID)
		if err != nil {
			return productErr(err)
		}

		var current int64
		cur, err := r.CartLines().FindLine(ctx, userID, productID)
		switch {
		case err == nil:
			current = cur.Quantity
		case !errors.Is(err, repo.ErrNotFound):
			return with(ErrPersistence, err)
		}

		// 在庫判定が先（明細なし＋在庫0 は在庫不足）
		if current+1 > stock {
			return ErrOutOfStock
		}
		if current == 0 {
			return ErrCartItemNotFound
		}

		line, err = r.CartLines().Increment(ctx, userID, productID)
		if err != nil {
			return lineErr(err)
		}
		return nil
	})
	if err != nil {
		return model.CartLine{}, u.fail("increment", userID, productID, err)
	}
	return line, nil
}

// DecrementCartItem は1つ減らし、0になるなら明細を消す。在庫は見ない。
func (u *CartUsecase) DecrementCartItem(ctx context.Context, userID, productID int64) (DecrementResult, error) {
	if err := validator.CartItem(productID, 1); err != nil {
		return DecrementResult{}, u.fail("decrement", userID, productID, validationError(err.Error(), err))
	}

	var out DecrementResult
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		line, removed, err := r.CartLines().DecrementOrDelete(ctx, userID, productID)
		if err != nil {
			return lineErr(err)
		}
		out = DecrementResult{Line: line, Removed: removed}
		return nil
	})
	if err != nil {
		return DecrementResult{}, u.fail("decrement", userID, productID, err)
	}
	return out, nil
}

// RemoveItemFromCart は明細を消す。消えた行が無ければ NotFound。
func (u *CartUsecase) RemoveItemFromCart(ctx context.Context, userID, productID int64) error {
	if err := validator.CartItem(productID, 1); err != nil {
		return u.fail("remove", userID, productID, validationError(err.Error(), err))
	}

	n, err := u.carts.Delete(ctx, userID, productID)
	if err != nil {
		return u.fail("remove", userID, productID, with(ErrPersistence, err))
	}
	if n == 0 {
		return u.fail("remove", userID, productID, ErrCartItemNotFound)
	}
	return nil
}

// GetCart は明細と現在価格での小計を返す。空カートも正常。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartView, error) {
	items, err := u.carts.ListByUserID(ctx, userID)
	if err != nil {
		return CartView{}, u.fail("get", userID, 0, with(ErrPersistence, err))
	}
	if items == nil {
		items = []model.CartLineView{}
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	return CartView{Items: items, Subtotal: subtotal}, nil
}

// 商品の読み取り・明細作成のエラー
func productErr(err error) error {
	if _, ok := AsAppError(err); ok {
		return err
	}
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrForeignKey) {
		return ErrProductNotFound
	}
	return with(ErrPersistence, err)
}

// 既存明細の更新エラー
func lineErr(err error) error {
	if _, ok := AsAppError(err); ok {
		return err
	}
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCartItemNotFound
	}
	return with(ErrPersistence, err)
}

// fail は型付きエラーに揃えてログを出す。
func (u *CartUsecase) fail(op string, userID, productID int64, err error) error {
	ae, ok := AsAppError(err)
	if !ok {
		// ctx のキャンセルなど
		ae = with(ErrPersistence, err)
	}

	fields := []zap.Field{
		zap.String("op", op),
		zap.Int64("user_id", userID),
		zap.Int64("product_id", productID),
		zap.String("code", ae.Code),
	}
	if ae.Code == CodePersistence {
		u.logger.Error("cart operation failed", append(fields, zap.Error(ae.Err))...)
	} else {
		u.logger.Info("cart operation rejected", append(fields, zap.String("reason", ae.Message))...)
	}
	return ae
}
