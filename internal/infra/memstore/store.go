// Package memstore は go-memdb 上の在庫・カート実装。
// テストと BDD シナリオで Postgres の代わりに使う。
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"shopcart/internal/domain/model"
	repo "shopcart/internal/repository"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/shopspring/decimal"
)

// Store は InventoryReader / CartLineRepository / TransactionManager を満たす。
// memdb の書き込みトランザクションは1本ずつしか走らないので WithinTx は原子的。
type Store struct {
	db  *memdb.MemDB
	now func() time.Time
	seq atomic.Int64
}

var (
	_ repo.InventoryReader    = (*Store)(nil)
	_ repo.CartLineRepository = (*Store)(nil)
	_ repo.TransactionManager = (*Store)(nil)
)

func New() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memdb: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// PutProduct は商品を登録（同じIDなら上書き）。
func (s *Store) PutProduct(p model.Product) error {
	if p.StockLevel < 0 {
		return fmt.Errorf("stock level must be >= 0")
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	cp := p
	cp.Category = nil
	if cp.ID == 0 {
		cp.ID = s.nextID()
	}
	s.bumpID(cp.ID)
	if err := txn.Insert(tableProducts, &cp); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// PutCategory はカテゴリを登録する（IDが0なら採番）。
func (s *Store) PutCategory(c model.Category) (model.Category, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if c.ID == 0 {
		c.ID = s.nextID()
	}
	s.bumpID(c.ID)
	if err := txn.Insert(tableCategories, &c); err != nil {
		return model.Category{}, err
	}
	txn.Commit()
	return c, nil
}

// 全テーブル共通の連番
func (s *Store) nextID() int64 {
	return s.seq.Add(1)
}

func (s *Store) bumpID(id int64) {
	for {
		cur := s.seq.Load()
		if id <= cur || s.seq.CompareAndSwap(cur, id) {
			return
		}
	}
}

// SetStock は在庫数を差し替える（管理者の在庫変更相当）。
func (s *Store) SetStock(productID int64, stock int64) error {
	return s.updateProduct(productID, func(p *model.Product) error {
		if stock < 0 {
			return fmt.Errorf("stock level must be >= 0")
		}
		p.StockLevel = stock
		return nil
	})
}

func (s *Store) SetPrice(productID int64, price decimal.Decimal) error {
	return s.updateProduct(productID, func(p *model.Product) error {
		p.Price = price
		return nil
	})
}

func (s *Store) updateProduct(productID int64, fn func(p *model.Product) error) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableProducts, "id", productID)
	if err != nil {
		return err
	}
	if raw == nil {
		return repo.ErrNotFound
	}
	// 保存済みのオブジェクトは書き換えずコピーを入れ直す
	cp := *raw.(*model.Product)
	if err := fn(&cp); err != nil {
		return err
	}
	if err := txn.Insert(tableProducts, &cp); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// WithinTx は fn を1本の書き込みトランザクションで実行する。
// fn がエラーを返したら何も反映しない。
func (s *Store) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := fn(txRepos{v: &view{txn: txn, now: s.now}}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// 以下はトランザクション外からの単発呼び出し。

func (s *Store) StockLevel(ctx context.Context, productID int64) (int64, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return (&view{txn: txn, now: s.now}).StockLevel(ctx, productID)
}

func (s *Store) FindLine(ctx context.Context, userID int64, productID int64) (model.CartLine, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return (&view{txn: txn, now: s.now}).FindLine(ctx, userID, productID)
}

func (s *Store) ListByUserID(ctx context.Context, userID int64) ([]model.CartLineView, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return (&view{txn: txn, now: s.now}).ListByUserID(ctx, userID)
}

func (s *Store) AddQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartLine, error) {
	var out model.CartLine
	err := s.write(func(v *view) error {
		var err error
		out, err = v.AddQuantity(ctx, userID, productID, qty)
		return err
	})
	return out, err
}

func (s *Store) Increment(ctx context.Context, userID int64, productID int64) (model.CartLine, error) {
	var out model.CartLine
	err := s.write(func(v *view) error {
		var err error
		out, err = v.Increment(ctx, userID, productID)
		return err
	})
	return out, err
}

func (s *Store) DecrementOrDelete(ctx context.Context, userID int64, productID int64) (model.CartLine, bool, error) {
	var out model.CartLine
	var removed bool
	err := s.write(func(v *view) error {
		var err error
		out, removed, err = v.DecrementOrDelete(ctx, userID, productID)
		return err
	})
	return out, removed, err
}

func (s *Store) Delete(ctx context.Context, userID int64, productID int64) (int64, error) {
	var n int64
	err := s.write(func(v *view) error {
		var err error
		n, err = v.Delete(ctx, userID, productID)
		return err
	})
	return n, err
}

func (s *Store) write(fn func(v *view) error) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := fn(&view{txn: txn, now: s.now}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

type txRepos struct {
	v *view
}

func (r txRepos) CartLines() repo.CartLineRepository { return r.v }
func (r txRepos) Inventory() repo.InventoryReader    { return r.v }

// view は1本の memdb トランザクションに束縛された読み書き。
type view struct {
	txn *memdb.Txn
	now func() time.Time
}

func (v *view) product(productID int64) (*model.Product, error) {
	raw, err := v.txn.First(tableProducts, "id", productID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, repo.ErrNotFound
	}
	return raw.(*model.Product), nil
}

func (v *view) line(userID int64, productID int64) (*model.CartLine, error) {
	raw, err := v.txn.First(tableCartLines, "id", userID, productID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, repo.ErrNotFound
	}
	return raw.(*model.CartLine), nil
}

func (v *view) StockLevel(ctx context.Context, productID int64) (int64, error) {
	p, err := v.product(productID)
	if err != nil {
		return 0, err
	}
	return p.StockLevel, nil
}

func (v *view) FindLine(ctx context.Context, userID int64, productID int64) (model.CartLine, error) {
	l, err := v.line(userID, productID)
	if err != nil {
		return model.CartLine{}, err
	}
	return *l, nil
}

func (v *view) AddQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartLine, error) {
	if qty < 1 {
		return model.CartLine{}, fmt.Errorf("quantity must be >= 1")
	}
	// 外部キー相当
	if _, err := v.product(productID); err != nil {
		if err == repo.ErrNotFound {
			return model.CartLine{}, repo.ErrForeignKey
		}
		return model.CartLine{}, err
	}

	now := v.now()
	next := model.CartLine{UserID: userID, ProductID: productID, Quantity: qty, CreatedAt: now, UpdatedAt: now}
	cur, err := v.line(userID, productID)
	switch {
	case err == nil:
		next = *cur
		next.Quantity += qty
		next.UpdatedAt = now
	case err != repo.ErrNotFound:
		return model.CartLine{}, err
	}

	if err := v.txn.Insert(tableCartLines, &next); err != nil {
		return model.CartLine{}, err
	}
	return next, nil
}

func (v *view) Increment(ctx context.Context, userID int64, productID int64) (model.CartLine, error) {
	cur, err := v.line(userID, productID)
	if err != nil {
		return model.CartLine{}, err
	}
	next := *cur
	next.Quantity++
	next.UpdatedAt = v.now()
	if err := v.txn.Insert(tableCartLines, &next); err != nil {
		return model.CartLine{}, err
	}
	return next, nil
}

func (v *view) DecrementOrDelete(ctx context.Context, userID int64, productID int64) (model.CartLine, bool, error) {
	cur, err := v.line(userID, productID)
	if err != nil {
		return model.CartLine{}, false, err
	}

	if cur.Quantity <= 1 {
		last := *cur
		if err := v.txn.Delete(tableCartLines, cur); err != nil {
			return model.CartLine{}, false, err
		}
		return last, true, nil
	}

	next := *cur
	next.Quantity--
	next.UpdatedAt = v.now()
	if err := v.txn.Insert(tableCartLines, &next); err != nil {
		return model.CartLine{}, false, err
	}
	return next, false, nil
}

func (v *view) Delete(ctx context.Context, userID int64, productID int64) (int64, error) {
	cur, err := v.line(userID, productID)
	if err == repo.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if err := v.txn.Delete(tableCartLines, cur); err != nil {
		return 0, err
	}
	return 1, nil
}

func (v *view) ListByUserID(ctx context.Context, userID int64) ([]model.CartLineView, error) {
	it, err := v.txn.Get(tableCartLines, "user", userID)
	if err != nil {
		return nil, err
	}

	var lines []model.CartLine
	for obj := it.Next(); obj != nil; obj = it.Next() {
		lines = append(lines, *obj.(*model.CartLine))
	}
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
			return lines[i].CreatedAt.Before(lines[j].CreatedAt)
		}
		return lines[i].ProductID < lines[j].ProductID
	})

	out := make([]model.CartLineView, 0, len(lines))
	for _, l := range lines {
		p, err := v.product(l.ProductID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.CartLineView{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Product: model.CartLineProduct{
				SKU:         p.SKU,
				Name:        p.Name,
				Price:       p.Price,
				Description: p.Description,
			},
		})
	}
	return out, nil
}
