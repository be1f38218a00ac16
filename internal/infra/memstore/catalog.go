package memstore

import (
	"context"
	"sort"

	"shopcart/internal/domain/model"
	repo "shopcart/internal/repository"

	memdb "github.com/hashicorp/go-memdb"
)

// Products は ProductRepository の memdb 実装
type Products struct {
	s *Store
}

var _ repo.ProductRepository = (*Products)(nil)

func (s *Store) Products() *Products { return &Products{s: s} }

func (r *Products) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableProducts, "id")
	if err != nil {
		return nil, 0, err
	}
	var all []model.Product
	for obj := it.Next(); obj != nil; obj = it.Next() {
		all = append(all, *obj.(*model.Product))
	}

	// 新しい順
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := int64(len(all))
	from := (q.Page - 1) * q.PageSize
	if from < 0 || from >= len(all) {
		return []model.Product{}, total, nil
	}
	to := from + q.PageSize
	if to > len(all) {
		to = len(all)
	}

	out := make([]model.Product, 0, to-from)
	for _, p := range all[from:to] {
		out = append(out, withCategory(txn, p))
	}
	return out, total, nil
}

func (r *Products) FindByID(ctx context.Context, id int64) (model.Product, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	p, err := (&view{txn: txn}).product(id)
	if err != nil {
		return model.Product{}, err
	}
	return withCategory(txn, *p), nil
}

func (r *Products) Create(ctx context.Context, p model.Product) (model.Product, error) {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	if err := checkProduct(txn, p); err != nil {
		return model.Product{}, err
	}

	now := r.s.now()
	p.ID = r.s.nextID()
	p.Category = nil
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := txn.Insert(tableProducts, &p); err != nil {
		return model.Product{}, err
	}
	out := withCategory(txn, p)
	txn.Commit()
	return out, nil
}

// Update は在庫が変わったら調整履歴も同じトランザクションで書く。
func (r *Products) Update(ctx context.Context, actorUserID int64, p model.Product) (model.Product, error) {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	cur, err := (&view{txn: txn}).product(p.ID)
	if err != nil {
		return model.Product{}, err
	}
	if err := checkProduct(txn, p); err != nil {
		return model.Product{}, err
	}

	next := *cur
	next.SKU = p.SKU
	next.Name = p.Name
	next.Description = p.Description
	next.Price = p.Price
	next.StockLevel = p.StockLevel
	next.CategoryID = p.CategoryID
	next.UpdatedAt = r.s.now()
	if err := txn.Insert(tableProducts, &next); err != nil {
		return model.Product{}, err
	}

	if delta := next.StockLevel - cur.StockLevel; delta != 0 {
		adj := &model.InventoryAdjustment{
			ID:          r.s.nextID(),
			ProductID:   next.ID,
			ActorUserID: actorUserID,
			Delta:       delta,
			Reason:      "product update",
			CreatedAt:   next.UpdatedAt,
		}
		if err := txn.Insert(tableAdjustments, adj); err != nil {
			return model.Product{}, err
		}
	}
	out := withCategory(txn, next)
	txn.Commit()
	return out, nil
}

// Delete は商品とその商品のカート明細を消す（ON DELETE CASCADE相当）。
func (r *Products) Delete(ctx context.Context, id int64) (model.Product, error) {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	p, err := (&view{txn: txn}).product(id)
	if err != nil {
		return model.Product{}, err
	}
	deleted := *p
	if err := txn.Delete(tableProducts, p); err != nil {
		return model.Product{}, err
	}

	it, err := txn.Get(tableCartLines, "id")
	if err != nil {
		return model.Product{}, err
	}
	var doomed []*model.CartLine
	for obj := it.Next(); obj != nil; obj = it.Next() {
		if l := obj.(*model.CartLine); l.ProductID == id {
			doomed = append(doomed, l)
		}
	}
	for _, l := range doomed {
		if err := txn.Delete(tableCartLines, l); err != nil {
			return model.Product{}, err
		}
	}
	txn.Commit()
	return deleted, nil
}

func (r *Products) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableCategories, "id", categoryID)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}

// Adjustments は商品ごとの在庫調整履歴（古い順）。
func (r *Products) Adjustments(productID int64) ([]model.InventoryAdjustment, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableAdjustments, "product", productID)
	if err != nil {
		return nil, err
	}
	var out []model.InventoryAdjustment
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, *obj.(*model.InventoryAdjustment))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// sku重複とカテゴリの存在（DB制約の代わり）
func checkProduct(txn *memdb.Txn, p model.Product) error {
	raw, err := txn.First(tableProducts, "sku", p.SKU)
	if err != nil {
		return err
	}
	if raw != nil && raw.(*model.Product).ID != p.ID {
		return repo.ErrDuplicate
	}
	if p.CategoryID != nil {
		raw, err := txn.First(tableCategories, "id", *p.CategoryID)
		if err != nil {
			return err
		}
		if raw == nil {
			return repo.ErrForeignKey
		}
	}
	return nil
}

func withCategory(txn *memdb.Txn, p model.Product) model.Product {
	p.Category = nil
	if p.CategoryID == nil {
		return p
	}
	raw, err := txn.First(tableCategories, "id", *p.CategoryID)
	if err != nil || raw == nil {
		return p
	}
	c := raw.(*model.Category)
	p.Category = &model.Category{ID: c.ID, Name: c.Name}
	return p
}
