package memstore

import memdb "github.com/hashicorp/go-memdb"

const (
	tableProducts    = "products"
	tableCategories  = "categories"
	tableCartLines   = "cart_lines"
	tableUsers       = "users"
	tableAdjustments = "inventory_adjustments"
)

func idIndex() *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:    "id",
		Unique:  true,
		Indexer: &memdb.IntFieldIndex{Field: "ID"},
	}
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableProducts: {
				Name: tableProducts,
				Indexes: map[string]*memdb.IndexSchema{
					"id": idIndex(),
					// memdb は unique を強制しないので書き込み側で重複を見る
					"sku": {
						Name:         "sku",
						Unique:       true,
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "SKU"},
					},
				},
			},
			tableCategories: {
				Name: tableCategories,
				Indexes: map[string]*memdb.IndexSchema{
					"id": idIndex(),
				},
			},
			tableUsers: {
				Name: tableUsers,
				Indexes: map[string]*memdb.IndexSchema{
					"id": idIndex(),
					"email": {
						Name:         "email",
						Unique:       true,
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "Email", Lowercase: true},
					},
				},
			},
			tableAdjustments: {
				Name: tableAdjustments,
				Indexes: map[string]*memdb.IndexSchema{
					"id": idIndex(),
					"product": {
						Name:    "product",
						Indexer: &memdb.IntFieldIndex{Field: "ProductID"},
					},
				},
			},
			tableCartLines: {
				Name: tableCartLines,
				Indexes: map[string]*memdb.IndexSchema{
					// (user_id, product_id) 複合主キー
					"id": {
						Name:   "id",
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.IntFieldIndex{Field: "UserID"},
								&memdb.IntFieldIndex{Field: "ProductID"},
							},
						},
					},
					"user": {
						Name:    "user",
						Indexer: &memdb.IntFieldIndex{Field: "UserID"},
					},
				},
			},
		},
	}
}
