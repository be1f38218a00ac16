package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細。(user_id, product_id) で1行。
// quantityは常に1以上（0になる時は行ごと削除）。
type CartLine struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ProductID int64     `gorm:"primaryKey;autoIncrement:false" json:"productId"`
	Quantity  int64     `gorm:"not null;check:chk_cart_lines_quantity,quantity >= 1" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`

	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// カート表示用に商品をjoinした明細
type CartLineProduct struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

type CartLineView struct {
	ProductID int64           `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Product   CartLineProduct `json:"product"`
}

// 明細の小計（数量×現在価格）
func (v CartLineView) LineTotal() decimal.Decimal {
	return v.Product.Price.Mul(decimal.NewFromInt(v.Quantity))
}
