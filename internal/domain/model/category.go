package model

import "time"

// 商品カテゴリ（起動時にseedする）
type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
