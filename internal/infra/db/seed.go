package db

import (
	"context"

	"shopcart/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultCategories = []model.Category{
	{Name: "Electronics", Description: "Gadgets, devices, and tech"},
	{Name: "Clothing", Description: "Apparel for men and women"},
	{Name: "Books", Description: "Printed and digital books"},
	{Name: "Home & Kitchen", Description: "Household appliances and kitchenware"},
	{Name: "Sports & Outdoors", Description: "Sports equipment and outdoor gear"},
	{Name: "Beauty & Personal Care", Description: "Cosmetics and personal care products"},
	{Name: "Toys & Games", Description: "Toys, games, and entertainment"},
	{Name: "Automotive", Description: "Vehicle parts and accessories"},
	{Name: "Health & Wellness", Description: "Health supplements and wellness products"},
	{Name: "Office Supplies", Description: "Office and school supplies"},
}

// SeedCategories は既存のnameはそのままにして、無いカテゴリだけ作る。
func SeedCategories(ctx context.Context, gormDB *gorm.DB) (int64, error) {
	cats := make([]model.Category, len(defaultCategories))
	copy(cats, defaultCategories)

	res := gormDB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&cats)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
