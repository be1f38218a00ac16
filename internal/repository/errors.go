package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// 一意制約違反（email, skuなど）
	ErrDuplicate = errors.New("duplicate")

	// 外部キー違反（存在しない商品を参照など）
	ErrForeignKey = errors.New("foreign key violation")
)
