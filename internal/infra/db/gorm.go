package db

import (
	"shopcart/internal/config"
	"shopcart/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProd() {
		level = gormlogger.Error
	}

	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(level),
		SkipDefaultTransaction: true,
	})
}

// Migrate はテーブル作成（順番は外部キーの依存順）
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.Category{},
		&model.User{},
		&model.Product{},
		&model.CartLine{},
		&model.InventoryAdjustment{},
	)
}
