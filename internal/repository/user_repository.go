package repository

import (
	"context"
	"time"

	"shopcart/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email重複はErrDuplicate）
	Create(ctx context.Context, user *model.User) error
	//メールからユーザーを一件取得する。無ければErrNotFound
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// 最終ログイン時刻の更新
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
}
