package interfaces

import (
	"context"

	"github.com/Jon-Makkonahi/YATUBE/internal/model"
)

// UserRepository 用户存储；查不到时返回 (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
