package interfaces

import (
	"context"

	"github.com/Jon-Makkonahi/YATUBE/internal/model"
)

// FollowRepository 关注关系存储，(user_id, author_id) 唯一由存储层保证
type FollowRepository interface {
	// GetOrCreate 不存在时创建，created 表示本次是否新建
	GetOrCreate(ctx context.Context, userID, authorID int) (follow *model.Follow, created bool, err error)
	// Find 查不到时返回 (nil, nil)
	Find(ctx context.Context, userID, authorID int) (*model.Follow, error)
	Delete(ctx context.Context, id int) error
	Exists(ctx context.Context, userID, authorID int) (bool, error)
	Count(ctx context.Context) (int, error)
}
