package interfaces

import (
	"context"

	"github.com/Jon-Makkonahi/YATUBE/internal/model"
)

// PostFilter 帖子过滤条件，nil 字段不参与过滤
type PostFilter struct {
	AuthorID *int
	GroupID  *int
	// FollowerID 只保留该用户关注的作者的帖子
	FollowerID *int
}

// PostRepository 帖子存储；List 始终按 created_at DESC, id DESC 排序，
// 返回的帖子带 Author 和 Group
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id int) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, filter PostFilter) (int, error)
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]*model.Post, error)
}
