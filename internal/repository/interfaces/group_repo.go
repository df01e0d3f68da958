package interfaces

import (
	"context"

	"github.com/Jon-Makkonahi/YATUBE/internal/model"
)

// GroupRepository 分组存储；删除分组时帖子保留，group_id 置空
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	FindByID(ctx context.Context, id int) (*model.Group, error)
	FindBySlug(ctx context.Context, slug string) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
	Delete(ctx context.Context, id int) error
}
