package interfaces

import (
	"context"

	"github.com/Jon-Makkonahi/YATUBE/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListByPost 按创建时间正序返回，带 Author
	ListByPost(ctx context.Context, postID int) ([]*model.Comment, error)
}
