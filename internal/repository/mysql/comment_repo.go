package mysql

import (
	"context"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *commentRepository {
	return &commentRepository{db: db}
}

type commentRow struct {
	ID             int       `db:"id"`
	PostID         int       `db:"post_id"`
	AuthorID       int       `db:"author_id"`
	Text           string    `db:"text"`
	CreatedAt      time.Time `db:"created_at"`
	AuthorUsername string    `db:"author_username"`
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	util.Logger.Info("开始创建评论",
		zap.Int("author_id", comment.AuthorID),
		zap.Int("post_id", comment.PostID))

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (post_id, author_id, text, created_at) VALUES (?, ?, ?, NOW(6))`,
		comment.PostID, comment.AuthorID, comment.Text)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err), zap.Int("post_id", comment.PostID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新评论ID失败", zap.Error(err))
		return err
	}
	comment.ID = int(id)

	if err := r.db.GetContext(ctx, &comment.CreatedAt, `SELECT created_at FROM comments WHERE id = ?`, comment.ID); err != nil {
		util.Logger.Error("读取评论创建时间失败", zap.Error(err), zap.Int("comment_id", comment.ID))
		return err
	}

	util.Logger.Info("评论创建成功", zap.Int("comment_id", comment.ID))
	return nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int) ([]*model.Comment, error) {
	query := `
        SELECT c.id, c.post_id, c.author_id, c.text, c.created_at,
               u.username AS author_username
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.post_id = ?
        ORDER BY c.created_at ASC, c.id ASC`

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, postID); err != nil {
		return nil, err
	}

	comments := make([]*model.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, &model.Comment{
			ID:        row.ID,
			PostID:    row.PostID,
			AuthorID:  row.AuthorID,
			Text:      row.Text,
			CreatedAt: row.CreatedAt,
			Author:    &model.User{ID: row.AuthorID, Username: row.AuthorUsername},
		})
	}
	return comments, nil
}
