package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/interfaces"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *postRepository {
	return &postRepository{db: db}
}

// postRow 帖子连同作者和分组的一行查询结果
type postRow struct {
	ID               int            `db:"id"`
	Text             string         `db:"text"`
	Image            string         `db:"image"`
	CreatedAt        time.Time      `db:"created_at"`
	AuthorID         int            `db:"author_id"`
	GroupID          sql.NullInt64  `db:"group_id"`
	AuthorUsername   string         `db:"author_username"`
	AuthorEmail      string         `db:"author_email"`
	AuthorRole       string         `db:"author_role"`
	GroupTitle       sql.NullString `db:"group_title"`
	GroupSlug        sql.NullString `db:"group_slug"`
	GroupDescription sql.NullString `db:"group_description"`
}

func (row *postRow) toModel() *model.Post {
	post := &model.Post{
		ID:        row.ID,
		Text:      row.Text,
		Image:     row.Image,
		CreatedAt: row.CreatedAt,
		AuthorID:  row.AuthorID,
		Author: &model.User{
			ID:       row.AuthorID,
			Username: row.AuthorUsername,
			Email:    row.AuthorEmail,
			Role:     row.AuthorRole,
		},
	}
	if row.GroupID.Valid {
		groupID := int(row.GroupID.Int64)
		post.GroupID = &groupID
		post.Group = &model.Group{
			ID:          groupID,
			Title:       row.GroupTitle.String,
			Slug:        row.GroupSlug.String,
			Description: row.GroupDescription.String,
		}
	}
	return post
}

const selectPosts = `
        SELECT p.id, p.text, p.image, p.created_at, p.author_id, p.group_id,
               u.username AS author_username, u.email AS author_email, u.role AS author_role,
               g.title AS group_title, g.slug AS group_slug, g.description AS group_description
        FROM posts p
        JOIN users u ON u.id = p.author_id
        LEFT JOIN post_groups g ON g.id = p.group_id`

// whereClause 根据过滤条件生成 WHERE 子句和参数
func whereClause(filter interfaces.PostFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if filter.AuthorID != nil {
		conds = append(conds, "p.author_id = ?")
		args = append(args, *filter.AuthorID)
	}
	if filter.GroupID != nil {
		conds = append(conds, "p.group_id = ?")
		args = append(args, *filter.GroupID)
	}
	if filter.FollowerID != nil {
		conds = append(conds, "p.author_id IN (SELECT f.author_id FROM follows f WHERE f.user_id = ?)")
		args = append(args, *filter.FollowerID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (text, image, author_id, group_id, created_at)
              VALUES (?, ?, ?, ?, NOW(6))`
	result, err := r.db.ExecContext(ctx, query, post.Text, post.Image, post.AuthorID, post.GroupID)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err), zap.Int("author_id", post.AuthorID))
		return err
	}

	postID, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新帖子ID失败", zap.Error(err))
		return err
	}
	post.ID = int(postID)

	if err := r.db.GetContext(ctx, &post.CreatedAt, `SELECT created_at FROM posts WHERE id = ?`, post.ID); err != nil {
		return err
	}

	util.Logger.Info("帖子创建成功", zap.Int("post_id", post.ID))
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id int) (*model.Post, error) {
	var row postRow
	if err := r.db.GetContext(ctx, &row, selectPosts+` WHERE p.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toModel(), nil
}

// Update 只更新正文、图片和分组，作者和创建时间不变
func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	query := `UPDATE posts SET text = ?, image = ?, group_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, post.Text, post.Image, post.GroupID, post.ID)
	if err != nil {
		util.Logger.Error("更新帖子失败", zap.Error(err), zap.Int("post_id", post.ID))
		return err
	}
	return nil
}

// Delete 删除帖子，评论由外键 ON DELETE CASCADE 一并删除
func (r *postRepository) Delete(ctx context.Context, id int) error {
	util.Logger.Info("开始删除帖子", zap.Int("post_id", id))

	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.Int("post_id", id))
		return err
	}
	return nil
}

func (r *postRepository) Count(ctx context.Context, filter interfaces.PostFilter) (int, error) {
	where, args := whereClause(filter)
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts p`+where, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *postRepository) List(ctx context.Context, filter interfaces.PostFilter, limit, offset int) ([]*model.Post, error) {
	where, args := whereClause(filter)
	query := selectPosts + where + `
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		util.Logger.Error("获取帖子列表失败", zap.Error(err))
		return nil, err
	}

	posts := make([]*model.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].toModel())
	}
	return posts, nil
}
