package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type groupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) *groupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO post_groups (title, slug, description) VALUES (?, ?, ?)`,
		group.Title, group.Slug, group.Description)
	if err != nil {
		util.Logger.Error("创建分组失败", zap.Error(err), zap.String("slug", group.Slug))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	group.ID = int(id)
	return nil
}

func (r *groupRepository) FindByID(ctx context.Context, id int) (*model.Group, error) {
	return r.findOne(ctx, `SELECT id, title, slug, description FROM post_groups WHERE id = ?`, id)
}

func (r *groupRepository) FindBySlug(ctx context.Context, slug string) (*model.Group, error) {
	return r.findOne(ctx, `SELECT id, title, slug, description FROM post_groups WHERE slug = ?`, slug)
}

func (r *groupRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Group, error) {
	var group model.Group
	if err := r.db.GetContext(ctx, &group, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]*model.Group, error) {
	groups := []*model.Group{}
	err := r.db.SelectContext(ctx, &groups, `SELECT id, title, slug, description FROM post_groups ORDER BY title ASC`)
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Delete 删除分组，帖子的 group_id 由外键 ON DELETE SET NULL 置空
func (r *groupRepository) Delete(ctx context.Context, id int) error {
	util.Logger.Info("开始删除分组", zap.Int("group_id", id))
	if _, err := r.db.ExecContext(ctx, `DELETE FROM post_groups WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除分组失败", zap.Error(err), zap.Int("group_id", id))
		return err
	}
	return nil
}
