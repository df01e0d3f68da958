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

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) *followRepository {
	return &followRepository{db: db}
}

// GetOrCreate 依赖 uniq_follow_user_author 唯一键，重复插入时影响行数为 0
func (r *followRepository) GetOrCreate(ctx context.Context, userID, authorID int) (*model.Follow, bool, error) {
	result, err := r.db.ExecContext(ctx, `
        INSERT INTO follows (user_id, author_id, created_at)
        VALUES (?, ?, NOW(6))
        ON DUPLICATE KEY UPDATE id = id`, userID, authorID)
	if err != nil {
		util.Logger.Error("创建关注失败", zap.Error(err), zap.Int("user_id", userID), zap.Int("author_id", authorID))
		return nil, false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	follow, err := r.Find(ctx, userID, authorID)
	if err != nil {
		return nil, false, err
	}
	if follow == nil {
		return nil, false, errors.New("follow row missing after insert")
	}
	if affected > 0 {
		util.Logger.Info("关注创建成功", zap.Int("follow_id", follow.ID))
	}
	return follow, affected > 0, nil
}

func (r *followRepository) Find(ctx context.Context, userID, authorID int) (*model.Follow, error) {
	var follow model.Follow
	err := r.db.GetContext(ctx, &follow,
		`SELECT id, user_id, author_id, created_at FROM follows WHERE user_id = ? AND author_id = ?`,
		userID, authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &follow, nil
}

func (r *followRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM follows WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除关注失败", zap.Error(err), zap.Int("follow_id", id))
		return err
	}
	util.Logger.Info("关注删除成功", zap.Int("follow_id", id))
	return nil
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
        SELECT EXISTS(
            SELECT 1 FROM follows
            WHERE user_id = ? AND author_id = ?
        )`, userID, authorID)
	return exists, err
}

func (r *followRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM follows`)
	return count, err
}
