package service

import (
	"context"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/interfaces"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"go.uber.org/zap"
)

// FollowService 维护关注关系
type FollowService struct {
	users   interfaces.UserRepository
	follows interfaces.FollowRepository
}

func NewFollowService(users interfaces.UserRepository, follows interfaces.FollowRepository) *FollowService {
	return &FollowService{users: users, follows: follows}
}

// Follow 关注作者；重复关注和关注自己都不做任何事
func (s *FollowService) Follow(ctx context.Context, viewer *model.User, username string) (*model.User, error) {
	if viewer == nil {
		return nil, errors.New(errors.ErrUnauthorized, "authentication required")
	}
	author, err := findUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}
	if author.ID == viewer.ID {
		return author, nil
	}

	_, created, err := s.follows.GetOrCreate(ctx, viewer.ID, author.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to follow author", err)
	}
	if created {
		util.Logger.Info("关注成功", zap.Int("user_id", viewer.ID), zap.Int("author_id", author.ID))
	}
	return author, nil
}

// Unfollow 取消关注；关注关系不存在时返回 ErrFollowNotFound
func (s *FollowService) Unfollow(ctx context.Context, viewer *model.User, username string) (*model.User, error) {
	if viewer == nil {
		return nil, errors.New(errors.ErrUnauthorized, "authentication required")
	}
	author, err := findUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}

	follow, err := s.follows.Find(ctx, viewer.ID, author.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to look up follow", err)
	}
	if follow == nil {
		util.Logger.Error("取消关注失败，关注关系不存在",
			zap.Int("user_id", viewer.ID),
			zap.Int("author_id", author.ID))
		return nil, errors.New(errors.ErrFollowNotFound, "follow does not exist")
	}

	if err := s.follows.Delete(ctx, follow.ID); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to delete follow", err)
	}
	util.Logger.Info("取消关注成功", zap.Int("user_id", viewer.ID), zap.Int("author_id", author.ID))
	return author, nil
}
