package service

import (
	"context"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/interfaces"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"go.uber.org/zap"
)

// GroupService 管理员维护分组
type GroupService struct {
	groupRepo interfaces.GroupRepository
}

func NewGroupService(groupRepo interfaces.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

func (s *GroupService) Create(ctx context.Context, form GroupForm) (*model.Group, error) {
	if fields := util.ValidateForm(form); fields != nil {
		return nil, errors.Validation(fields)
	}

	existing, err := s.groupRepo.FindBySlug(ctx, form.Slug)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to look up group", err)
	}
	if existing != nil {
		appErr := errors.New(errors.ErrGroupExists, "group already exists")
		appErr.Fields = map[string]string{"slug": "Group with this Slug already exists."}
		return nil, appErr
	}

	group := &model.Group{Title: form.Title, Slug: form.Slug, Description: form.Description}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create group", err)
	}
	util.Logger.Info("分组创建成功", zap.Int("group_id", group.ID), zap.String("slug", group.Slug))
	return group, nil
}

func (s *GroupService) List(ctx context.Context) ([]*model.Group, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list groups", err)
	}
	return groups, nil
}

// DeleteBySlug 删除分组，分组内的帖子保留
func (s *GroupService) DeleteBySlug(ctx context.Context, slug string) error {
	group, err := s.groupRepo.FindBySlug(ctx, slug)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to look up group", err)
	}
	if group == nil {
		return errors.New(errors.ErrGroupNotFound, "group not found")
	}
	if err := s.groupRepo.Delete(ctx, group.ID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete group", err)
	}
	util.Logger.Info("分组已删除", zap.String("slug", slug))
	return nil
}
