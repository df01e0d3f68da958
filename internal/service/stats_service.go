package service

import (
	"context"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/interfaces"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"go.uber.org/zap"
)

// SiteStats 站点概况
type SiteStats struct {
	TotalPosts   int `json:"total_posts"`
	TotalGroups  int `json:"total_groups"`
	TotalFollows int `json:"total_follows"`
	// PostsByGroup 按分组 slug 统计的帖子数
	PostsByGroup map[string]int `json:"posts_by_group"`
}

type StatsService struct {
	posts   interfaces.PostRepository
	groups  interfaces.GroupRepository
	follows interfaces.FollowRepository
}

func NewStatsService(posts interfaces.PostRepository, groups interfaces.GroupRepository, follows interfaces.FollowRepository) *StatsService {
	return &StatsService{posts: posts, groups: groups, follows: follows}
}

func (s *StatsService) GetSiteStats(ctx context.Context) (*SiteStats, error) {
	total, err := s.posts.Count(ctx, interfaces.PostFilter{})
	if err != nil {
		util.Logger.Error("统计帖子数失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count posts", err)
	}

	groups, err := s.groups.List(ctx)
	if err != nil {
		util.Logger.Error("获取分组列表失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list groups", err)
	}

	stats := &SiteStats{
		TotalPosts:   total,
		TotalGroups:  len(groups),
		PostsByGroup: make(map[string]int, len(groups)),
	}
	for _, g := range groups {
		groupID := g.ID
		n, err := s.posts.Count(ctx, interfaces.PostFilter{GroupID: &groupID})
		if err != nil {
			util.Logger.Error("统计分组帖子数失败", zap.Error(err), zap.String("slug", g.Slug))
			return nil, errors.Wrap(errors.ErrDatabase, "failed to count posts", err)
		}
		stats.PostsByGroup[g.Slug] = n
	}

	stats.TotalFollows, err = s.follows.Count(ctx)
	if err != nil {
		util.Logger.Error("统计关注数失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count follows", err)
	}
	return stats, nil
}
