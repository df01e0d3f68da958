package service

import (
	"context"
	"strings"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/interfaces"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"go.uber.org/zap"
)

// CommentNotifier 新评论通知，实现不得阻塞请求
type CommentNotifier interface {
	NotifyComment(post *model.Post, comment *model.Comment)
}

type CommentService struct {
	posts    interfaces.PostRepository
	comments interfaces.CommentRepository
	notifier CommentNotifier
}

// NewCommentService notifier 可以为 nil
func NewCommentService(posts interfaces.PostRepository, comments interfaces.CommentRepository, notifier CommentNotifier) *CommentService {
	return &CommentService{posts: posts, comments: comments, notifier: notifier}
}

// Submit 校验并保存评论；校验失败时不写入任何数据
func (s *CommentService) Submit(ctx context.Context, viewer *model.User, postID int, form CommentForm) (*model.Comment, error) {
	if viewer == nil {
		return nil, errors.New(errors.ErrUnauthorized, "authentication required")
	}
	post, err := findPost(ctx, s.posts, postID)
	if err != nil {
		return nil, err
	}

	form.Text = strings.TrimSpace(form.Text)
	if fields := util.ValidateForm(form); fields != nil {
		return nil, errors.Validation(fields)
	}

	comment := &model.Comment{
		PostID:   post.ID,
		AuthorID: viewer.ID,
		Text:     form.Text,
		Author:   viewer,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create comment", err)
	}
	util.Logger.Info("评论已添加", zap.Int("comment_id", comment.ID), zap.Int("post_id", post.ID))

	if s.notifier != nil {
		s.notifier.NotifyComment(post, comment)
	}
	return comment, nil
}
