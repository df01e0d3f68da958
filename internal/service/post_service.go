package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/interfaces"
	"github.com/Jon-Makkonahi/YATUBE/internal/storage"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"go.uber.org/zap"
)

const (
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

// PostService 创建和编辑帖子
type PostService struct {
	posts          interfaces.PostRepository
	groups         interfaces.GroupRepository
	storage        storage.Storage
	maxUploadBytes int64
}

func NewPostService(posts interfaces.PostRepository, groups interfaces.GroupRepository, store storage.Storage, maxUploadBytes int64) *PostService {
	return &PostService{
		posts:          posts,
		groups:         groups,
		storage:        store,
		maxUploadBytes: maxUploadBytes,
	}
}

// Groups 表单中可选的分组
func (s *PostService) Groups(ctx context.Context) ([]*model.Group, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list groups", err)
	}
	return groups, nil
}

// validate 返回解析后的分组 ID；字段错误以 ErrValidation 返回
func (s *PostService) validate(ctx context.Context, form PostForm) (*int, error) {
	fields := util.ValidateForm(form)
	if fields == nil {
		fields = map[string]string{}
	}

	var groupID *int
	if raw := strings.TrimSpace(form.Group); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			fields["group"] = msgInvalidChoice
		} else {
			group, err := s.groups.FindByID(ctx, id)
			if err != nil {
				return nil, errors.Wrap(errors.ErrDatabase, "failed to look up group", err)
			}
			if group == nil {
				fields["group"] = msgInvalidChoice
			} else {
				groupID = &group.ID
			}
		}
	}

	if form.Image != nil {
		switch {
		case s.maxUploadBytes > 0 && form.Image.Size > s.maxUploadBytes:
			fields["image"] = fmt.Sprintf("Ensure this file is at most %d bytes.", s.maxUploadBytes)
		case !storage.IsImage(form.Image):
			fields["image"] = msgInvalidImage
		}
	}

	if len(fields) > 0 {
		return nil, errors.Validation(fields)
	}
	return groupID, nil
}

// saveImage 返回写入 Post.Image 的路径和存储 key；没有上传时都为空
func (s *PostService) saveImage(ctx context.Context, form PostForm) (string, string, error) {
	if form.Image == nil || s.storage == nil {
		return "", "", nil
	}
	key := storage.ImageKey(form.Image)
	path, err := s.storage.Save(ctx, form.Image, key)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrStorage, "failed to save image", err)
	}
	return path, key, nil
}

// discardImage 帖子写入失败后删除已上传的图片
func (s *PostService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		util.Logger.Error("删除孤立图片失败，需要手动清理", zap.String("key", key), zap.Error(err))
	}
}

// Create 保存新帖子，作者为提交者
func (s *PostService) Create(ctx context.Context, author *model.User, form PostForm) (*model.Post, error) {
	if author == nil {
		return nil, errors.New(errors.ErrUnauthorized, "authentication required")
	}
	form.Text = strings.TrimSpace(form.Text)
	groupID, err := s.validate(ctx, form)
	if err != nil {
		return nil, err
	}

	image, imageKey, err := s.saveImage(ctx, form)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Text:     form.Text,
		Image:    image,
		AuthorID: author.ID,
		GroupID:  groupID,
		Author:   author,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.discardImage(ctx, imageKey)
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create post", err)
	}

	util.Logger.Info("帖子发布成功", zap.Int("post_id", post.ID), zap.Int("author_id", author.ID))
	return post, nil
}

// Editable 返回 viewer 可以编辑的帖子；非作者返回 ErrForbidden
func (s *PostService) Editable(ctx context.Context, viewer *model.User, postID int) (*model.Post, error) {
	post, err := findPost(ctx, s.posts, postID)
	if err != nil {
		return nil, err
	}
	if viewer == nil || post.AuthorID != viewer.ID {
		return nil, errors.New(errors.ErrForbidden, "only the author can edit this post")
	}
	return post, nil
}

// Edit 更新正文、分组，上传了新图片时替换图片；作者和创建时间不变。
// 校验失败时同时返回未修改的帖子，用于重新渲染表单。
func (s *PostService) Edit(ctx context.Context, viewer *model.User, postID int, form PostForm) (*model.Post, error) {
	post, err := s.Editable(ctx, viewer, postID)
	if err != nil {
		return nil, err
	}

	form.Text = strings.TrimSpace(form.Text)
	groupID, err := s.validate(ctx, form)
	if err != nil {
		return post, err
	}

	image, imageKey, err := s.saveImage(ctx, form)
	if err != nil {
		return post, err
	}

	updated := *post
	updated.Text = form.Text
	updated.GroupID = groupID
	updated.Group = nil
	if image != "" {
		updated.Image = image
	}
	if err := s.posts.Update(ctx, &updated); err != nil {
		s.discardImage(ctx, imageKey)
		return post, errors.Wrap(errors.ErrDatabase, "failed to update post", err)
	}

	util.Logger.Info("帖子已更新", zap.Int("post_id", updated.ID))
	return &updated, nil
}
