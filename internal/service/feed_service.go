package service

import (
	"context"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/pagination"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/interfaces"
)

// PostsPage 一页帖子，按创建时间倒序
type PostsPage struct {
	Posts []*model.Post   `json:"posts"`
	Page  pagination.Page `json:"page_obj"`
}

type GroupFeed struct {
	Group *model.Group `json:"group"`
	PostsPage
}

type ProfileFeed struct {
	Author     *model.User `json:"author"`
	PostsCount int         `json:"posts_count"`
	// Following 当前访问者是否关注了作者，匿名访问者始终为 false
	Following bool `json:"following"`
	PostsPage
}

type PostDetail struct {
	Post       *model.Post      `json:"post"`
	Comments   []*model.Comment `json:"comments"`
	PostsCount int              `json:"posts_count"`
}

// FeedService 组装各类帖子列表，只读
type FeedService struct {
	posts     interfaces.PostRepository
	groups    interfaces.GroupRepository
	users     interfaces.UserRepository
	follows   interfaces.FollowRepository
	comments  interfaces.CommentRepository
	paginator pagination.Paginator
}

func NewFeedService(
	posts interfaces.PostRepository,
	groups interfaces.GroupRepository,
	users interfaces.UserRepository,
	follows interfaces.FollowRepository,
	comments interfaces.CommentRepository,
	perPage int,
) *FeedService {
	return &FeedService{
		posts:     posts,
		groups:    groups,
		users:     users,
		follows:   follows,
		comments:  comments,
		paginator: pagination.New(perPage),
	}
}

func (s *FeedService) page(ctx context.Context, filter interfaces.PostFilter, rawPage string) (*PostsPage, error) {
	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count posts", err)
	}
	page := s.paginator.Page(rawPage, total)

	posts, err := s.posts.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list posts", err)
	}
	return &PostsPage{Posts: posts, Page: page}, nil
}

// Index 全部帖子
func (s *FeedService) Index(ctx context.Context, rawPage string) (*PostsPage, error) {
	return s.page(ctx, interfaces.PostFilter{}, rawPage)
}

// Group 某个分组的帖子
func (s *FeedService) Group(ctx context.Context, slug, rawPage string) (*GroupFeed, error) {
	group, err := s.groups.FindBySlug(ctx, slug)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to look up group", err)
	}
	if group == nil {
		return nil, errors.New(errors.ErrGroupNotFound, "group not found")
	}

	page, err := s.page(ctx, interfaces.PostFilter{GroupID: &group.ID}, rawPage)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, PostsPage: *page}, nil
}

// Profile 某个作者的帖子；viewer 为 nil 表示匿名访问
func (s *FeedService) Profile(ctx context.Context, username string, viewer *model.User, rawPage string) (*ProfileFeed, error) {
	author, err := s.findAuthor(ctx, username)
	if err != nil {
		return nil, err
	}

	page, err := s.page(ctx, interfaces.PostFilter{AuthorID: &author.ID}, rawPage)
	if err != nil {
		return nil, err
	}

	following := false
	if viewer != nil {
		following, err = s.follows.Exists(ctx, viewer.ID, author.ID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "failed to check follow", err)
		}
	}

	return &ProfileFeed{
		Author:     author,
		PostsCount: page.Page.Total,
		Following:  following,
		PostsPage:  *page,
	}, nil
}

// Follow 访问者关注的作者的帖子
func (s *FeedService) Follow(ctx context.Context, viewer *model.User, rawPage string) (*PostsPage, error) {
	if viewer == nil {
		return nil, errors.New(errors.ErrUnauthorized, "authentication required")
	}
	return s.page(ctx, interfaces.PostFilter{FollowerID: &viewer.ID}, rawPage)
}

// Detail 帖子详情和评论
func (s *FeedService) Detail(ctx context.Context, postID int) (*PostDetail, error) {
	post, err := findPost(ctx, s.posts, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list comments", err)
	}

	count, err := s.posts.Count(ctx, interfaces.PostFilter{AuthorID: &post.AuthorID})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count posts", err)
	}
	return &PostDetail{Post: post, Comments: comments, PostsCount: count}, nil
}

func (s *FeedService) findAuthor(ctx context.Context, username string) (*model.User, error) {
	return findUser(ctx, s.users, username)
}

func findUser(ctx context.Context, users interfaces.UserRepository, username string) (*model.User, error) {
	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to look up user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

func findPost(ctx context.Context, posts interfaces.PostRepository, id int) (*model.Post, error) {
	post, err := posts.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to look up post", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "post not found")
	}
	return post, nil
}
