package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memory.Store
	author *model.User
	reader *model.User
	group  *model.Group
	other  *model.Group
}

// newFixture 作者、读者、两个分组；时钟每次调用前进一秒
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})

	f := &fixture{
		store:  store,
		author: &model.User{Username: "author", Email: "author@example.com"},
		reader: &model.User{Username: "reader"},
		group:  &model.Group{Title: "Тестовая группа", Slug: "test-slug", Description: "Тестовое описание"},
		other:  &model.Group{Title: "Другая группа", Slug: "other-slug", Description: "Описание"},
	}
	require.NoError(t, store.Users().Create(ctx, f.author))
	require.NoError(t, store.Users().Create(ctx, f.reader))
	require.NoError(t, store.Groups().Create(ctx, f.group))
	require.NoError(t, store.Groups().Create(ctx, f.other))
	return f
}

func (f *fixture) addPosts(t *testing.T, n int, author *model.User, group *model.Group) []*model.Post {
	t.Helper()
	posts := make([]*model.Post, 0, n)
	for i := 0; i < n; i++ {
		post := &model.Post{Text: fmt.Sprintf("Тестовый пост %d", i), AuthorID: author.ID}
		if group != nil {
			post.GroupID = &group.ID
		}
		require.NoError(t, f.store.Posts().Create(context.Background(), post))
		posts = append(posts, post)
	}
	return posts
}

func (f *fixture) feed() *FeedService {
	return NewFeedService(f.store.Posts(), f.store.Groups(), f.store.Users(), f.store.Follows(), f.store.Comments(), 10)
}

func TestIndexPagination(t *testing.T) {
	f := newFixture(t)
	f.addPosts(t, 13, f.author, f.group)
	feed := f.feed()
	ctx := context.Background()

	first, err := feed.Index(ctx, "")
	require.NoError(t, err)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, 2, first.Page.NumPages)
	assert.Equal(t, "Тестовый пост 12", first.Posts[0].Text)
	require.NotNil(t, first.Posts[0].Author)
	assert.Equal(t, "author", first.Posts[0].Author.Username)

	second, err := feed.Index(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, second.Posts, 3)

	for _, raw := range []string{"abc", "0", "-3"} {
		page, err := feed.Index(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page.Number, raw)
	}
	last, err := feed.Index(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, 2, last.Page.Number)
	assert.Len(t, last.Posts, 3)
}

func TestIndexEmpty(t *testing.T) {
	f := newFixture(t)
	page, err := f.feed().Index(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, page.Page.NumPages)
}

func TestGroupFeed(t *testing.T) {
	f := newFixture(t)
	inGroup := f.addPosts(t, 2, f.author, f.group)
	f.addPosts(t, 3, f.author, f.other)
	feed := f.feed()
	ctx := context.Background()

	page, err := feed.Group(ctx, "test-slug", "")
	require.NoError(t, err)
	assert.Equal(t, "test-slug", page.Group.Slug)
	require.Len(t, page.Posts, 2)
	for _, p := range page.Posts {
		assert.Equal(t, f.group.ID, *p.GroupID)
	}
	assert.Equal(t, inGroup[1].ID, page.Posts[0].ID)

	_, err = feed.Group(ctx, "missing", "")
	assert.True(t, errors.IsNotFound(err))
}

func TestProfileFeedFollowing(t *testing.T) {
	f := newFixture(t)
	f.addPosts(t, 3, f.author, nil)
	feed := f.feed()
	ctx := context.Background()

	anonymous, err := feed.Profile(ctx, "author", nil, "")
	require.NoError(t, err)
	assert.False(t, anonymous.Following)
	assert.Equal(t, 3, anonymous.PostsCount)
	assert.Equal(t, "author", anonymous.Author.Username)

	notFollowing, err := feed.Profile(ctx, "author", f.reader, "")
	require.NoError(t, err)
	assert.False(t, notFollowing.Following)

	_, _, err = f.store.Follows().GetOrCreate(ctx, f.reader.ID, f.author.ID)
	require.NoError(t, err)

	following, err := feed.Profile(ctx, "author", f.reader, "")
	require.NoError(t, err)
	assert.True(t, following.Following)

	_, err = feed.Profile(ctx, "ghost", nil, "")
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}

func TestFollowFeed(t *testing.T) {
	f := newFixture(t)
	f.addPosts(t, 2, f.author, nil)
	feed := f.feed()
	ctx := context.Background()

	empty, err := feed.Follow(ctx, f.reader, "")
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)

	_, _, err = f.store.Follows().GetOrCreate(ctx, f.reader.ID, f.author.ID)
	require.NoError(t, err)

	page, err := feed.Follow(ctx, f.reader, "")
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)

	// 作者自己的关注页不包含自己的帖子
	own, err := feed.Follow(ctx, f.author, "")
	require.NoError(t, err)
	assert.Empty(t, own.Posts)

	_, err = feed.Follow(ctx, nil, "")
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))
}

func TestDetail(t *testing.T) {
	f := newFixture(t)
	posts := f.addPosts(t, 2, f.author, f.group)
	ctx := context.Background()

	for _, text := range []string{"первый", "второй"} {
		require.NoError(t, f.store.Comments().Create(ctx, &model.Comment{PostID: posts[0].ID, AuthorID: f.reader.ID, Text: text}))
	}

	detail, err := f.feed().Detail(ctx, posts[0].ID)
	require.NoError(t, err)
	assert.Equal(t, posts[0].ID, detail.Post.ID)
	assert.Equal(t, 2, detail.PostsCount)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "первый", detail.Comments[0].Text)
	assert.Equal(t, "reader", detail.Comments[0].Author.Username)

	_, err = f.feed().Detail(ctx, 9999)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}
