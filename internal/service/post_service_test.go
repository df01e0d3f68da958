package service

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/interfaces"
	"github.com/Jon-Makkonahi/YATUBE/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

func uploadedFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func (f *fixture) posts(t *testing.T) *PostService {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewPostService(f.store.Posts(), f.store.Groups(), store, 1<<20)
}

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	service := f.posts(t)
	ctx := context.Background()

	post, err := service.Create(ctx, f.author, PostForm{
		Text:  "Тестовый текст",
		Group: strconv.Itoa(f.group.ID),
		Image: uploadedFile(t, "small.gif", smallGIF),
	})
	require.NoError(t, err)

	stored, err := f.store.Posts().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Тестовый текст", stored.Text)
	assert.Equal(t, f.author.ID, stored.AuthorID)
	assert.Equal(t, f.group.ID, *stored.GroupID)
	assert.Contains(t, stored.Image, "posts/")
	assert.Contains(t, stored.Image, "small.gif")
}

func TestCreatePostWithoutGroup(t *testing.T) {
	f := newFixture(t)
	post, err := f.posts(t).Create(context.Background(), f.author, PostForm{Text: "Без группы", Group: ""})
	require.NoError(t, err)
	assert.Nil(t, post.GroupID)
	assert.Empty(t, post.Image)
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)
	service := f.posts(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		form  PostForm
		field string
	}{
		{"blank text", PostForm{Text: "  "}, "text"},
		{"unknown group", PostForm{Text: "текст", Group: "9999"}, "group"},
		{"non numeric group", PostForm{Text: "текст", Group: "abc"}, "group"},
		{"not an image", PostForm{Text: "текст", Image: uploadedFile(t, "fake.gif", []byte("plain text"))}, "image"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(ctx, f.author, tc.form)
			require.True(t, errors.Is(err, errors.ErrValidation))
			appErr, _ := errors.As(err)
			assert.Contains(t, appErr.Fields, tc.field)
		})
	}

	total, err := f.store.Posts().Count(ctx, interfaces.PostFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreatePostImageTooLarge(t *testing.T) {
	f := newFixture(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	service := NewPostService(f.store.Posts(), f.store.Groups(), store, 10)

	_, err = service.Create(context.Background(), f.author, PostForm{Text: "текст", Image: uploadedFile(t, "small.gif", smallGIF)})
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Ensure this file is at most 10 bytes.", appErr.Fields["image"])
}

func TestEditPost(t *testing.T) {
	f := newFixture(t)
	service := f.posts(t)
	ctx := context.Background()
	post := f.addPosts(t, 1, f.author, f.group)[0]

	// 非作者不能编辑
	_, err := service.Edit(ctx, f.reader, post.ID, PostForm{Text: "чужой текст"})
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	// 校验失败时帖子不变
	unchanged, err := service.Edit(ctx, f.author, post.ID, PostForm{Text: ""})
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Equal(t, post.Text, unchanged.Text)

	updated, err := service.Edit(ctx, f.author, post.ID, PostForm{Text: "Новый текст", Group: strconv.Itoa(f.other.ID)})
	require.NoError(t, err)
	assert.Equal(t, f.author.ID, updated.AuthorID)

	stored, err := f.store.Posts().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Новый текст", stored.Text)
	assert.Equal(t, f.other.ID, *stored.GroupID)
	assert.Equal(t, f.author.ID, stored.AuthorID)
	assert.Equal(t, post.CreatedAt, stored.CreatedAt)

	_, err = service.Edit(ctx, f.author, 9999, PostForm{Text: "x"})
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

func TestEditKeepsImageWithoutUpload(t *testing.T) {
	f := newFixture(t)
	service := f.posts(t)
	ctx := context.Background()

	post, err := service.Create(ctx, f.author, PostForm{Text: "с картинкой", Image: uploadedFile(t, "small.gif", smallGIF)})
	require.NoError(t, err)

	_, err = service.Edit(ctx, f.author, post.ID, PostForm{Text: "без новой картинки"})
	require.NoError(t, err)

	stored, err := f.store.Posts().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Image, stored.Image)
	assert.Nil(t, stored.GroupID)
}

// failingPosts 写入帖子总是失败，读取走内存存储
type failingPosts struct {
	interfaces.PostRepository
}

func (failingPosts) Create(context.Context, *model.Post) error {
	return stderrors.New("connection reset by peer")
}

func (failingPosts) Update(context.Context, *model.Post) error {
	return stderrors.New("connection reset by peer")
}

// storedFiles 返回 dir 下所有文件的相对路径
func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(dir, path)
			files = append(files, rel)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestPostWriteFailureRemovesUploadedImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	service := NewPostService(failingPosts{f.store.Posts()}, f.store.Groups(), store, 1<<20)

	_, err = service.Create(ctx, f.author, PostForm{Text: "текст", Image: uploadedFile(t, "small.gif", smallGIF)})
	assert.True(t, errors.Is(err, errors.ErrDatabase))
	assert.Empty(t, storedFiles(t, dir))

	post := f.addPosts(t, 1, f.author, nil)[0]
	unchanged, err := service.Edit(ctx, f.author, post.ID, PostForm{Text: "новый", Image: uploadedFile(t, "small.gif", smallGIF)})
	assert.True(t, errors.Is(err, errors.ErrDatabase))
	assert.Equal(t, post.Text, unchanged.Text)
	assert.Empty(t, storedFiles(t, dir))
}

func TestPostTextIsTrimmed(t *testing.T) {
	f := newFixture(t)
	service := f.posts(t)
	ctx := context.Background()

	post, err := service.Create(ctx, f.author, PostForm{Text: "  Текст поста \n"})
	require.NoError(t, err)
	assert.Equal(t, "Текст поста", post.Text)

	_, err = service.Edit(ctx, f.author, post.ID, PostForm{Text: "\tНовый текст  "})
	require.NoError(t, err)
	stored, err := f.store.Posts().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Новый текст", stored.Text)
}

func TestEditByOtherUserChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	service := NewPostService(f.store.Posts(), f.store.Groups(), store, 1<<20)

	post, err := service.Create(ctx, f.author, PostForm{
		Text:  "Исходный текст",
		Group: strconv.Itoa(f.group.ID),
		Image: uploadedFile(t, "small.gif", smallGIF),
	})
	require.NoError(t, err)
	before, err := f.store.Posts().FindByID(ctx, post.ID)
	require.NoError(t, err)
	filesBefore := storedFiles(t, dir)
	require.Len(t, filesBefore, 1)

	_, err = service.Edit(ctx, f.reader, post.ID, PostForm{
		Text:  "чужой текст",
		Group: strconv.Itoa(f.other.ID),
		Image: uploadedFile(t, "other.gif", smallGIF),
	})
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	after, err := f.store.Posts().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Text, after.Text)
	assert.Equal(t, before.AuthorID, after.AuthorID)
	require.NotNil(t, after.GroupID)
	assert.Equal(t, *before.GroupID, *after.GroupID)
	assert.Equal(t, before.Image, after.Image)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Equal(t, filesBefore, storedFiles(t, dir))
}
