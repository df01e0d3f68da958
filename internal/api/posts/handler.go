package posts

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Jon-Makkonahi/YATUBE/internal/api/render"
	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/service"

	"github.com/gin-gonic/gin"
)

// 模板名
const (
	PageIndex      = "posts/index"
	PageGroupList  = "posts/group_list"
	PageProfile    = "posts/profile"
	PagePostDetail = "posts/post_detail"
	PageCreatePost = "posts/create_post"
	PageFollow     = "posts/follow"
)

// Handler 处理帖子、评论和关注相关的页面
type Handler struct {
	feed     *service.FeedService
	posts    *service.PostService
	comments *service.CommentService
	follows  *service.FollowService
	renderer render.Renderer
}

func NewHandler(
	feed *service.FeedService,
	posts *service.PostService,
	comments *service.CommentService,
	follows *service.FollowService,
	renderer render.Renderer,
) *Handler {
	return &Handler{
		feed:     feed,
		posts:    posts,
		comments: comments,
		follows:  follows,
		renderer: renderer,
	}
}

// postID 解析路径中的帖子 ID，非法时渲染 404
func (h *Handler) postID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		render.NotFound(h.renderer, c)
		return 0, false
	}
	return id, true
}

// formFile 没有上传文件时返回 nil
func formFile(c *gin.Context, name string) *multipart.FileHeader {
	file, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return file
}

// validationFields 取出表单错误；不是校验类错误时返回 false
func validationFields(err error) (map[string]string, bool) {
	appErr, ok := errors.As(err)
	if !ok || appErr.Fields == nil {
		return nil, false
	}
	return appErr.Fields, true
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
