package posts

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Jon-Makkonahi/YATUBE/internal/api/render"
	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/middleware"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/service"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) bindPostForm(c *gin.Context) service.PostForm {
	var form service.PostForm
	if err := c.ShouldBind(&form); err != nil {
		util.Logger.Debug("解析帖子表单失败", zap.Error(err))
	}
	form.Image = formFile(c, "image")
	return form
}

func (h *Handler) renderPostForm(c *gin.Context, ctx postFormContext) {
	groups, err := h.posts.Groups(c.Request.Context())
	if err != nil {
		render.Error(h.renderer, c, err)
		return
	}
	ctx.Groups = groups
	h.renderer.Render(c, http.StatusOK, PageCreatePost, ctx)
}

// PostCreate GET 显示空表单，POST 发布帖子
func (h *Handler) PostCreate(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.renderPostForm(c, postFormContext{})
		return
	}

	author := middleware.CurrentUser(c)
	form := h.bindPostForm(c)
	if _, err := h.posts.Create(c.Request.Context(), author, form); err != nil {
		if fields, ok := validationFields(err); ok {
			h.renderPostForm(c, postFormContext{Form: form, Errors: fields})
			return
		}
		render.Error(h.renderer, c, err)
		return
	}

	redirect(c, "/profile/"+url.PathEscape(author.Username)+"/")
}

// PostEdit 只有作者可以编辑，其他用户被重定向到首页
func (h *Handler) PostEdit(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}
	viewer := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	if c.Request.Method != http.MethodPost {
		post, err := h.posts.Editable(ctx, viewer, id)
		if err != nil {
			h.editError(c, err)
			return
		}
		h.renderPostForm(c, postFormContext{Form: formFromPost(post), IsEdit: true, Post: post})
		return
	}

	form := h.bindPostForm(c)
	post, err := h.posts.Edit(ctx, viewer, id, form)
	if err != nil {
		if fields, ok := validationFields(err); ok && post != nil {
			h.renderPostForm(c, postFormContext{Form: form, Errors: fields, IsEdit: true, Post: post})
			return
		}
		h.editError(c, err)
		return
	}

	redirect(c, fmt.Sprintf("/posts/%d/", post.ID))
}

func (h *Handler) editError(c *gin.Context, err error) {
	if errors.Is(err, errors.ErrForbidden) {
		redirect(c, "/")
		return
	}
	render.Error(h.renderer, c, err)
}

func formFromPost(post *model.Post) service.PostForm {
	form := service.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.Itoa(*post.GroupID)
	}
	return form
}
