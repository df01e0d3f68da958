package posts

import (
	"fmt"
	"net/http"

	"github.com/Jon-Makkonahi/YATUBE/internal/api/render"
	"github.com/Jon-Makkonahi/YATUBE/internal/middleware"
	"github.com/Jon-Makkonahi/YATUBE/internal/service"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddComment 校验失败时重新渲染详情页并显示错误，成功后回到详情页
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var form service.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		util.Logger.Debug("解析评论表单失败", zap.Error(err))
	}

	if _, err := h.comments.Submit(ctx, middleware.CurrentUser(c), id, form); err != nil {
		fields, ok := validationFields(err)
		if !ok {
			render.Error(h.renderer, c, err)
			return
		}
		detail, err := h.feed.Detail(ctx, id)
		if err != nil {
			render.Error(h.renderer, c, err)
			return
		}
		h.renderer.Render(c, http.StatusOK, PagePostDetail, detailContext{PostDetail: detail, Form: form, Errors: fields})
		return
	}

	redirect(c, fmt.Sprintf("/posts/%d/", id))
}
