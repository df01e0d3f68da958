package posts

import (
	"net/http"

	"github.com/Jon-Makkonahi/YATUBE/internal/api/render"
	"github.com/Jon-Makkonahi/YATUBE/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Index 首页，全部帖子
func (h *Handler) Index(c *gin.Context) {
	page, err := h.feed.Index(c.Request.Context(), c.Query("page"))
	if err != nil {
		render.Error(h.renderer, c, err)
		return
	}
	h.renderer.Render(c, http.StatusOK, PageIndex, page)
}

// GroupPosts 分组页
func (h *Handler) GroupPosts(c *gin.Context) {
	feed, err := h.feed.Group(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		render.Error(h.renderer, c, err)
		return
	}
	h.renderer.Render(c, http.StatusOK, PageGroupList, feed)
}

// Profile 作者主页
func (h *Handler) Profile(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	feed, err := h.feed.Profile(c.Request.Context(), c.Param("username"), viewer, c.Query("page"))
	if err != nil {
		render.Error(h.renderer, c, err)
		return
	}
	h.renderer.Render(c, http.StatusOK, PageProfile, feed)
}

// PostDetail 帖子详情和空的评论表单
func (h *Handler) PostDetail(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}
	detail, err := h.feed.Detail(c.Request.Context(), id)
	if err != nil {
		render.Error(h.renderer, c, err)
		return
	}
	h.renderer.Render(c, http.StatusOK, PagePostDetail, detailContext{PostDetail: detail})
}

// FollowIndex 关注的作者的帖子
func (h *Handler) FollowIndex(c *gin.Context) {
	page, err := h.feed.Follow(c.Request.Context(), middleware.CurrentUser(c), c.Query("page"))
	if err != nil {
		render.Error(h.renderer, c, err)
		return
	}
	h.renderer.Render(c, http.StatusOK, PageFollow, page)
}
