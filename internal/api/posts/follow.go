package posts

import (
	"net/url"

	"github.com/Jon-Makkonahi/YATUBE/internal/api/render"
	"github.com/Jon-Makkonahi/YATUBE/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ProfileFollow 关注后回到作者主页
func (h *Handler) ProfileFollow(c *gin.Context) {
	author, err := h.follows.Follow(c.Request.Context(), middleware.CurrentUser(c), c.Param("username"))
	if err != nil {
		render.Error(h.renderer, c, err)
		return
	}
	redirect(c, "/profile/"+url.PathEscape(author.Username)+"/")
}

// ProfileUnfollow 未关注时返回 500
func (h *Handler) ProfileUnfollow(c *gin.Context) {
	author, err := h.follows.Unfollow(c.Request.Context(), middleware.CurrentUser(c), c.Param("username"))
	if err != nil {
		render.Error(h.renderer, c, err)
		return
	}
	redirect(c, "/profile/"+url.PathEscape(author.Username)+"/")
}
