package about

import (
	"net/http"

	"github.com/Jon-Makkonahi/YATUBE/internal/api/render"

	"github.com/gin-gonic/gin"
)

const (
	PageAuthor = "about/author"
	PageTech   = "about/tech"
)

// Static 渲染不需要数据的页面
func Static(renderer render.Renderer, page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderer.Render(c, http.StatusOK, page, gin.H{})
	}
}
