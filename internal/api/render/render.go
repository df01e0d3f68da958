// Package render writes page responses. A page is identified by its template
// name and carries a context object; the default renderer emits both as JSON.
package render

import (
	"net/http"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"

	"github.com/gin-gonic/gin"
)

const NotFoundPage = "core/404"

type Renderer interface {
	Render(c *gin.Context, status int, page string, data interface{})
}

// Response is the body written by JSONRenderer.
type Response struct {
	Template string      `json:"template"`
	Context  interface{} `json:"context"`
}

type JSONRenderer struct{}

func (JSONRenderer) Render(c *gin.Context, status int, page string, data interface{}) {
	c.JSON(status, Response{Template: page, Context: data})
}

// NotFound renders the 404 page for the current path.
func NotFound(r Renderer, c *gin.Context) {
	r.Render(c, http.StatusNotFound, NotFoundPage, gin.H{"path": c.Request.URL.Path})
}

// Error renders not-found errors as the 404 page and hands everything else to
// errors.HandleError.
func Error(r Renderer, c *gin.Context, err error) {
	if errors.IsNotFound(err) {
		_ = c.Error(err)
		NotFound(r, c)
		c.Abort()
		return
	}
	errors.HandleError(c, err)
}
