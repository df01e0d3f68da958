package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/internal/cache"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pageCachePrefix = "page:"

type cachedPage struct {
	Status      int
	ContentType string
	Body        []byte
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage 缓存整页 GET 响应，键为请求 URI；写操作不会主动失效
func CachePage(store cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := pageCachePrefix + c.Request.URL.RequestURI()
		if v, ok := store.Get(key); ok {
			if page, ok := v.(*cachedPage); ok {
				util.Logger.Debug("命中页面缓存", zap.String("key", key))
				c.Data(page.Status, page.ContentType, page.Body)
				c.Abort()
				return
			}
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder
		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		store.Set(key, &cachedPage{
			Status:      http.StatusOK,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		}, ttl)
	}
}
