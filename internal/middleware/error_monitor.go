package middleware

import (
	"net/http"
	"sync"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMonitor 按错误码统计请求中记录的错误
type ErrorMonitor struct {
	errorCounts map[errors.ErrorCode]int
	mu          sync.RWMutex
}

func NewErrorMonitor() *ErrorMonitor {
	return &ErrorMonitor{
		errorCounts: make(map[errors.ErrorCode]int),
	}
}

func (m *ErrorMonitor) RecordError(err error) {
	code := errors.ErrInternal
	if appErr, ok := errors.As(err); ok {
		code = appErr.Code
	}
	m.mu.Lock()
	m.errorCounts[code]++
	m.mu.Unlock()
}

func (m *ErrorMonitor) GetErrorCounts() map[errors.ErrorCode]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[errors.ErrorCode]int, len(m.errorCounts))
	for code, count := range m.errorCounts {
		counts[code] = count
	}
	return counts
}

// ErrorMonitorMiddleware 5xx 记为 error，其余记为 warn
func ErrorMonitorMiddleware(monitor *ErrorMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			monitor.RecordError(e.Err)

			fields := []zap.Field{
				zap.Error(e.Err),
				zap.Int("status", errors.StatusCode(e.Err)),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			}
			if appErr, ok := errors.As(e.Err); ok {
				fields = append(fields, zap.Int("error_code", int(appErr.Code)))
			}

			if errors.StatusCode(e.Err) >= http.StatusInternalServerError {
				util.Logger.Error("请求处理错误", fields...)
			} else {
				util.Logger.Warn("请求处理错误", fields...)
			}
		}
	}
}
