package errors

import (
	"net/http"

	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse 定义错误响应结构
type ErrorResponse struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SuccessResponse 定义成功响应结构
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,
	ErrCache:    http.StatusInternalServerError,
	ErrTimeout:  http.StatusRequestTimeout,
	ErrStorage:  http.StatusInternalServerError,

	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusUnauthorized,

	ErrBadRequest:       http.StatusBadRequest,
	ErrValidation:       http.StatusBadRequest,
	ErrResourceNotFound: http.StatusNotFound,
	ErrResourceExists:   http.StatusConflict,

	ErrUserNotFound:   http.StatusNotFound,
	ErrUserExists:     http.StatusConflict,
	ErrGroupNotFound:  http.StatusNotFound,
	ErrGroupExists:    http.StatusConflict,
	ErrPostNotFound:   http.StatusNotFound,
	ErrFollowNotFound: http.StatusInternalServerError,
}

// StatusCode 返回错误对应的 HTTP 状态码
func StatusCode(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	status := errorStatusMap[appErr.Code]
	if status == 0 {
		return http.StatusInternalServerError
	}
	return status
}

// HandleError 统一处理错误响应；5xx 只记录底层错误，不返回给客户端
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		util.Logger.Error("请求处理失败",
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}

	if appErr, ok := As(err); ok {
		resp := ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Fields:  appErr.Fields,
		}
		if appErr.Err != nil && status < http.StatusInternalServerError {
			resp.Error = appErr.Err.Error()
		}
		c.AbortWithStatusJSON(status, resp)
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Code:    ErrInternal,
		Message: "Internal Server Error",
	})
}

// HandleSuccess 统一处理成功响应
func HandleSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, SuccessResponse{
		Code:    status,
		Message: message,
		Data:    data,
	})
}
