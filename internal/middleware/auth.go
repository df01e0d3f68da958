package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// TokenCookie 保存登录令牌的 cookie 名
	TokenCookie = "token"
	// RequestTimeout 每个请求的 context 超时
	RequestTimeout = 5 * time.Second

	userKey = "user"
)

// Authenticator 把令牌解析为用户
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// AuthMiddleware 解析 Authorization 头或 token cookie；没有令牌或令牌无效时按匿名用户继续
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		if token := TokenFromRequest(c); token != "" {
			user, err := auth.Authenticate(ctx, token)
			if err != nil {
				util.Logger.Debug("令牌无效，按匿名用户处理",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
			} else {
				c.Set(userKey, user)
			}
		}

		c.Next()
	}
}

// TokenFromRequest 优先使用 Bearer 头，其次是 cookie
func TokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	token, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return token
}

// CurrentUser 返回当前登录用户，匿名时为 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// LoginRequired 匿名用户重定向到登录页，next 为原请求地址
func LoginRequired(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginRedirect(loginURL, c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRedirect 生成 loginURL?next=...，next 中的斜杠不转义
func LoginRedirect(loginURL, next string) string {
	return loginURL + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}
