package middleware

import (
	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminMiddleware 确保只有管理员可以访问某些路由，需放在 AuthMiddleware 之后
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			util.Logger.Warn("未登录用户访问管理接口", zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "authentication required"))
			return
		}

		if !user.IsAdmin() {
			util.Logger.Warn("非管理员访问",
				zap.Int("user_id", user.ID),
				zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrForbidden, "admin access required"))
			return
		}

		util.Logger.Info("管理员验证通过", zap.Int("user_id", user.ID))
		c.Next()
	}
}
