package user

import (
	"net/http"
	"strings"

	"github.com/Jon-Makkonahi/YATUBE/internal/api/render"
	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/middleware"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/service"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	PageSignup    = "users/signup"
	PageLogin     = "users/login"
	PageLoggedOut = "users/logged_out"
)

// AuthHandler 处理注册、登录和登出
type AuthHandler struct {
	userService *service.UserService
	renderer    render.Renderer
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService *service.UserService, renderer render.Renderer) *AuthHandler {
	return &AuthHandler{userService: userService, renderer: renderer}
}

type formContext struct {
	Form   interface{}       `json:"form"`
	Errors map[string]string `json:"errors,omitempty"`
	Next   string            `json:"next,omitempty"`
}

// Signup GET 显示表单，POST 注册并登录
func (h *AuthHandler) Signup(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.renderer.Render(c, http.StatusOK, PageSignup, formContext{Form: service.SignupForm{}})
		return
	}

	var form service.SignupForm
	if err := c.ShouldBind(&form); err != nil {
		util.Logger.Debug("解析注册表单失败", zap.Error(err))
	}

	user, err := h.userService.Register(c.Request.Context(), form)
	if err != nil {
		if fields := formErrors(err); fields != nil {
			util.Logger.Info("注册失败", zap.String("username", form.Username))
			h.renderer.Render(c, http.StatusOK, PageSignup, formContext{Form: form, Errors: fields})
			return
		}
		render.Error(h.renderer, c, err)
		return
	}

	if !h.login(c, user) {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Login GET 显示表单，POST 登录后跳转到 next
func (h *AuthHandler) Login(c *gin.Context) {
	next := safeNext(c.Query("next"))
	if c.Request.Method != http.MethodPost {
		h.renderer.Render(c, http.StatusOK, PageLogin, formContext{Form: service.LoginForm{}, Next: next})
		return
	}

	var form service.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		util.Logger.Debug("解析登录表单失败", zap.Error(err))
	}
	if posted := safeNext(c.PostForm("next")); posted != "" {
		next = posted
	}

	user, err := h.userService.Login(c.Request.Context(), form)
	if err != nil {
		if fields := formErrors(err); fields != nil {
			h.renderer.Render(c, http.StatusOK, PageLogin, formContext{Form: form, Errors: fields, Next: next})
			return
		}
		render.Error(h.renderer, c, err)
		return
	}

	if !h.login(c, user) {
		return
	}
	if next == "" {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

// Logout 作废令牌并清除 cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	h.userService.Logout(middleware.TokenFromRequest(c))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	h.renderer.Render(c, http.StatusOK, PageLoggedOut, gin.H{})
}

func (h *AuthHandler) login(c *gin.Context, user *model.User) bool {
	token, err := h.userService.IssueToken(user)
	if err != nil {
		util.Logger.Error("生成令牌失败", zap.Error(err), zap.Int("user_id", user.ID))
		render.Error(h.renderer, c, err)
		return false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(util.TokenTTL.Seconds()), "/", "", false, true)
	return true
}

// formErrors 取出可以在表单上显示的错误
func formErrors(err error) map[string]string {
	appErr, ok := errors.As(err)
	if !ok {
		return nil
	}
	return appErr.Fields
}

// safeNext 只允许站内路径
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
