package api

import (
	"net/http"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/internal/api/about"
	"github.com/Jon-Makkonahi/YATUBE/internal/api/admin"
	"github.com/Jon-Makkonahi/YATUBE/internal/api/posts"
	"github.com/Jon-Makkonahi/YATUBE/internal/api/render"
	"github.com/Jon-Makkonahi/YATUBE/internal/api/user"
	"github.com/Jon-Makkonahi/YATUBE/internal/cache"
	"github.com/Jon-Makkonahi/YATUBE/internal/middleware"
	"github.com/Jon-Makkonahi/YATUBE/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// LoginURL 未登录用户被重定向到这里
const LoginURL = "/auth/login/"

// Deps 路由依赖的服务
type Deps struct {
	Users    *service.UserService
	Feed     *service.FeedService
	Posts    *service.PostService
	Comments *service.CommentService
	Follows  *service.FollowService
	Groups   *service.GroupService
	Stats    *service.StatsService

	PageCache     cache.Cache
	IndexCacheTTL time.Duration
	Monitor       *middleware.ErrorMonitor
	Renderer      render.Renderer

	// FrontendURL 允许跨域的来源，空串表示不启用 CORS
	FrontendURL string
	// MediaRoot 本地图片目录，空串表示不提供 /media/
	MediaRoot string
}

func NewRouter(d Deps) *gin.Engine {
	if d.Renderer == nil {
		d.Renderer = render.JSONRenderer{}
	}
	if d.Monitor == nil {
		d.Monitor = middleware.NewErrorMonitor()
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorMonitorMiddleware(d.Monitor))
	r.Use(middleware.RecoveryMiddleware())

	if d.FrontendURL != "" {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = []string{d.FrontendURL}
		corsConfig.AllowCredentials = true
		corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
		r.Use(cors.New(corsConfig))
	}

	r.Use(middleware.AuthMiddleware(d.Users))

	if d.MediaRoot != "" {
		r.Static("/media", d.MediaRoot)
	}

	loginRequired := middleware.LoginRequired(LoginURL)
	postsHandler := posts.NewHandler(d.Feed, d.Posts, d.Comments, d.Follows, d.Renderer)
	authHandler := user.NewAuthHandler(d.Users, d.Renderer)
	adminHandler := admin.NewAdminHandler(d.Groups, d.Stats, d.Monitor)

	// 首页整页缓存，其他页面不缓存
	r.GET("/", middleware.CachePage(d.PageCache, d.IndexCacheTTL), postsHandler.Index)
	r.GET("/group/:slug/", postsHandler.GroupPosts)
	r.GET("/profile/:username/", postsHandler.Profile)
	r.GET("/posts/:id/", postsHandler.PostDetail)
	r.POST("/posts/:id/comment/", loginRequired, postsHandler.AddComment)
	r.GET("/follow/", loginRequired, postsHandler.FollowIndex)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		r.Handle(method, "/create/", loginRequired, postsHandler.PostCreate)
		r.Handle(method, "/posts/:id/edit/", loginRequired, postsHandler.PostEdit)
		r.Handle(method, "/profile/:username/follow/", loginRequired, postsHandler.ProfileFollow)
		r.Handle(method, "/profile/:username/unfollow/", loginRequired, postsHandler.ProfileUnfollow)

		r.Handle(method, "/auth/signup/", authHandler.Signup)
		r.Handle(method, "/auth/login/", authHandler.Login)
		r.Handle(method, "/auth/logout/", authHandler.Logout)
	}

	r.GET("/about/author/", about.Static(d.Renderer, about.PageAuthor))
	r.GET("/about/tech/", about.Static(d.Renderer, about.PageTech))

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AdminMiddleware())
	{
		adminRoutes.GET("/groups", adminHandler.GetGroups)
		adminRoutes.POST("/groups", adminHandler.CreateGroup)
		adminRoutes.DELETE("/groups/:slug", adminHandler.DeleteGroup)
		adminRoutes.GET("/errors", adminHandler.GetErrorStats)
		adminRoutes.GET("/stats", adminHandler.GetStats)
	}

	r.NoRoute(func(c *gin.Context) {
		render.NotFound(d.Renderer, c)
	})

	return r
}
