package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/config"
	"github.com/Jon-Makkonahi/YATUBE/internal/api"
	"github.com/Jon-Makkonahi/YATUBE/internal/cache"
	"github.com/Jon-Makkonahi/YATUBE/internal/database"
	"github.com/Jon-Makkonahi/YATUBE/internal/middleware"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/interfaces"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/memory"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/mysql"
	"github.com/Jon-Makkonahi/YATUBE/internal/service"
	"github.com/Jon-Makkonahi/YATUBE/internal/storage"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"go.uber.org/zap"
)

// repositories 一组实体存储
type repositories struct {
	users    interfaces.UserRepository
	groups   interfaces.GroupRepository
	posts    interfaces.PostRepository
	comments interfaces.CommentRepository
	follows  interfaces.FollowRepository
	close    func() error
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置；此时 zap 尚未初始化，失败时用标准 log 输出
	if err := config.Init(); err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	cfg := config.AppConfig

	// 初始化日志
	util.InitLogger(cfg.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	repos, err := openRepositories(cfg)
	if err != nil {
		util.Logger.Fatal("初始化数据存储失败", zap.Error(err))
	}
	defer repos.close()

	imageStorage, err := storage.New(cfg)
	if err != nil {
		util.Logger.Fatal("初始化图片存储失败", zap.Error(err))
	}
	mediaRoot := ""
	if local, ok := imageStorage.(*storage.LocalStorage); ok {
		mediaRoot = local.BasePath()
	}

	// 初始化服务
	emailService := service.NewEmailService(cfg)
	if !emailService.Enabled() {
		util.Logger.Info("未配置 SMTP，评论通知已关闭")
	}

	deps := api.Deps{
		Users:    service.NewUserService(repos.users, cfg.JWTSecret),
		Feed:     service.NewFeedService(repos.posts, repos.groups, repos.users, repos.follows, repos.comments, cfg.PostsPerPage),
		Posts:    service.NewPostService(repos.posts, repos.groups, imageStorage, cfg.MaxUploadBytes),
		Comments: service.NewCommentService(repos.posts, repos.comments, emailService),
		Follows:  service.NewFollowService(repos.users, repos.follows),
		Groups:   service.NewGroupService(repos.groups),
		Stats:    service.NewStatsService(repos.posts, repos.groups, repos.follows),

		PageCache:     cache.NewMemoryCache(time.Minute),
		IndexCacheTTL: cfg.IndexCacheTTL,
		Monitor:       middleware.NewErrorMonitor(),

		FrontendURL: cfg.FrontendURL,
		MediaRoot:   mediaRoot,
	}
	r := api.NewRouter(deps)

	if cfg.Debug {
		for _, route := range r.Routes() {
			util.Logger.Debug("路由",
				zap.String("method", route.Method),
				zap.String("path", route.Path),
				zap.String("handler", route.Handler))
		}
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		util.Logger.Info("服务器正在启动", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

func openRepositories(cfg config.Config) (*repositories, error) {
	if cfg.DBDriver == "memory" {
		util.Logger.Warn("使用内存存储，重启后数据会丢失")
		store := memory.NewStore()
		return &repositories{
			users:    store.Users(),
			groups:   store.Groups(),
			posts:    store.Posts(),
			comments: store.Comments(),
			follows:  store.Follows(),
			close:    func() error { return nil },
		}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &repositories{
		users:    mysql.NewUserRepository(db),
		groups:   mysql.NewGroupRepository(db),
		posts:    mysql.NewPostRepository(db),
		comments: mysql.NewCommentRepository(db),
		follows:  mysql.NewFollowRepository(db),
		close:    db.Close,
	}, nil
}
