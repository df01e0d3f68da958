package service

import (
	"context"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/interfaces"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService 处理注册、登录和令牌校验
type UserService struct {
	userRepo  interfaces.UserRepository
	jwtSecret string
	// tokenBlacklist 已注销的令牌，条目在令牌过期后自动清理
	tokenBlacklist *gocache.Cache
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, jwtSecret string) *UserService {
	return &UserService{
		userRepo:       userRepo,
		jwtSecret:      jwtSecret,
		tokenBlacklist: gocache.New(util.TokenTTL, time.Hour),
	}
}

// IsUsernameTaken 检查用户名是否已被使用
func (s *UserService) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "failed to look up user", err)
	}
	return user != nil, nil
}

// Register 注册新用户
func (s *UserService) Register(ctx context.Context, form SignupForm) (*model.User, error) {
	if fields := util.ValidateForm(form); fields != nil {
		return nil, errors.Validation(fields)
	}

	taken, err := s.IsUsernameTaken(ctx, form.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		appErr := errors.New(errors.ErrUserExists, "username already exists")
		appErr.Fields = map[string]string{"username": "A user with that username already exists."}
		return nil, appErr
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to hash password", err)
	}

	user := &model.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create user", err)
	}

	util.Logger.Info("用户注册成功", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login 用户登录
func (s *UserService) Login(ctx context.Context, form LoginForm) (*model.User, error) {
	if fields := util.ValidateForm(form); fields != nil {
		return nil, errors.Validation(fields)
	}

	invalid := errors.New(errors.ErrInvalidCredentials, "invalid credentials")
	invalid.Fields = map[string]string{
		"__all__": "Please enter a correct username and password. Note that both fields may be case-sensitive.",
	}

	user, err := s.userRepo.FindByUsername(ctx, form.Username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to look up user", err)
	}
	if user == nil {
		util.Logger.Info("用户登录失败，未找到用户", zap.String("username", form.Username))
		return nil, invalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		util.Logger.Info("用户登录失败，密码不正确", zap.Int("user_id", user.ID))
		return nil, invalid
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, nil
}

// IssueToken 为用户签发登录令牌
func (s *UserService) IssueToken(user *model.User) (string, error) {
	return util.GenerateToken(user.ID, s.jwtSecret)
}

// Authenticate 校验令牌并返回对应用户
func (s *UserService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if s.IsTokenBlacklisted(token) {
		return nil, errors.New(errors.ErrInvalidToken, "token revoked")
	}
	userID, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidToken, "invalid token", err)
	}
	return s.GetUserByID(ctx, userID)
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to look up user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// Logout 令牌在过期前一直留在黑名单中
func (s *UserService) Logout(token string) {
	if token == "" {
		return
	}
	s.tokenBlacklist.SetDefault(token, struct{}{})
	util.Logger.Info("用户注销，令牌已加入黑名单")
}

func (s *UserService) IsTokenBlacklisted(token string) bool {
	_, revoked := s.tokenBlacklist.Get(token)
	return revoked
}
