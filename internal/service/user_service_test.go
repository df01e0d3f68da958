package service

import (
	"context"
	"testing"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestRegister 测试用户注册功能
func TestRegister(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo, "secret")
	ctx := context.Background()

	form := SignupForm{
		Username:        "testuser",
		Email:           "test@example.com",
		Password:        "password123",
		PasswordConfirm: "password123",
	}

	// 测试成功注册
	mockRepo.On("FindByUsername", ctx, "testuser").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

	user, err := service.Register(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// 测试用户名已存在
	mockRepo.On("FindByUsername", ctx, "existinguser").Return(&model.User{ID: 2}, nil)
	form.Username = "existinguser"
	_, err = service.Register(ctx, form)
	assert.True(t, errors.Is(err, errors.ErrUserExists))
	appErr, _ := errors.As(err)
	assert.Contains(t, appErr.Fields, "username")
}

func TestRegisterValidation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo, "secret")

	_, err := service.Register(context.Background(), SignupForm{
		Username:        " ",
		Password:        "short",
		PasswordConfirm: "other",
	})
	require.True(t, errors.Is(err, errors.ErrValidation))

	appErr, _ := errors.As(err)
	assert.Contains(t, appErr.Fields, "username")
	assert.Contains(t, appErr.Fields, "password1")
	assert.Contains(t, appErr.Fields, "password2")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo, "secret")
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: 5, Username: "leo", PasswordHash: string(hash)}

	mockRepo.On("FindByUsername", ctx, "leo").Return(stored, nil)
	mockRepo.On("FindByUsername", ctx, "ghost").Return(nil, nil)

	user, err := service.Login(ctx, LoginForm{Username: "leo", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, 5, user.ID)

	_, err = service.Login(ctx, LoginForm{Username: "leo", Password: "wrong-password"})
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))

	_, err = service.Login(ctx, LoginForm{Username: "ghost", Password: "password123"})
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestAuthenticateAndLogout(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo, "secret")
	ctx := context.Background()

	user := &model.User{ID: 7, Username: "leo"}
	mockRepo.On("FindByID", ctx, 7).Return(user, nil)

	token, err := service.IssueToken(user)
	require.NoError(t, err)

	got, err := service.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "leo", got.Username)

	service.Logout(token)
	assert.True(t, service.IsTokenBlacklisted(token))
	_, err = service.Authenticate(ctx, token)
	assert.True(t, errors.Is(err, errors.ErrInvalidToken))

	_, err = service.Authenticate(ctx, "garbage")
	assert.True(t, errors.Is(err, errors.ErrInvalidToken))
}

func TestLogoutBlacklistExpires(t *testing.T) {
	service := NewUserService(new(MockUserRepository), "secret")
	service.tokenBlacklist = gocache.New(10*time.Millisecond, 5*time.Millisecond)

	for _, token := range []string{"a", "b", "c"} {
		service.Logout(token)
	}
	service.Logout("")
	assert.Equal(t, 3, service.tokenBlacklist.ItemCount())
	assert.True(t, service.IsTokenBlacklisted("a"))

	assert.Eventually(t, func() bool {
		return service.tokenBlacklist.ItemCount() == 0
	}, time.Second, 10*time.Millisecond)
	assert.False(t, service.IsTokenBlacklisted("a"))
}
