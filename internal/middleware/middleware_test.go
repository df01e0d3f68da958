package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/internal/cache"
	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuth map[string]*model.User

func (s stubAuth) Authenticate(_ context.Context, token string) (*model.User, error) {
	if user, ok := s[token]; ok {
		return user, nil
	}
	return nil, errors.New(errors.ErrInvalidToken, "invalid token")
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(stubAuth{"good": {ID: 1, Username: "leo"}, "admin": {ID: 2, Role: model.RoleAdmin}}))
	router.GET("/create/", append(handlers, func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, user.Username)
	})...)
	return router
}

func TestAuthMiddleware(t *testing.T) {
	router := newRouter()

	cases := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"anonymous", "", "", "anonymous"},
		{"bearer", "Bearer good", "", "leo"},
		{"cookie", "", "good", "leo"},
		{"bad token", "Bearer bad", "", "anonymous"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/create/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestLoginRequired(t *testing.T) {
	router := newRouter(LoginRequired("/auth/login/"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/create/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/create/", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRedirectKeepsQuery(t *testing.T) {
	assert.Equal(t, "/auth/login/?next=/follow/%3Fpage%3D2", LoginRedirect("/auth/login/", "/follow/?page=2"))
}

func TestAdminMiddleware(t *testing.T) {
	router := newRouter(AdminMiddleware())

	statuses := map[string]int{"": http.StatusUnauthorized, "good": http.StatusForbidden, "admin": http.StatusOK}
	for token, want := range statuses {
		req := httptest.NewRequest(http.MethodGet, "/create/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, token)
	}
}

func TestRecoveryAndErrorMonitor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	monitor := NewErrorMonitor()
	router := gin.New()
	router.Use(ErrorMonitorMiddleware(monitor), RecoveryMiddleware())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	router.GET("/missing", func(c *gin.Context) {
		errors.HandleError(c, errors.New(errors.ErrPostNotFound, "post not found"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	counts := monitor.GetErrorCounts()
	assert.Equal(t, 1, counts[errors.ErrInternal])
	assert.Equal(t, 1, counts[errors.ErrPostNotFound])
}

func TestCachePage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.NewMemoryCache(time.Minute)
	hits := 0

	router := gin.New()
	router.GET("/", CachePage(store, time.Minute), func(c *gin.Context) {
		hits++
		c.String(http.StatusOK, "render %d", hits)
	})
	router.GET("/broken", CachePage(store, time.Minute), func(c *gin.Context) {
		hits++
		c.String(http.StatusInternalServerError, "fail %d", hits)
	})

	get := func(path string) string {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Body.String()
	}

	assert.Equal(t, "render 1", get("/"))
	assert.Equal(t, "render 1", get("/"))
	assert.Equal(t, "render 2", get("/?page=2"))

	// 非 200 响应不缓存
	assert.Equal(t, "fail 3", get("/broken"))
	assert.Equal(t, "fail 4", get("/broken"))

	store.Clear()
	assert.Equal(t, "render 5", get("/"))
}
