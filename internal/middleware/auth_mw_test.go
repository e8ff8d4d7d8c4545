package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"task_manager/internal/model"
	"task_manager/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func setupAuthRouter(jwtUtil *utils.JWTUtil, repo *MockUserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(jwtUtil, repo), func(c *gin.Context) {
		user, _ := AuthUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
	})
	return router
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := setupAuthRouter(utils.NewJWTUtil("secret", 12), new(MockUserRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router := setupAuthRouter(utils.NewJWTUtil("secret", 12), new(MockUserRepository))

	for _, header := range []string{"sometoken", "Basic abc123", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := setupAuthRouter(utils.NewJWTUtil("secret", 12), new(MockUserRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 12)
	repo := new(MockUserRepository)
	router := setupAuthRouter(jwtUtil, repo)

	// Signature is still valid, but the account no longer exists.
	token, _ := jwtUtil.GenerateToken(7, model.RoleUser)
	repo.On("FindByID", mock.Anything, 7).Return(nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RoleReReadFromStore(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 12)
	repo := new(MockUserRepository)
	router := setupAuthRouter(jwtUtil, repo)

	// The token still carries the old role; the database row has been
	// promoted since issuance. The fresh read wins.
	token, _ := jwtUtil.GenerateToken(7, model.RoleUser)
	repo.On("FindByID", mock.Anything, 7).
		Return(&model.User{ID: 7, Email: "alice@example.com", Role: model.RoleAdmin}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestAdminMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/admin-only", func(c *gin.Context) {
		c.Set(AuthUserKey, &model.User{ID: 1, Role: model.RoleUser})
	}, AdminMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/admin-only", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
