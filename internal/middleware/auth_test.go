package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func TestParseClaimsRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	tokenString := signToken(t, secret, jwt.MapClaims{
		"sub":  "user-1",
		"role": RoleManager,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	claims, err := ParseClaims(tokenString, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, RoleManager, claims["role"])
}

func TestParseClaimsRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	tokenString := signToken(t, secret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := ParseClaims(tokenString, secret)
	assert.Error(t, err)
}

func TestParseClaimsRejectsWrongSecret(t *testing.T) {
	tokenString := signToken(t, []byte("one-secret"), jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := ParseClaims(tokenString, []byte("another-secret"))
	assert.Error(t, err)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	router := gin.New()
	router.GET("/protected", RequireRole(RoleAdmin, RoleManager), func(c *gin.Context) {
		c.String(http.StatusOK, "%s:%s", c.GetString("userID"), c.GetString("userRole"))
	})

	request := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request("").Code)
	})

	t.Run("allowed role", func(t *testing.T) {
		token := signToken(t, []byte("test-secret"), jwt.MapClaims{
			"sub":  "user-1",
			"role": RoleManager,
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		w := request(token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1:manager", w.Body.String())
	})

	t.Run("disallowed role", func(t *testing.T) {
		token := signToken(t, []byte("test-secret"), jwt.MapClaims{
			"sub":  "user-2",
			"role": RoleStaff,
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		assert.Equal(t, http.StatusForbidden, request(token).Code)
	})
}

func TestRequireRoleReadsAccessCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	router := gin.New()
	router.GET("/protected", RequireRole(RoleStaff), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token := signToken(t, []byte("test-secret"), jwt.MapClaims{
		"sub":  "user-3",
		"role": RoleStaff,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
