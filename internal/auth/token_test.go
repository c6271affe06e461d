package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestHMACVerifier_Verify(t *testing.T) {
	verifier := NewHMACVerifier(testSecret)

	t.Run("valid token", func(t *testing.T) {
		tokenString := signToken(t, testSecret, "user-42", time.Now().Add(time.Hour))

		userID, err := verifier.Verify(tokenString)
		require.NoError(t, err)
		assert.Equal(t, "user-42", userID)
	})

	t.Run("expired token", func(t *testing.T) {
		tokenString := signToken(t, testSecret, "user-42", time.Now().Add(-time.Hour))

		_, err := verifier.Verify(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tokenString := signToken(t, "other-secret", "user-42", time.Now().Add(time.Hour))

		_, err := verifier.Verify(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		tokenString := signToken(t, testSecret, "", time.Now().Add(time.Hour))

		_, err := verifier.Verify(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := verifier.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func setupRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	router := gin.New()
	router.GET("/optional", Optional(NewHMACVerifier(testSecret), logger), handler)
	router.GET("/required", Required(NewHMACVerifier(testSecret), logger), handler)
	return router
}

func TestOptionalMiddleware(t *testing.T) {
	var gotUserID string
	router := setupRouter(func(c *gin.Context) {
		gotUserID = UserID(c)
		c.Status(http.StatusOK)
	})

	t.Run("no token is anonymous", func(t *testing.T) {
		gotUserID = "unset"
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/optional", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, gotUserID)
	})

	t.Run("invalid token is anonymous", func(t *testing.T) {
		gotUserID = "unset"
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/optional", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, gotUserID)
	})

	t.Run("valid token sets user", func(t *testing.T) {
		gotUserID = "unset"
		tokenString := signToken(t, testSecret, "user-7", time.Now().Add(time.Hour))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/optional", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-7", gotUserID)
	})
}

func TestRequiredMiddleware(t *testing.T) {
	var gotUserID string
	router := setupRouter(func(c *gin.Context) {
		gotUserID = UserID(c)
		c.Status(http.StatusOK)
	})

	t.Run("no token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/required", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_FAILURE")
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/required", nil)
		req.Header.Set("Authorization", "Token abc")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/required", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token passes", func(t *testing.T) {
		gotUserID = "unset"
		tokenString := signToken(t, testSecret, "user-9", time.Now().Add(time.Hour))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/required", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-9", gotUserID)
	})
}
