package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/symptom-intake-server/internal/domain"
)

// userIDKey is the gin context key the middleware stores the
// authenticated user ID under.
const userIDKey = "auth_user_id"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the JWT claims carried by intake tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// HMACVerifier validates HS256-signed tokens against a shared secret.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier creates a token verifier for the given secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token, returning the subject claim
// as the user ID.
func (v *HMACVerifier) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", fmt.Errorf("%w: malformed authorization header", ErrInvalidToken)
	}

	return parts[1], nil
}

// Optional authenticates the request when a valid bearer token is
// present and treats the request as anonymous otherwise. Intake must
// keep working for users who are not signed in, so a bad token is
// logged and ignored rather than rejected.
func Optional(verifier domain.TokenVerifier, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}

		tokenString, err := bearerToken(c)
		if err != nil {
			c.Next()
			return
		}

		userID, err := verifier.Verify(tokenString)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			}).Warn("Token verification failed, continuing as anonymous")
			c.Next()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// Required rejects requests that do not carry a valid bearer token.
// History endpoints use this since records are scoped per user.
func Required(verifier domain.TokenVerifier, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			abortUnauthorized(c, "authentication is not configured")
			return
		}

		tokenString, err := bearerToken(c)
		if err != nil {
			abortUnauthorized(c, "missing or malformed authorization header")
			return
		}

		userID, err := verifier.Verify(tokenString)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			}).Warn("Token verification failed")
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	correlationID := c.GetString("correlation_id")
	c.AbortWithStatusJSON(401, domain.NewAPIError(domain.ErrAuthFailure, message, "", correlationID))
}

// UserID returns the authenticated user ID for the request, or ""
// when the request is anonymous.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
