package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/usthb-datascience/tic-projects/backend/internal/utils"
	"github.com/usthb-datascience/tic-projects/backend/pkg/response"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextEmail    = "email"
)

// Machine-readable codes for auth failures, consumed by the frontend.
const (
	CodeMissingToken = "MISSING_TOKEN"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeInvalidToken = "INVALID_TOKEN"
)

// AuthRequired rejects requests without a valid bearer token. An expired
// token is a 401 (the client should re-login); a token that fails under
// every configured secret is a 403.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Unauthorized(c, "No token provided", CodeMissingToken)
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				response.Unauthorized(c, "Token expired", CodeTokenExpired)
			} else {
				response.Forbidden(c, "Invalid or expired token", CodeInvalidToken)
			}
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// AuthOptional attaches the caller's identity when a valid bearer token is
// present and treats everything else as anonymous. Used by endpoints that
// personalize but do not require login.
func AuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := utils.ParseToken(token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func setIdentity(c *gin.Context, claims *utils.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextEmail, claims.Email)
}

// GetUserID returns the authenticated user's ID, or 0 for anonymous.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetUsername returns the authenticated username, or "" for anonymous.
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get(ContextUsername); exists {
		return username.(string)
	}
	return ""
}
