package middleware

import (
	"strings"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/service"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects requests without a valid bearer token
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := resolveToken(c, jwtSecret)
		if !ok {
			util.Unauthorized(c, "Invalid or missing access token")
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth resolves an identity when a valid bearer token is present
// and leaves the request anonymous otherwise
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := resolveToken(c, jwtSecret); ok {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// RequireModerator rejects authenticated callers without a moderator-class
// role. Must run after RequireAuth.
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			util.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		if !model.IsModeratorRole(role.(string)) {
			util.Forbidden(c, "Access denied: moderator role required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// IdentityFromContext returns the resolved identity, or nil for anonymous
// callers
func IdentityFromContext(c *gin.Context) *service.Identity {
	userID, exists := c.Get("userID")
	if !exists {
		return nil
	}

	identity := &service.Identity{UserID: userID.(string)}
	if email, ok := c.Get("email"); ok {
		identity.Email = email.(string)
	}
	if role, ok := c.Get("role"); ok {
		identity.Role = role.(string)
	}
	return identity
}

func resolveToken(c *gin.Context, jwtSecret string) (*util.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := util.ValidateToken(parts[1], jwtSecret)
	if err != nil {
		return nil, false
	}

	return claims, true
}

func setIdentity(c *gin.Context, claims *util.Claims) {
	c.Set("userID", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
}
