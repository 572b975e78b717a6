// Package middleware authenticates requests and applies cross-cutting HTTP policy.
package middleware

import (
	"net/http"
	"strings"

	"grievance/backend/internal/auth"
	"grievance/backend/internal/models"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// TokenParser verifies access tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Auth requires a Bearer token and, when roles are given, one of those roles.
func Auth(tokens TokenParser, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			abort(c, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		authorize(c, tokens, strings.TrimPrefix(h, "Bearer "), roles)
	}
}

// WSAuth accepts the token from the query string, which browsers must use
// for websocket upgrades, or from the Authorization header.
func WSAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			abort(c, http.StatusUnauthorized, "missing token")
			return
		}
		authorize(c, tokens, token, nil)
	}
}

func authorize(c *gin.Context, tokens TokenParser, token string, roles []models.Role) {
	claims, err := tokens.Parse(token)
	if err != nil {
		abort(c, http.StatusUnauthorized, err.Error())
		return
	}
	c.Set(claimsKey, claims)

	if len(roles) > 0 && !hasRole(claims.Role, roles) {
		abort(c, http.StatusForbidden, "forbidden")
		return
	}
	c.Next()
}

// Roles restricts a route already behind Auth to the given roles.
func Roles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, found := ClaimsFrom(c)
		if !found {
			abort(c, http.StatusUnauthorized, "missing token")
			return
		}
		if !hasRole(claims.Role, roles) {
			abort(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

func hasRole(role models.Role, roles []models.Role) bool {
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": msg})
}

// ClaimsFrom returns the claims stored by Auth or WSAuth.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// ActorFrom returns the authenticated principal; the zero Actor sees nothing.
func ActorFrom(c *gin.Context) models.Actor {
	if claims, ok := ClaimsFrom(c); ok {
		return claims.Actor()
	}
	return models.Actor{}
}
