package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hkexpatjobs/internal/auth"
)

const (
	identityKey = "identity"
	userIDKey   = "userID"
)

// TokenVerifier 校验 bearer token 并解出身份。
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
}

// AuthMiddleware 校验访问令牌并将身份注入上下文。
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c)
			return
		}

		identity, err := verifier.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(identityKey, identity)
		c.Set(userIDKey, identity.ID)
		c.Next()
	}
}

// RequireRoles 必须挂在 AuthMiddleware 之后；没有身份时返回 401 而不是按匿名角色判断。
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			abortUnauthorized(c)
			return
		}
		if !identity.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// IdentityFromContext 返回 AuthMiddleware 注入的身份。
func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok && identity.ID != 0
}
