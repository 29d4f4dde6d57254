package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/contracts-panel/internal/model"
)

const principalKey = "principal"

type TokenParser interface {
	Parse(token string) (model.Principal, error)
}

// TokenCookie carries the access token for browser pages.
const TokenCookie = "contracts_token"

// Auth requires a bearer token and stores the principal in the gin context.
func Auth(parser TokenParser) gin.HandlerFunc {
	return authenticate(parser, false)
}

// PageAuth is Auth for browser pages: the token may also come from
// TokenCookie. A bearer header wins over the cookie.
func PageAuth(parser TokenParser) gin.HandlerFunc {
	return authenticate(parser, true)
}

func authenticate(parser TokenParser, allowCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" && allowCookie {
			if cookie, err := c.Cookie(TokenCookie); err == nil {
				token = strings.TrimSpace(cookie)
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		principal, err := parser.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}
