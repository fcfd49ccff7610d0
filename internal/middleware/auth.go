package middleware

import (
	"net/http"
	"strings"

	"smartgrader-composer/internal/services"

	"github.com/gin-gonic/gin"
)

// DraftAuth admits requests carrying the token issued for the draft in the
// :id path parameter. Browsers cannot set headers on a WebSocket upgrade, so a
// token query parameter is accepted as well.
func DraftAuth(tokens *services.DraftTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
				return
			}
			token = parts[1]
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		draftID, err := tokens.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		if draftID != c.Param("id") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token does not grant access to this draft"})
			return
		}

		c.Set("draft_id", draftID)
		c.Next()
	}
}
