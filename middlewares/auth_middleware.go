package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ryadom-food/restaurant-backend/utils"
)

// AuthMiddleware checks the Bearer access token and puts userID/role into
// the context. The websocket handshake cannot set headers, so a token
// query parameter is accepted as a fallback.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization token missing"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		if claims.TokenType != utils.TokenTypeAccess || claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid access token"))
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
