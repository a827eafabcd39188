package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/utils"
)

// RequireRole restricts a group to the given role. Admins pass every
// check.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}
		if userRole != role && userRole != models.RoleAdmin {
			utils.RespondError(c, http.StatusForbidden, errors.New(role+" access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
