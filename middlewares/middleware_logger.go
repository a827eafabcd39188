package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ryadom-food/restaurant-backend/utils"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		utils.InfoLogger.Printf("%s | %3d | %13v | %15s | %s",
			c.Request.Method, c.Writer.Status(), time.Since(start), c.ClientIP(), path)
	}
}
