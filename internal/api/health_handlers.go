package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

func GetHealth(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), gin.H{
			"message":   "API is working",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"env":       gin.H{"APP_ENV": app.Env()},
		})
	}
}
