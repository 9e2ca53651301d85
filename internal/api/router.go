package api

import (
	"github.com/Sintu8737/timesheet/internal/auth"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route. When authRequired is false the timesheet routes are open.
func NewRouter(app App, authRequired bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), RequestLogger(app.Logger()), app.Metrics().Middleware())

	r.GET("/health", GetHealth(app))
	r.GET("/metrics", gin.WrapH(app.Metrics().Handler()))
	r.GET("/catalog", GetCatalog(app))

	requireUser := auth.AuthMiddleware(app.AuthProvider(), app.Logger())
	r.POST("/auth", PostAuth(app))
	r.GET("/auth/session", requireUser, GetSession(app))

	timesheets := r.Group("/timesheets")
	if authRequired {
		timesheets.Use(requireUser)
	}
	timesheets.GET("", ListTimesheets(app))
	timesheets.POST("", CreateTimesheet(app))
	timesheets.GET("/weeks", ListWeeks(app))
	timesheets.GET("/:id", GetTimesheet(app))
	timesheets.PUT("/:id", UpdateTimesheet(app))
	timesheets.DELETE("/:id", DeleteTimesheet(app))

	return r
}
