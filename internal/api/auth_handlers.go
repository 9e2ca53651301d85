package api

import (
	"net/http"

	"github.com/Sintu8737/timesheet/internal/auth"
	"github.com/Sintu8737/timesheet/internal/response"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PostAuth exchanges credentials for a session token.
func PostAuth(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body loginRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, response.BadRequest("Invalid JSON: "+err.Error()))
			return
		}

		user, err := app.AuthProvider().Authenticate(c.Request.Context(), body.Email, body.Password)
		app.Metrics().ObserveLogin(err == nil)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to authenticate")
			return
		}
		session, err := app.Sessions().Issue(user)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to issue session")
			return
		}
		app.Logger().Infof("[request_id=%s] user %d signed in", c.GetString("request_id"), user.ID)
		HandleSuccess(c, app.Logger(), session)
	}
}

// GetSession returns the identity behind the bearer token.
func GetSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, response.Unauthorized("Unauthorized"))
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"user": user})
	}
}
