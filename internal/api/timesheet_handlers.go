package api

import (
	"net/http"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/Sintu8737/timesheet/internal/response"
	"github.com/Sintu8737/timesheet/internal/service"
	"github.com/gin-gonic/gin"
)

func ListTimesheets(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := app.Timesheets().List(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch timesheets")
			return
		}
		HandleSuccess(c, app.Logger(), entries)
	}
}

func GetTimesheet(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := timesheetID(c, app.Logger())
		if !ok {
			return
		}
		entry, err := app.Timesheets().Get(c.Request.Context(), id)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch timesheet")
			return
		}
		HandleSuccess(c, app.Logger(), entry)
	}
}

func CreateTimesheet(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.EntryRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			app.Logger().Warnf("[request_id=%s] invalid JSON: %v", c.GetString("request_id"), err)
			c.JSON(http.StatusBadRequest, response.BadRequest("Invalid JSON: "+err.Error()))
			return
		}
		app.Logger().Debugf("Parsed EntryRequest: %+v", body)

		entry, err := app.Timesheets().Create(c.Request.Context(), &body)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to save timesheet")
			return
		}
		HandleSuccess(c, app.Logger(), entry)
	}
}

func UpdateTimesheet(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := timesheetID(c, app.Logger())
		if !ok {
			return
		}
		var patch internal.EntryPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			app.Logger().Warnf("[request_id=%s] invalid JSON: %v", c.GetString("request_id"), err)
			c.JSON(http.StatusBadRequest, response.BadRequest("Invalid JSON: "+err.Error()))
			return
		}

		entry, err := app.Timesheets().Update(c.Request.Context(), id, &patch)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update timesheet")
			return
		}
		HandleSuccess(c, app.Logger(), entry)
	}
}

func DeleteTimesheet(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := timesheetID(c, app.Logger())
		if !ok {
			return
		}
		if err := app.Timesheets().Delete(c.Request.Context(), id); err != nil {
			HandleError(c, app.Logger(), err, "Failed to delete timesheet")
			return
		}
		HandleSuccess(c, app.Logger(), response.Message("Timesheet deleted successfully"))
	}
}

func ListWeeks(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		weeks, err := app.Timesheets().Weeks(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to summarise weeks")
			return
		}
		HandleSuccess(c, app.Logger(), weeks)
	}
}

// GetCatalog lists the projects and work types an entry may use and the weekly target.
func GetCatalog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc := app.Timesheets()
		catalog := svc.Catalog()
		HandleSuccess(c, app.Logger(), gin.H{
			"projects":        catalog.Projects,
			"workTypes":       catalog.WorkTypes,
			"weeklyThreshold": svc.Threshold(),
		})
	}
}
