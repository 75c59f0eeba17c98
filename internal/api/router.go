package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"trainload/internal/service"
)

// NewRouter wires the HTTP routes onto a new gin engine
func NewRouter(q *service.QueryService, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery(), cors())

	h := &handler{query: q, logger: logger}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "trainload API is running",
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/readiness", h.readiness)
		v1.GET("/trend", h.trend)
		v1.GET("/zones", h.zoneTable)

		stats := v1.Group("/stats")
		{
			stats.GET("", h.overview)
			stats.GET("/totals", h.totals)
			stats.GET("/month", h.monthTotals)
			stats.GET("/streak", h.streak)
			stats.GET("/records", h.personalRecords)
			stats.GET("/breakdown", h.activityBreakdown)
			stats.GET("/weekly", h.weeklySummary)
			stats.GET("/calendar", h.contributionCalendar)
		}

		workouts := v1.Group("/workouts")
		{
			workouts.GET("", h.listWorkouts)
			workouts.GET("/:id", h.workoutDetail)
			workouts.GET("/:id/zones", h.workoutZones)
			workouts.GET("/:id/elevation", h.workoutElevation)
			workouts.GET("/:id/segments", h.workoutSegments)
			workouts.GET("/:id/chart", h.workoutChart)
		}
	}

	return r
}
