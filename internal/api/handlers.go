package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trainload/internal/analysis"
	"trainload/internal/service"
	"trainload/internal/store"
)

type handler struct {
	query  *service.QueryService
	logger *slog.Logger
}

type listQuery struct {
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
	Type   string `form:"type"`
}

type trendQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

type segmentQuery struct {
	Mode string `form:"mode" binding:"omitempty,oneof=distance time"`
}

type chartQuery struct {
	Metric string `form:"metric" binding:"required"`
	Points int    `form:"points" binding:"omitempty,min=3,max=20000"`
}

// chartResponse is one downsampled metric series
type chartResponse struct {
	Metric     analysis.Metric `json:"metric"`
	Timestamps []time.Time     `json:"timestamps"`
	Values     []*float64      `json:"values"`
}

// readiness handles GET /api/v1/readiness
func (h *handler) readiness(c *gin.Context) {
	r, err := h.query.Readiness(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, r)
}

// trend handles GET /api/v1/trend?days=
func (h *handler) trend(c *gin.Context) {
	var q trendQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	trend, err := h.query.FitnessTrend(c.Request.Context(), q.Days)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, trend)
}

// zoneTable handles GET /api/v1/zones
func (h *handler) zoneTable(c *gin.Context) {
	s := h.query.Settings()
	success(c, gin.H{
		"estimated_max_hr": s.Profile.EstimatedMaxHR(),
		"zones":            s.Zones,
	})
}

// listWorkouts handles GET /api/v1/workouts
func (h *handler) listWorkouts(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	page, err := h.query.ListWorkouts(c.Request.Context(), store.ListOptions{
		Limit:       q.Limit,
		Offset:      q.Offset,
		WorkoutType: q.Type,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, page)
}

// workoutDetail handles GET /api/v1/workouts/:id
func (h *handler) workoutDetail(c *gin.Context) {
	id, ok := workoutID(c)
	if !ok {
		return
	}

	detail, err := h.query.WorkoutDetail(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, detail)
}

// workoutZones handles GET /api/v1/workouts/:id/zones
func (h *handler) workoutZones(c *gin.Context) {
	id, ok := workoutID(c)
	if !ok {
		return
	}

	zones, err := h.query.HRZones(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, zones)
}

// workoutElevation handles GET /api/v1/workouts/:id/elevation
func (h *handler) workoutElevation(c *gin.Context) {
	id, ok := workoutID(c)
	if !ok {
		return
	}

	profile, err := h.query.Elevation(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, profile)
}

// workoutSegments handles GET /api/v1/workouts/:id/segments?mode=
func (h *handler) workoutSegments(c *gin.Context) {
	id, ok := workoutID(c)
	if !ok {
		return
	}

	var q segmentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	var mode analysis.SegmentMode
	if q.Mode != "" {
		var err error
		if mode, err = analysis.ParseSegmentMode(q.Mode); err != nil {
			h.writeError(c, err)
			return
		}
	}

	report, err := h.query.Segments(c.Request.Context(), id, mode)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, report)
}

// workoutChart handles GET /api/v1/workouts/:id/chart?metric=&points=
func (h *handler) workoutChart(c *gin.Context) {
	id, ok := workoutID(c)
	if !ok {
		return
	}

	var q chartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	metric := analysis.Metric(q.Metric)
	series, err := h.query.Chart(c.Request.Context(), id, metric, q.Points)
	if err != nil {
		h.writeError(c, err)
		return
	}

	n := series.Len()
	resp := chartResponse{Metric: metric, Timestamps: make([]time.Time, n), Values: make([]*float64, n)}
	copy(resp.Timestamps, series.Timestamps)
	copy(resp.Values, series.Values)
	success(c, resp)
}

func workoutID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid workout ID")
		return 0, false
	}
	return id, true
}

// writeError maps service errors onto HTTP status codes
func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrWorkoutNotFound):
		notFound(c, "workout not found")
	case errors.Is(err, service.ErrUnknownMetric),
		errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, analysis.ErrUnknownSegmentMode):
		badRequest(c, err.Error())
	default:
		_ = c.Error(err)
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		fail(c, http.StatusInternalServerError, "internal server error")
	}
}
