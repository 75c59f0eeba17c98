package api

import (
	"context"

	"github.com/gin-gonic/gin"
)

type weeklyQuery struct {
	Weeks int `form:"weeks" binding:"omitempty,min=1,max=104"`
}

type calendarQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=730"`
}

// respond runs a query without parameters and writes its result
func respond[T any](h *handler, c *gin.Context, query func(context.Context) (T, error)) {
	result, err := query(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, result)
}

// overview handles GET /api/v1/stats
func (h *handler) overview(c *gin.Context) {
	respond(h, c, h.query.Overview)
}

// totals handles GET /api/v1/stats/totals
func (h *handler) totals(c *gin.Context) {
	respond(h, c, h.query.Totals)
}

// monthTotals handles GET /api/v1/stats/month
func (h *handler) monthTotals(c *gin.Context) {
	respond(h, c, h.query.MonthTotals)
}

// streak handles GET /api/v1/stats/streak
func (h *handler) streak(c *gin.Context) {
	respond(h, c, h.query.Streak)
}

// personalRecords handles GET /api/v1/stats/records
func (h *handler) personalRecords(c *gin.Context) {
	respond(h, c, h.query.PersonalRecords)
}

// activityBreakdown handles GET /api/v1/stats/breakdown
func (h *handler) activityBreakdown(c *gin.Context) {
	respond(h, c, h.query.ActivityBreakdown)
}

// weeklySummary handles GET /api/v1/stats/weekly?weeks=
func (h *handler) weeklySummary(c *gin.Context) {
	var q weeklyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	weeks, err := h.query.WeeklySummary(c.Request.Context(), q.Weeks)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, weeks)
}

// contributionCalendar handles GET /api/v1/stats/calendar?days=
func (h *handler) contributionCalendar(c *gin.Context) {
	var q calendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	days, err := h.query.ContributionCalendar(c.Request.Context(), q.Days)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, days)
}
