package api

import (
	"net/http"
	"time"

	"psyconnect/internal/handler/middleware"
	"psyconnect/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Default range when the caller gives no bounds.
const defaultScheduleDays = 14

type ScheduleHandler struct {
	scheduleQueries queries.ScheduleQueries
}

func NewScheduleHandler(scheduleQueries queries.ScheduleQueries) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleQueries: scheduleQueries,
	}
}

// @Summary Professional slot board
// @Description Derived consultation slots of a professional, classified per viewer
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param id path string true "Professional ID"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} queries.WindowScheduleView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /professionals/{id}/schedule [get]
func (h *ScheduleHandler) ProfessionalSchedule(c *gin.Context) {
	viewerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	professionalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid professional ID format",
		})
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date range, expected YYYY-MM-DD",
		})
		return
	}

	views, err := h.scheduleQueries.ProfessionalSchedule(c.Request.Context(), viewerID, professionalID, from, to)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, defaultScheduleDays)

	if s := c.Query("from"); s != "" {
		parsed, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
		to = from.AddDate(0, 0, defaultScheduleDays)
	}
	if s := c.Query("to"); s != "" {
		parsed, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}

	return from, to, nil
}
