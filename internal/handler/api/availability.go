package api

import (
	"errors"
	"net/http"

	reqdto "psyconnect/internal/handler/dto/request"
	resdto "psyconnect/internal/handler/dto/response"
	"psyconnect/internal/handler/middleware"
	"psyconnect/internal/usecase/commands"
	"psyconnect/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityCommands commands.AvailabilityCommands
	availabilityQueries  queries.AvailabilityQueries
}

func NewAvailabilityHandler(
	availabilityCommands commands.AvailabilityCommands,
	availabilityQueries queries.AvailabilityQueries,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityCommands: availabilityCommands,
		availabilityQueries:  availabilityQueries,
	}
}

// @Summary Declare availability window
// @Description Declare a window patients can book consultations within
// @Tags availabilities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateAvailabilityRequest true "Availability window"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /availabilities [post]
func (h *AvailabilityHandler) Create(c *gin.Context) {
	professionalID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := h.availabilityCommands.CreateWindow(c.Request.Context(), professionalID, req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidWindow):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Window start must be before end",
			})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary List own availability windows
// @Description List the authenticated professional's availability windows
// @Tags availabilities
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.AvailabilityView
// @Failure 401 {object} map[string]string
// @Router /availabilities [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	professionalID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.availabilityQueries.ListForProfessional(c.Request.Context(), professionalID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Delete availability window
// @Description Delete a window that has no active reservations
// @Tags availabilities
// @Security BearerAuth
// @Param id path string true "Window ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /availabilities/{id} [delete]
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	professionalID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	windowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid window ID format",
		})
		return
	}

	if err := h.availabilityCommands.DeleteWindow(c.Request.Context(), professionalID, windowID); err != nil {
		switch {
		case errors.Is(err, commands.ErrWindowNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Window not found",
			})
		case errors.Is(err, commands.ErrWindowHasActive):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Window has active reservations",
			})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
