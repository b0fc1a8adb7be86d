package api

import (
	"context"
	"errors"
	"net/http"

	"psyconnect/internal/domain/user"
	reqdto "psyconnect/internal/handler/dto/request"
	resdto "psyconnect/internal/handler/dto/response"
	"psyconnect/internal/handler/middleware"
	"psyconnect/internal/usecase/commands"
	"psyconnect/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errIdempotencyKeyRequired = errors.New("Idempotency-Key header is required")

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Reserve a slot
// @Description Reserve a consultation slot inside an availability window
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReserveResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations [post]
func (h *BookingHandler) Reserve(c *gin.Context) {
	patientID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.bookingCommands.Reserve(c.Request.Context(), req, patientID, idempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrWindowNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Availability window not found",
			})
		case errors.Is(err, commands.ErrSlotNotInWindow):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Requested time is not a bookable slot of this window",
			})
		case errors.Is(err, commands.ErrOwnWindow):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cannot book your own window",
			})
		case errors.Is(err, commands.ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot already reserved",
			})
		case errors.Is(err, commands.ErrDuplicateRequest):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Idempotency key reused with different parameters",
			})
		case errors.Is(err, commands.ErrIdempotencyInProgress):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation request is currently being processed",
			})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromReserveResult(result))
}

// @Summary Get reservation
// @Description Get reservation by ID; only its patient or professional may read it
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} queries.ReservationView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *BookingHandler) GetReservation(c *gin.Context) {
	viewerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), viewerID, id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, queries.ErrNotReservationParty):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Not a party to this reservation",
			})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary List own reservations
// @Description Patients see their bookings, professionals the bookings against their windows
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.ReservationView
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *BookingHandler) ListReservations(c *gin.Context) {
	viewerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	role, _ := middleware.GetUserRole(c)

	var (
		views []*queries.ReservationView
		err   error
	)
	if role == user.RoleProfessional {
		views, err = h.bookingQueries.ListForProfessional(c.Request.Context(), viewerID)
	} else {
		views, err = h.bookingQueries.ListForPatient(c.Request.Context(), viewerID)
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Confirm reservation
// @Description Professional accepts a pending reservation
// @Tags reservations
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.Confirm)
}

// @Summary Refuse reservation
// @Description Professional declines a pending reservation, freeing the slot
// @Tags reservations
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/refuse [post]
func (h *BookingHandler) Refuse(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.Refuse)
}

// @Summary Cancel reservation
// @Description Patient withdraws a reservation that is not yet finalized
// @Tags reservations
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.Cancel)
}

func (h *BookingHandler) applyTransition(c *gin.Context, apply func(ctx context.Context, actorID, reservationID uuid.UUID) error) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	if err := apply(c.Request.Context(), actorID, id); err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, commands.ErrNotReservationOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Not allowed to act on this reservation",
			})
		case errors.Is(err, commands.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation state does not permit this action",
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

func (h *BookingHandler) getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
