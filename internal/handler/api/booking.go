package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "tableplan/internal/handler/dto/request"
	resdto "tableplan/internal/handler/dto/response"
	"tableplan/internal/infra"
	"tableplan/internal/usecase/commands"
	"tableplan/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

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

// @Summary Create booking
// @Description Book tables for a party, with idempotency key
// @Tags bookings
// @Accept json
// @Produce json
// @Param restaurant_id path string true "Restaurant ID"
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 200 {object} resdto.BookingResponse "Replayed from a completed idempotency key"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /restaurants/{restaurant_id}/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}

	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.bookingCommands.CreateBooking(c.Request.Context(), restaurantID, req, idempotencyKey)
	if err != nil {
		h.handleCreateError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromBookingView(result.Booking))
}

func (h *BookingHandler) handleCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrTableNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
	case errors.Is(err, commands.ErrTableNotActive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Table is not active"})
	case errors.Is(err, commands.ErrInvalidTimeSlot):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time slot"})
	case errors.Is(err, commands.ErrCapacityTooSmall):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Party exceeds table capacity"})
	case errors.Is(err, commands.ErrBelowCombinedMinimum):
		h.belowMinimumResponse(c, err)
	case errors.Is(err, commands.ErrBookingConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Requested tables are already booked for this window"})
	case errors.Is(err, commands.ErrSharedSeatsUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough seats at the shared table"})
	case errors.Is(err, commands.ErrExceedsPerBookingMax):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Party exceeds the shared table per-booking maximum"})
	case errors.Is(err, commands.ErrNoTablesAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": "No tables available for the requested slot"})
	case errors.Is(err, commands.ErrNoActiveTables):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Restaurant has no active tables"})
	case errors.Is(err, commands.ErrDuplicateBooking):
		c.JSON(http.StatusConflict, gin.H{"error": "Duplicate booking request with different parameters"})
	case errors.Is(err, commands.ErrIdempotencyInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking request is currently being processed"})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Booking validation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// belowMinimumResponse includes the per-table violations so staff can decide
// whether to resubmit with allow_below_minimum.
func (h *BookingHandler) belowMinimumResponse(c *gin.Context, err error) {
	body := gin.H{"error": "Party is below the combined table minimum"}

	var minErr *commands.MinimumCapacityError
	if errors.As(err, &minErr) {
		violations := make([]gin.H, len(minErr.Result.Violations))
		for i, v := range minErr.Result.Violations {
			violations[i] = gin.H{
				"tableId":     v.TableID,
				"tableNumber": v.Number,
				"minCapacity": v.MinCapacity,
				"shortfall":   v.Shortfall,
			}
		}
		body["detail"] = gin.H{
			"shortfall":  minErr.Result.Shortfall,
			"violations": violations,
		}
	}

	c.JSON(http.StatusUnprocessableEntity, body)
}

// @Summary Update booking status
// @Description Apply a lifecycle transition; terminal statuses release the table hold
// @Tags bookings
// @Accept json
// @Produce json
// @Param restaurant_id path string true "Restaurant ID"
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingStatusRequest true "New status"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /restaurants/{restaurant_id}/bookings/{id}/status [patch]
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}

	var req reqdto.UpdateBookingStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.bookingCommands.UpdateBookingStatus(c.Request.Context(), restaurantID, bookingID, req.DomainStatus())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, commands.ErrInvalidStatusTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid status transition"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Param restaurant_id path string true "Restaurant ID"
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /restaurants/{restaurant_id}/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List bookings for a date
// @Description List a restaurant's bookings whose windows touch the given day
// @Tags bookings
// @Produce json
// @Param restaurant_id path string true "Restaurant ID"
// @Param date query string true "Day in YYYY-MM-DD"
// @Success 200 {array} resdto.BookingListResponse
// @Failure 400 {object} map[string]string
// @Router /restaurants/{restaurant_id}/bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing date, expected YYYY-MM-DD"})
		return
	}

	items, err := h.bookingQueries.ListForDate(c.Request.Context(), restaurantID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromBookingListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, commands.ErrIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
