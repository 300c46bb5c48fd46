package api

import (
	"errors"
	"net/http"

	"tableplan/internal/domain/availability"
	"tableplan/internal/domain/reservation"
	reqdto "tableplan/internal/handler/dto/request"
	resdto "tableplan/internal/handler/dto/response"
	"tableplan/internal/pkg/config"
	"tableplan/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
	policy              config.BookingConfig
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries, policy config.BookingConfig) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityQueries: availabilityQueries,
		policy:              policy,
	}
}

// @Summary Check table availability
// @Description Check whether a specific set of tables is free for a window
// @Tags availability
// @Accept json
// @Produce json
// @Param restaurant_id path string true "Restaurant ID"
// @Param request body reqdto.CheckAvailabilityRequest true "Availability check"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /restaurants/{restaurant_id}/availability/check [post]
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}

	var req reqdto.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	window, err := req.Window(h.policy.DefaultTurnTimeMin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
		return
	}

	view, err := h.availabilityQueries.CheckTables(c.Request.Context(), restaurantID, req.TableIDs, window, req.PartySize)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Seating options for a slot
// @Description List every single table and combination that can seat the party
// @Tags availability
// @Accept json
// @Produce json
// @Param restaurant_id path string true "Restaurant ID"
// @Param request body reqdto.SlotOptionsRequest true "Slot options request"
// @Success 200 {object} resdto.SlotOptionsResponse
// @Failure 400 {object} map[string]string
// @Router /restaurants/{restaurant_id}/availability/options [post]
func (h *AvailabilityHandler) GetSlotOptions(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}

	var req reqdto.SlotOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	window, err := req.Window(h.policy.DefaultTurnTimeMin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
		return
	}

	view, err := h.availabilityQueries.OptionsForSlot(c.Request.Context(), restaurantID, window, req.PartySize)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotOptionsView(view))
}

// @Summary Check shared table seats
// @Description Check seat-level availability at a shared table
// @Tags availability
// @Accept json
// @Produce json
// @Param restaurant_id path string true "Restaurant ID"
// @Param request body reqdto.SharedSeatsRequest true "Shared seats request"
// @Success 200 {object} resdto.SharedSeatsResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /restaurants/{restaurant_id}/availability/shared [post]
func (h *AvailabilityHandler) CheckSharedSeats(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}

	var req reqdto.SharedSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	window, err := req.Window(h.policy.DefaultTurnTimeMin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
		return
	}

	view, err := h.availabilityQueries.SharedSeats(c.Request.Context(), restaurantID, req.TableID, window, req.PartySize)
	if err != nil {
		if errors.Is(err, availability.ErrNotSharedTable) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Table is not a shared table"})
			return
		}
		h.handleQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSharedSeatView(view))
}

func (h *AvailabilityHandler) handleQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrTableNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
	case errors.Is(err, availability.ErrInvalidPartySize):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid party size"})
	case errors.Is(err, reservation.ErrInvalidWindow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func restaurantIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("restaurant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant ID format"})
		return uuid.Nil, false
	}
	return id, true
}
