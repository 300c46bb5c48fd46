package api

import (
	"net/http"

	resdto "tableplan/internal/handler/dto/response"
	"tableplan/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	tableQueries queries.TableQueries
}

func NewTableHandler(tableQueries queries.TableQueries) *TableHandler {
	return &TableHandler{tableQueries: tableQueries}
}

// @Summary List tables
// @Description List a restaurant's table configuration
// @Tags tables
// @Produce json
// @Param restaurant_id path string true "Restaurant ID"
// @Param include_inactive query bool false "Include deactivated tables"
// @Success 200 {array} resdto.TableResponse
// @Failure 400 {object} map[string]string
// @Router /restaurants/{restaurant_id}/tables [get]
func (h *TableHandler) ListTables(c *gin.Context) {
	restaurantID, ok := restaurantIDParam(c)
	if !ok {
		return
	}

	includeInactive := c.Query("include_inactive") == "true"

	views, err := h.tableQueries.ListByRestaurant(c.Request.Context(), restaurantID, includeInactive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]*resdto.TableResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromTableView(v)
	}
	c.JSON(http.StatusOK, response)
}
