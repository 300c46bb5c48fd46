package response

import (
	"time"

	"tableplan/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type TableResponse struct {
	ID                     uuid.UUID `json:"id"`
	RestaurantID           uuid.UUID `json:"restaurantId"`
	Number                 string    `json:"number"`
	Capacity               int       `json:"capacity"`
	MinCapacity            int       `json:"minCapacity"`
	TableType              string    `json:"tableType"`
	IsActive               bool      `json:"isActive"`
	Features               []string  `json:"features"`
	MaxPartySizePerBooking int       `json:"maxPartySizePerBooking,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func FromTableView(rm *queries.TableView) *TableResponse {
	var resp TableResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}
