package readstore

import (
	"context"
	"time"

	"tableplan/internal/domain/table"
	"tableplan/internal/infra"
	"tableplan/internal/infra/db"
	"tableplan/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TableReadStore serves both the write side (domain entities for the engine)
// and the read side (views for listing endpoints) from the tables relation.
type TableReadStore struct {
	db db.DBTX
}

func NewTableReadStore(pool db.DBTX) *TableReadStore {
	return &TableReadStore{db: pool}
}

const tableColumns = `
	id, restaurant_id, number, capacity, min_capacity, table_type,
	is_active, features, max_party_size_per_booking, created_at, updated_at
`

func (r *TableReadStore) FindByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]*table.Table, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+tableColumns+`
		FROM tables
		WHERE restaurant_id = $1 AND id = ANY ($2)
		ORDER BY number
	`, restaurantID, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query tables by ids", err)
	}
	defer rows.Close()

	tables, err := scanTables(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan tables", err)
	}
	if len(tables) == 0 {
		return nil, infra.WrapRepoErr("tables not found", pgx.ErrNoRows)
	}
	return tables, nil
}

func (r *TableReadStore) FindActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*table.Table, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+tableColumns+`
		FROM tables
		WHERE restaurant_id = $1 AND is_active
		ORDER BY number
	`, restaurantID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query active tables", err)
	}
	defer rows.Close()

	tables, err := scanTables(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan tables", err)
	}
	return tables, nil
}

func (r *TableReadStore) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, includeInactive bool) ([]*queries.TableView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+tableColumns+`
		FROM tables
		WHERE restaurant_id = $1 AND (is_active OR $2)
		ORDER BY number
	`, restaurantID, includeInactive)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query tables", err)
	}
	defer rows.Close()

	var views []*queries.TableView
	for rows.Next() {
		var v queries.TableView
		var tableType string
		err := rows.Scan(
			&v.ID, &v.RestaurantID, &v.Number, &v.Capacity, &v.MinCapacity,
			&tableType, &v.IsActive, &v.Features, &v.MaxPartySizePerBooking,
			&v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan table view", err)
		}
		v.TableType = tableType
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate table views", err)
	}
	return views, nil
}

func scanTables(rows pgx.Rows) ([]*table.Table, error) {
	var tables []*table.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func scanTable(row pgx.Row) (*table.Table, error) {
	var (
		id, restaurantID                          uuid.UUID
		number, tableType                         string
		capacity, minCapacity, maxPartyPerBooking int
		isActive                                  bool
		features                                  []string
		createdAt, updatedAt                      time.Time
	)
	err := row.Scan(
		&id, &restaurantID, &number, &capacity, &minCapacity, &tableType,
		&isActive, &features, &maxPartyPerBooking, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return table.ReconstructTable(
		id, restaurantID, number, capacity, minCapacity,
		table.TableType(tableType), isActive, features, maxPartyPerBooking,
		createdAt, updatedAt,
	), nil
}
