package itineraryrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
)

// PostgresRepository persists itineraries in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts the itinerary header.
func (r *PostgresRepository) Create(ctx context.Context, it itinerary.Itinerary) (itinerary.Itinerary, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO itineraries (id, user_id, title, description, origin_lat, origin_lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, title, description, origin_lat, origin_lng, created_at
	`, it.ID, it.UserID, it.Title, it.Description, it.OriginLat, it.OriginLng, it.CreatedAt)
	return scanItinerary(row)
}

// Get fetches an itinerary by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (itinerary.Itinerary, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, title, description, origin_lat, origin_lng, created_at
		FROM itineraries
		WHERE id = $1
		LIMIT 1
	`, id)
	it, err := scanItinerary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return itinerary.Itinerary{}, false, nil
		}
		return itinerary.Itinerary{}, false, err
	}
	return it, true, nil
}

// AddPlaces inserts all rows in one transaction.
func (r *PostgresRepository) AddPlaces(ctx context.Context, itineraryID string, rows []itinerary.PlaceVisit) ([]itinerary.PlaceVisit, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO itinerary_places
				(id, itinerary_id, place_id, name, address, lat, lng, category, order_index, visit_date, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::date, $11::time, $12::time)
		`, row.ID, itineraryID, row.PlaceID, row.Name, row.Address, row.Lat, row.Lng, row.Category,
			row.OrderIndex, row.VisitDate, row.StartTime, row.EndTime)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("insert itinerary places: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	stored := make([]itinerary.PlaceVisit, len(rows))
	for i, row := range rows {
		row.ItineraryID = itineraryID
		stored[i] = row
	}
	return stored, nil
}

// ListPlaces returns rows ordered by visit date then order index.
func (r *PostgresRepository) ListPlaces(ctx context.Context, itineraryID string) ([]itinerary.PlaceVisit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, itinerary_id, place_id, name, address, lat, lng, category, order_index,
			to_char(visit_date, 'YYYY-MM-DD'), to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS')
		FROM itinerary_places
		WHERE itinerary_id = $1
		ORDER BY visit_date, order_index
	`, itineraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []itinerary.PlaceVisit
	for rows.Next() {
		var row itinerary.PlaceVisit
		if err := rows.Scan(&row.ID, &row.ItineraryID, &row.PlaceID, &row.Name, &row.Address, &row.Lat, &row.Lng,
			&row.Category, &row.OrderIndex, &row.VisitDate, &row.StartTime, &row.EndTime); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanItinerary(row pgx.Row) (itinerary.Itinerary, error) {
	var (
		it        itinerary.Itinerary
		createdAt time.Time
	)
	if err := row.Scan(&it.ID, &it.UserID, &it.Title, &it.Description, &it.OriginLat, &it.OriginLng, &createdAt); err != nil {
		return itinerary.Itinerary{}, err
	}
	it.CreatedAt = createdAt.UTC()
	return it, nil
}

var _ itinerary.Repository = (*PostgresRepository)(nil)
