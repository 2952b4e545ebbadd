package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	fermentation "vineyard-planner/internal/fermentation/domain"
)

// EventRepository reads fermentation events from Postgres.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository constructs a repository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListByLot returns the lot's events, newest first. Unknown event types and undated rows are skipped.
func (r *EventRepository) ListByLot(ctx context.Context, lotID string) ([]fermentation.Event, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("event repo: nil db")
	}
	if lotID == "" {
		return nil, errors.New("event repo: empty lot id")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT event_type, event_date, resolved
FROM fermentation_events
WHERE lot_id = $1
ORDER BY event_date DESC`, lotID)
	if err != nil {
		return nil, fmt.Errorf("event repo: list %s: %w", lotID, err)
	}
	defer rows.Close()

	var result []fermentation.Event
	for rows.Next() {
		var (
			eventType string
			evt       fermentation.Event
			eventDate sql.NullTime
			resolved  sql.NullBool
		)
		if err := rows.Scan(&eventType, &eventDate, &resolved); err != nil {
			return nil, err
		}
		evt.Type = fermentation.EventType(eventType)
		if !evt.Type.Valid() || !eventDate.Valid {
			continue
		}
		evt.Date = eventDate.Time.UTC()
		evt.Resolved = resolved.Bool
		result = append(result, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
