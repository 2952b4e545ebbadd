package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	fermentation "vineyard-planner/internal/fermentation/domain"
)

// LogRepository reads fermentation logs from Postgres.
type LogRepository struct {
	db *sql.DB
}

// NewLogRepository constructs a repository.
func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{db: db}
}

// ListByLot returns the lot's logs, newest first.
func (r *LogRepository) ListByLot(ctx context.Context, lotID string) ([]fermentation.LogEntry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("log repo: nil db")
	}
	if lotID == "" {
		return nil, errors.New("log repo: empty lot id")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT log_date, brix, temp_f, notes, work_performed
FROM fermentation_logs
WHERE lot_id = $1
ORDER BY log_date DESC`, lotID)
	if err != nil {
		return nil, fmt.Errorf("log repo: list %s: %w", lotID, err)
	}
	defer rows.Close()

	var result []fermentation.LogEntry
	for rows.Next() {
		var (
			entry   fermentation.LogEntry
			logDate sql.NullTime
			brix    sql.NullFloat64
			temp    sql.NullFloat64
			notes   sql.NullString
			work    sql.NullString
		)
		if err := rows.Scan(&logDate, &brix, &temp, &notes, &work); err != nil {
			return nil, err
		}
		// Undated rows cannot be ordered.
		if !logDate.Valid {
			continue
		}
		entry.LogDate = logDate.Time.UTC()
		entry.Brix = nullFloat(brix)
		entry.TempF = nullFloat(temp)
		entry.Notes = nullString(notes)
		entry.WorkPerformed = nullString(work)
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
