package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	fermentation "vineyard-planner/internal/fermentation/domain"
)

const lotColumns = `id, user_id, name, varietal, status, current_brix, initial_brix, current_temp_f,
	fermentation_start_date, target_fermentation_days, harvest_date`

// LotRepository reads production lots from Postgres.
type LotRepository struct {
	db *sql.DB
}

// NewLotRepository constructs a repository.
func NewLotRepository(db *sql.DB) *LotRepository {
	return &LotRepository{db: db}
}

// Get loads a lot by id. A missing lot returns nil, nil.
func (r *LotRepository) Get(ctx context.Context, id string) (*fermentation.Lot, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("lot repo: nil db")
	}
	if id == "" {
		return nil, errors.New("lot repo: empty id")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+lotColumns+`
FROM production_lots
WHERE id = $1
LIMIT 1`, id)
	lot, err := scanLot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lot repo: get %s: %w", id, err)
	}
	return lot, nil
}

// ListByStatus returns lots with the given status ordered by id.
func (r *LotRepository) ListByStatus(ctx context.Context, status string) ([]fermentation.Lot, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("lot repo: nil db")
	}
	if status == "" {
		return nil, errors.New("lot repo: empty status")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+lotColumns+`
FROM production_lots
WHERE status = $1
ORDER BY id ASC`, status)
	if err != nil {
		return nil, fmt.Errorf("lot repo: list %s: %w", status, err)
	}
	defer rows.Close()

	var result []fermentation.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *lot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLot(row scanner) (*fermentation.Lot, error) {
	var (
		lot         fermentation.Lot
		name        sql.NullString
		varietal    sql.NullString
		status      sql.NullString
		currentBrix sql.NullFloat64
		initialBrix sql.NullFloat64
		currentTemp sql.NullFloat64
		startDate   sql.NullTime
		targetDays  sql.NullInt64
		harvestDate sql.NullTime
	)
	if err := row.Scan(
		&lot.ID,
		&lot.OwnerID,
		&name,
		&varietal,
		&status,
		&currentBrix,
		&initialBrix,
		&currentTemp,
		&startDate,
		&targetDays,
		&harvestDate,
	); err != nil {
		return nil, err
	}
	lot.Name = name.String
	lot.Varietal = varietal.String
	lot.Status = status.String
	lot.CurrentBrix = nullFloat(currentBrix)
	lot.InitialBrix = nullFloat(initialBrix)
	lot.CurrentTempF = nullFloat(currentTemp)
	lot.FermentationStartDate = nullTime(startDate)
	lot.HarvestDate = nullTime(harvestDate)
	if targetDays.Valid {
		days := int(targetDays.Int64)
		lot.TargetFermentationDays = &days
	}
	return &lot, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
