package fermentation

import (
	"context"
	"errors"
	"time"
)

const (
	LotStatusPlanned    = "planned"
	LotStatusFermenting = "fermenting"
	LotStatusPressed    = "pressed"
	LotStatusAging      = "aging"
	LotStatusBottled    = "bottled"
)

var (
	// ErrLotNotFound indicates a missing production lot.
	ErrLotNotFound = errors.New("fermentation: lot not found")
	// ErrInvalidProfile indicates an unknown fermentation profile key.
	ErrInvalidProfile = errors.New("fermentation: unknown profile")
)

// Lot is a production lot as read from the lot store.
type Lot struct {
	ID                     string     `json:"id" yaml:"id"`
	OwnerID                string     `json:"owner_id" yaml:"owner_id"`
	Name                   string     `json:"name" yaml:"name"`
	Varietal               string     `json:"varietal" yaml:"varietal"`
	Status                 string     `json:"status" yaml:"status"`
	CurrentBrix            *float64   `json:"current_brix" yaml:"current_brix"`
	InitialBrix            *float64   `json:"initial_brix" yaml:"initial_brix"`
	CurrentTempF           *float64   `json:"current_temp_f" yaml:"current_temp_f"`
	FermentationStartDate  *time.Time `json:"fermentation_start_date" yaml:"fermentation_start_date"`
	TargetFermentationDays *int       `json:"target_fermentation_days" yaml:"target_fermentation_days"`
	HarvestDate            *time.Time `json:"harvest_date" yaml:"harvest_date"`
}

// Validate checks required lot fields.
func (l Lot) Validate() error {
	if l.ID == "" {
		return errors.New("lot: empty id")
	}
	if l.OwnerID == "" {
		return errors.New("lot: empty owner id")
	}
	return nil
}

// Snapshot builds the advisor state for the lot at asOf. Non-finite
// readings are dropped.
func (l Lot) Snapshot(profile ProfileKey, asOf time.Time) State {
	return State{
		DaysFermenting: DaysFermenting(l.FermentationStartDate, l.HarvestDate, asOf),
		CurrentBrix:    Measured(l.CurrentBrix),
		InitialBrix:    Measured(l.InitialBrix),
		CurrentTempF:   Measured(l.CurrentTempF),
		Profile:        profile,
		AsOf:           asOf,
	}
}

// LotRepository reads production lots.
type LotRepository interface {
	Get(ctx context.Context, id string) (*Lot, error)
	ListByStatus(ctx context.Context, status string) ([]Lot, error)
}

// LogRepository reads fermentation logs.
type LogRepository interface {
	ListByLot(ctx context.Context, lotID string) ([]LogEntry, error)
}

// EventRepository reads fermentation events.
type EventRepository interface {
	ListByLot(ctx context.Context, lotID string) ([]Event, error)
}
