package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"vineyard-planner/internal/auth"
	fermentation "vineyard-planner/internal/fermentation/domain"
	"vineyard-planner/internal/observability/metrics"
)

const defaultConcurrency = 4

// AdvisoryNotifier publishes advice that needs attention.
type AdvisoryNotifier interface {
	Notify(ctx context.Context, event AdvisoryEvent)
}

// AdvisoryEvent carries advice with at least one high-priority warning.
type AdvisoryEvent struct {
	Advice Advice `json:"advice"`
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// Advice is the evaluation result for one lot.
type Advice struct {
	LotID            string                        `json:"lot_id"`
	LotName          string                        `json:"lot_name"`
	Varietal         string                        `json:"varietal"`
	Status           string                        `json:"status"`
	State            fermentation.State            `json:"state"`
	RecommendedYeast string                        `json:"recommended_yeast"`
	Profile          *fermentation.Profile         `json:"profile,omitempty"`
	Recommendations  []fermentation.Recommendation `json:"recommendations"`
	EvaluatedAt      time.Time                     `json:"evaluated_at"`
}

// Urgent returns the high-priority warnings of the advice.
func (a Advice) Urgent() []fermentation.Recommendation {
	var out []fermentation.Recommendation
	for _, rec := range a.Recommendations {
		if rec.Kind == fermentation.KindWarning && rec.Priority == fermentation.PriorityHigh {
			out = append(out, rec)
		}
	}
	return out
}

// SweepResult summarizes one sweep over fermenting lots.
type SweepResult struct {
	Evaluated int       `json:"evaluated"`
	Urgent    int       `json:"urgent"`
	Failed    int       `json:"failed"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
}

// Service evaluates fermentation advice for production lots.
type Service struct {
	lots        fermentation.LotRepository
	logs        fermentation.LogRepository
	events      fermentation.EventRepository
	notifier    AdvisoryNotifier
	clock       Clock
	logger      logrus.FieldLogger
	concurrency int
}

// ServiceOption customizes the advisory service.
type ServiceOption func(*Service)

// WithNotifier assigns a notifier.
func WithNotifier(notifier AdvisoryNotifier) ServiceOption {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// WithClock assigns a clock.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger assigns a logger.
func WithLogger(logger logrus.FieldLogger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConcurrency bounds how many lots a sweep evaluates at once.
func WithConcurrency(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService constructs an advisory service.
func NewService(lots fermentation.LotRepository, logs fermentation.LogRepository, events fermentation.EventRepository, opts ...ServiceOption) (*Service, error) {
	if lots == nil || logs == nil || events == nil {
		return nil, errors.New("advisory: nil repository")
	}
	discard := logrus.New()
	discard.Out = io.Discard
	service := &Service{
		lots:        lots,
		logs:        logs,
		events:      events,
		clock:       systemClock{},
		logger:      discard,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Evaluate builds advice for one lot. An empty profile means no profile selected.
func (s *Service) Evaluate(ctx context.Context, lotID string, profile fermentation.ProfileKey) (*Advice, error) {
	start := time.Now()
	advice, err := s.evaluate(ctx, lotID, profile)
	result := metrics.ResultSuccess
	switch {
	case errors.Is(err, fermentation.ErrLotNotFound):
		result = metrics.ResultNotFound
	case err != nil:
		result = metrics.ResultError
	}
	metrics.ObserveEvaluation(result, time.Since(start))
	if err != nil {
		return nil, err
	}
	for _, rec := range advice.Recommendations {
		metrics.IncRecommendation(string(rec.Priority), string(rec.Kind))
	}
	return advice, nil
}

func (s *Service) evaluate(ctx context.Context, lotID string, profile fermentation.ProfileKey) (*Advice, error) {
	if s == nil {
		return nil, errors.New("advisory: nil service")
	}
	if lotID == "" {
		return nil, fermentation.ErrLotNotFound
	}
	var selected *fermentation.Profile
	if profile != "" {
		p, ok := fermentation.LookupProfile(profile)
		if !ok {
			return nil, fmt.Errorf("%w: %s", fermentation.ErrInvalidProfile, profile)
		}
		selected = &p
	}

	lot, err := s.lots.Get(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fermentation.ErrLotNotFound
	}
	if err := auth.EnsureOwner(ctx, lot.OwnerID); err != nil {
		return nil, err
	}

	var (
		logs   []fermentation.LogEntry
		events []fermentation.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		logs, err = s.logs.ListByLot(gctx, lot.ID)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.events.ListByLot(gctx, lot.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("advisory: load history for %s: %w", lot.ID, err)
	}
	fermentation.SortLogsNewestFirst(logs)
	fermentation.SortEventsNewestFirst(events)

	now := s.clock.Now().UTC()
	state := lot.Snapshot(profile, now)
	return &Advice{
		LotID:            lot.ID,
		LotName:          lot.Name,
		Varietal:         lot.Varietal,
		Status:           lot.Status,
		State:            state,
		RecommendedYeast: fermentation.RecommendYeast(lot.Varietal),
		Profile:          selected,
		Recommendations:  fermentation.GenerateRecommendations(state, logs, events),
		EvaluatedAt:      now,
	}, nil
}

// Sweep evaluates every fermenting lot and notifies on urgent advice.
// Per-lot failures are logged and counted.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	started := s.clock.Now().UTC()
	timer := time.Now()
	result := SweepResult{StartedAt: started}

	lots, err := s.lots.ListByStatus(ctx, fermentation.LotStatusFermenting)
	if err != nil {
		metrics.ObserveSweep(metrics.ResultError, 0, time.Since(timer))
		return result, fmt.Errorf("advisory: list fermenting lots: %w", err)
	}

	outcomes := make([]*Advice, len(lots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range lots {
		i := i
		g.Go(func() error {
			advice, err := s.Evaluate(gctx, lots[i].ID, "")
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.WithField("lot_id", lots[i].ID).Warnf("advisory sweep: evaluate failed: %v", err)
				return nil
			}
			outcomes[i] = advice
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.ObserveSweep(metrics.ResultError, evaluatedCount(outcomes), time.Since(timer))
		return result, err
	}

	for _, advice := range outcomes {
		if advice == nil {
			result.Failed++
			continue
		}
		result.Evaluated++
		if !fermentation.HasHighPriorityWarning(advice.Recommendations) {
			continue
		}
		result.Urgent++
		if s.notifier != nil {
			s.notifier.Notify(ctx, AdvisoryEvent{Advice: *advice})
		}
	}
	elapsed := time.Since(timer)
	result.Duration = elapsed.String()
	metrics.ObserveSweep(metrics.ResultSuccess, result.Evaluated, elapsed)
	s.logger.Infof("advisory sweep: evaluated=%d urgent=%d failed=%d", result.Evaluated, result.Urgent, result.Failed)
	return result, nil
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func evaluatedCount(outcomes []*Advice) int {
	count := 0
	for _, advice := range outcomes {
		if advice != nil {
			count++
		}
	}
	return count
}
