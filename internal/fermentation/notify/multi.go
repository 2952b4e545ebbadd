package notify

import (
	"context"

	"vineyard-planner/internal/fermentation/application"
)

// MultiNotifier dispatches advisory events to multiple notifiers.
type MultiNotifier struct {
	notifiers []application.AdvisoryNotifier
}

// NewMultiNotifier constructs a MultiNotifier.
func NewMultiNotifier(notifiers ...application.AdvisoryNotifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Notify forwards events to all notifiers.
func (m *MultiNotifier) Notify(ctx context.Context, event application.AdvisoryEvent) {
	if m == nil {
		return
	}
	for _, notifier := range m.notifiers {
		if notifier != nil {
			notifier.Notify(ctx, event)
		}
	}
}

// LogNotifier writes urgent advisories to the service log.
type LogNotifier struct {
	Logger interface {
		Warnf(format string, args ...any)
	}
}

// Notify implements application.AdvisoryNotifier.
func (l LogNotifier) Notify(_ context.Context, event application.AdvisoryEvent) {
	if l.Logger == nil {
		return
	}
	for _, rec := range event.Advice.Urgent() {
		l.Logger.Warnf("advisory: lot=%s %s: %s", event.Advice.LotID, rec.Title, rec.Message)
	}
}
