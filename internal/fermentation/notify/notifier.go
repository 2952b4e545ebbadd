package notify

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"vineyard-planner/internal/fermentation/application"
	fermentation "vineyard-planner/internal/fermentation/domain"
	"vineyard-planner/internal/observability/metrics"
)

// Clock provides time for cooldown checks.
type Clock interface {
	Now() time.Time
}

// LotURLResolver provides a link to the lot page when available.
type LotURLResolver func(lotID string) string

type sendRecord struct {
	at   time.Time
	hash string
}

// Notifier renders urgent advisories and sends them through a channel.
type Notifier struct {
	channel      Channel
	template     *Template
	clock        Clock
	logger       logrus.FieldLogger
	mu           sync.Mutex
	sent         map[string]sendRecord
	cooldown     time.Duration
	dedupeWindow time.Duration
	lotURL       LotURLResolver
}

// Option configures the notifier.
type Option func(*Notifier)

// WithClock overrides the default clock.
func WithClock(clock Clock) Option {
	return func(n *Notifier) {
		if clock != nil {
			n.clock = clock
		}
	}
}

// WithCooldown sets a minimum interval between notifications for the same lot and title.
func WithCooldown(interval time.Duration) Option {
	return func(n *Notifier) {
		if interval > 0 {
			n.cooldown = interval
		}
	}
}

// WithDedupeWindow suppresses identical notifications within the window.
func WithDedupeWindow(window time.Duration) Option {
	return func(n *Notifier) {
		if window > 0 {
			n.dedupeWindow = window
		}
	}
}

// WithLotURLResolver injects a lot link resolver.
func WithLotURLResolver(resolver LotURLResolver) Option {
	return func(n *Notifier) {
		if resolver != nil {
			n.lotURL = resolver
		}
	}
}

// WithLogger assigns a logger for delivery failures.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNotifier constructs an advisory notifier.
func NewNotifier(channel Channel, template *Template, opts ...Option) (*Notifier, error) {
	if channel == nil {
		return nil, errors.New("advisory notifier: nil channel")
	}
	if template == nil {
		defaultTemplate, err := NewTemplate("")
		if err != nil {
			return nil, err
		}
		template = defaultTemplate
	}
	n := &Notifier{
		channel:  channel,
		template: template,
		clock:    systemClock{},
		sent:     make(map[string]sendRecord),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Notify implements application.AdvisoryNotifier. One message is sent per urgent recommendation.
func (n *Notifier) Notify(ctx context.Context, event application.AdvisoryEvent) {
	if n == nil || n.channel == nil {
		return
	}
	for _, rec := range event.Advice.Urgent() {
		n.dispatch(ctx, event.Advice, rec)
	}
}

func (n *Notifier) dispatch(ctx context.Context, advice application.Advice, rec fermentation.Recommendation) {
	lotURL := ""
	if n.lotURL != nil {
		lotURL = n.lotURL(advice.LotID)
	}
	content, err := n.template.Render(buildTemplateData(advice, rec, lotURL))
	if err != nil {
		n.warnf("advisory notify: render failed: %v", err)
		return
	}
	channel := n.channel.Name()
	if !n.shouldSend(advice.LotID, rec.Title, content) {
		metrics.IncNotification(channel, metrics.NotifySuppressed)
		return
	}
	if err := n.channel.Send(ctx, content); err != nil {
		metrics.IncNotification(channel, metrics.NotifyFailed)
		n.warnf("advisory notify: lot=%s send failed: %v", advice.LotID, err)
		return
	}
	metrics.IncNotification(channel, metrics.NotifySent)
	n.markSent(advice.LotID, rec.Title, content)
}

func (n *Notifier) warnf(format string, args ...any) {
	if n.logger != nil {
		n.logger.Warnf(format, args...)
	}
}

func buildTemplateData(advice application.Advice, rec fermentation.Recommendation, lotURL string) TemplateData {
	lot := advice.LotName
	if lot == "" {
		lot = advice.LotID
	}
	return TemplateData{
		Lot:            lot,
		LotID:          advice.LotID,
		Varietal:       advice.Varietal,
		Status:         advice.Status,
		DaysFermenting: advice.State.DaysFermenting,
		Title:          rec.Title,
		Message:        rec.Message,
		Priority:       string(rec.Priority),
		Suggestions:    rec.Suggestions,
		EvaluatedAt:    advice.EvaluatedAt.UTC().Format(time.RFC3339),
		LotURL:         lotURL,
	}
}

func (n *Notifier) shouldSend(lotID, title, content string) bool {
	if n.cooldown <= 0 && n.dedupeWindow <= 0 {
		return true
	}
	key := notificationKey(lotID, title)
	now := n.clock.Now().UTC()
	hash := hashContent(content)

	n.mu.Lock()
	record, ok := n.sent[key]
	n.mu.Unlock()
	if !ok {
		return true
	}
	if n.cooldown > 0 && now.Sub(record.at) < n.cooldown {
		return false
	}
	if n.dedupeWindow > 0 && record.hash == hash && now.Sub(record.at) < n.dedupeWindow {
		return false
	}
	return true
}

func (n *Notifier) markSent(lotID, title, content string) {
	key := notificationKey(lotID, title)
	n.mu.Lock()
	n.sent[key] = sendRecord{
		at:   n.clock.Now().UTC(),
		hash: hashContent(content),
	}
	n.mu.Unlock()
}

func notificationKey(lotID, title string) string {
	return lotID + "|" + title
}

func hashContent(content string) string {
	sum := sha1.Sum([]byte(content))
	return hex.EncodeToString(sum[:8])
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
