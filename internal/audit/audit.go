package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Audited actions and the resources they touch.
const (
	ActionAdvisorySweep = "advisory_sweep"

	ResourceAdvisory = "advisory"
	ResourceLot      = "production_lot"
)

// Entry records who triggered an advisory operation and with what outcome.
type Entry struct {
	ID            string          `json:"id"`
	Actor         string          `json:"actor"`
	Role          string          `json:"role"`
	Action        string          `json:"action"`
	ResourceType  string          `json:"resource_type"`
	ResourceID    string          `json:"resource_id,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	PayloadDigest string          `json:"payload_digest,omitempty"`
	IP            string          `json:"ip,omitempty"`
	UserAgent     string          `json:"user_agent,omitempty"`
	RequestID     string          `json:"request_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// WithMetadata returns a copy of the entry carrying v as JSON metadata.
func (e Entry) WithMetadata(v any) (Entry, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return e, fmt.Errorf("audit: encode metadata: %w", err)
	}
	e.Metadata = data
	e.PayloadDigest = ""
	return e, nil
}

// stamp fills the id, timestamp and metadata digest before an entry is stored.
func stamp(entry Entry, now time.Time) Entry {
	if entry.ID == "" {
		entry.ID = "audit-" + uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now.UTC()
	}
	if entry.PayloadDigest == "" && len(entry.Metadata) > 0 {
		sum := sha256.Sum256(entry.Metadata)
		entry.PayloadDigest = hex.EncodeToString(sum[:])
	}
	return entry
}
