package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"vineyard-planner/internal/audit"
	"vineyard-planner/internal/auth"
	"vineyard-planner/internal/fermentation/application"
	fermentation "vineyard-planner/internal/fermentation/domain"
)

const (
	lotsPrefix          = "/api/v1/lots/"
	recommendationsPath = "/recommendations"
)

// Handler provides fermentation advisory HTTP endpoints.
type Handler struct {
	service *application.Service
	audit   audit.Logger
	logger  logrus.FieldLogger
}

// NewHandler constructs a handler. auditLogger may be nil.
func NewHandler(service *application.Service, auditLogger audit.Logger, logger logrus.FieldLogger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("advisory handler: nil service")
	}
	return &Handler{service: service, audit: auditLogger, logger: logger}, nil
}

// Register mounts the advisory routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(lotsPrefix, h.handleRecommendations)
	mux.HandleFunc("/api/v1/fermentation/profiles", h.handleProfiles)
	mux.HandleFunc("/api/v1/fermentation/yeast-strains", h.handleYeastStrains)
	mux.HandleFunc("/api/v1/advisories/sweep", h.handleSweep)
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	lotID, ok := parseLotID(r.URL.Path)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	profile := fermentation.ProfileKey(strings.TrimSpace(r.URL.Query().Get("profile")))

	advice, err := h.service.Evaluate(r.Context(), lotID, profile)
	if err != nil {
		h.respondError(w, lotID, err)
		return
	}
	writeJSON(w, http.StatusOK, advice)
}

func (h *Handler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, fermentation.Profiles())
}

func (h *Handler) handleYeastStrains(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, fermentation.YeastStrains())
}

func (h *Handler) handleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	result, err := h.service.Sweep(r.Context())
	if err != nil {
		h.logf("advisory sweep failed: %v", err)
		http.Error(w, "sweep error", http.StatusInternalServerError)
		return
	}
	if h.audit != nil {
		entry, err := audit.FromRequest(r, audit.ActionAdvisorySweep, audit.ResourceAdvisory, "").WithMetadata(result)
		if err == nil {
			err = h.audit.Log(r.Context(), entry)
		}
		if err != nil {
			h.logf("audit log failed: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, lotID string, err error) {
	switch {
	case errors.Is(err, fermentation.ErrLotNotFound):
		http.Error(w, "lot not found", http.StatusNotFound)
	case errors.Is(err, auth.ErrOwnerMismatch):
		// Do not reveal lots owned by other users.
		http.Error(w, "lot not found", http.StatusNotFound)
	case errors.Is(err, fermentation.ErrInvalidProfile):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logf("advisory evaluate failed: lot=%s err=%v", lotID, err)
		http.Error(w, "evaluate error", http.StatusInternalServerError)
	}
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Errorf(format, args...)
	}
}

func parseLotID(path string) (string, bool) {
	rest := strings.TrimPrefix(path, lotsPrefix)
	if rest == path || !strings.HasSuffix(rest, recommendationsPath) {
		return "", false
	}
	lotID := strings.TrimSuffix(rest, recommendationsPath)
	if lotID == "" || strings.Contains(lotID, "/") {
		return "", false
	}
	return lotID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
