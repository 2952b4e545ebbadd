package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vineyard-planner/internal/audit"
	"vineyard-planner/internal/auth"
	"vineyard-planner/internal/fermentation/application"
	fermentation "vineyard-planner/internal/fermentation/domain"
	"vineyard-planner/internal/fermentation/infrastructure/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestMux(t *testing.T) (*http.ServeMux, *audit.MemoryLog) {
	t.Helper()
	now := time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC)
	harvest := now.Add(-3 * 24 * time.Hour)
	store := memory.NewStore()
	require.NoError(t, store.PutLot(fermentation.Lot{
		ID:           "lot-1",
		OwnerID:      "user-1",
		Name:         "Estate Pinot",
		Varietal:     "Pinot Noir",
		Status:       fermentation.LotStatusFermenting,
		CurrentBrix:  fermentation.Float(1.5),
		InitialBrix:  fermentation.Float(24),
		CurrentTempF: fermentation.Float(82),
		HarvestDate:  &harvest,
	}))
	require.NoError(t, store.AppendLog("lot-1", fermentation.LogEntry{LogDate: now.Add(-time.Hour)}))

	service, err := application.NewService(store.Lots(), store.Logs(), store.Events(), application.WithClock(fixedClock{now: now}))
	require.NoError(t, err)
	auditLog := &audit.MemoryLog{}
	handler, err := NewHandler(service, auditLog, nil)
	require.NoError(t, err)
	mux := http.NewServeMux()
	handler.Register(mux)
	return mux, auditLog
}

func TestRecommendations(t *testing.T) {
	mux, _ := newTestMux(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lots/lot-1/recommendations?profile=light_red", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var advice application.Advice
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &advice))
	require.Equal(t, "lot-1", advice.LotID)
	require.Equal(t, "RC212", advice.RecommendedYeast)
	require.Equal(t, 3, advice.State.DaysFermenting)
	require.NotNil(t, advice.Profile)
	require.Equal(t, fermentation.ProfileLightRed, advice.Profile.Key)

	var titles []string
	for _, rec := range advice.Recommendations {
		titles = append(titles, rec.Title)
	}
	require.Contains(t, titles, "Approaching Press Readiness")
}

func TestRecommendationsNotFound(t *testing.T) {
	mux, _ := newTestMux(t)
	for _, path := range []string{"/api/v1/lots/missing/recommendations", "/api/v1/lots/lot-1/other"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		mux.ServeHTTP(resp, req)
		require.Equal(t, http.StatusNotFound, resp.Code, path)
	}
}

func TestRecommendationsOtherOwnerHidden(t *testing.T) {
	mux, _ := newTestMux(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lots/lot-1/recommendations", nil)
	req = req.WithContext(auth.WithIdentity(context.Background(), "user-2", auth.RoleWinemaker))
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRecommendationsInvalidProfile(t *testing.T) {
	mux, _ := newTestMux(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lots/lot-1/recommendations?profile=sparkling", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestProfilesAndYeast(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fermentation/profiles", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var profiles []fermentation.Profile
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &profiles))
	require.Len(t, profiles, 5)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/fermentation/yeast-strains", nil)
	resp = httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var strains []fermentation.YeastStrain
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &strains))
	require.Len(t, strains, 8)
}

func TestSweepIsAudited(t *testing.T) {
	mux, auditLog := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/advisories/sweep", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	require.Equal(t, http.StatusMethodNotAllowed, resp.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/advisories/sweep", nil)
	req = req.WithContext(auth.WithIdentity(context.Background(), "admin-1", auth.RoleAdmin))
	resp = httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var result application.SweepResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Equal(t, 1, result.Evaluated)

	entries := auditLog.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "advisory_sweep", entries[0].Action)
	require.Equal(t, "admin-1", entries[0].Actor)
}
