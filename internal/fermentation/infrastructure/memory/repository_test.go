package memory

import (
	"context"
	"testing"
	"time"

	fermentation "vineyard-planner/internal/fermentation/domain"
)

func TestStoreListsNewestFirst(t *testing.T) {
	store := NewStore()
	now := time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC)
	if err := store.PutLot(fermentation.Lot{ID: "lot-1", OwnerID: "user-1", Status: fermentation.LotStatusFermenting}); err != nil {
		t.Fatalf("put lot: %v", err)
	}
	for _, d := range []time.Duration{-48 * time.Hour, 0, -24 * time.Hour} {
		if err := store.AppendLog("lot-1", fermentation.LogEntry{LogDate: now.Add(d)}); err != nil {
			t.Fatalf("append log: %v", err)
		}
	}
	logs, err := store.Logs().ListByLot(context.Background(), "lot-1")
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 3 || !logs[0].LogDate.Equal(now) {
		t.Fatalf("expected newest log first, got %+v", logs)
	}

	if err := store.AppendEvent("lot-1", fermentation.Event{Type: "unknown"}); err == nil {
		t.Fatalf("expected invalid event type to be rejected")
	}
}

func TestStoreGetAndListByStatus(t *testing.T) {
	store := NewStore()
	for _, lot := range []fermentation.Lot{
		{ID: "b", OwnerID: "u", Status: fermentation.LotStatusFermenting},
		{ID: "a", OwnerID: "u", Status: fermentation.LotStatusFermenting},
		{ID: "c", OwnerID: "u", Status: fermentation.LotStatusBottled},
	} {
		if err := store.PutLot(lot); err != nil {
			t.Fatalf("put lot: %v", err)
		}
	}
	if err := store.PutLot(fermentation.Lot{ID: "d"}); err == nil {
		t.Fatalf("expected lot without owner to be rejected")
	}

	lot, err := store.Lots().Get(context.Background(), "missing")
	if err != nil || lot != nil {
		t.Fatalf("expected nil, nil for missing lot, got %v, %v", lot, err)
	}
	lots, err := store.Lots().ListByStatus(context.Background(), fermentation.LotStatusFermenting)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lots) != 2 || lots[0].ID != "a" || lots[1].ID != "b" {
		t.Fatalf("expected fermenting lots ordered by id, got %+v", lots)
	}
}
