package store

import (
	"errors"
	"math"
	"testing"

	"github.com/Massinr/cryptotracker/src/helpers"
	"github.com/Massinr/cryptotracker/src/logger"
	"github.com/Massinr/cryptotracker/src/models"
	"github.com/Massinr/cryptotracker/src/storage"
)

// -----------------------------------------------------------------------------
// Test Helpers
// -----------------------------------------------------------------------------

func newTestStore(t *testing.T) (*PortfolioStore, *storage.MemoryPersistence) {
	t.Helper()
	backend := storage.NewMemoryPersistence()
	s, err := NewPortfolioStore(backend, logger.NewLogger("test"))
	if err != nil {
		t.Fatalf("NewPortfolioStore() error = %v", err)
	}
	return s, backend
}

func testCoin(id string, price float64) models.MCoin {
	return models.MCoin{
		ID:           id,
		Symbol:       id[:3],
		Name:         id,
		CurrentPrice: price,
	}
}

// -----------------------------------------------------------------------------
// AddHolding
// -----------------------------------------------------------------------------

func TestPortfolioStore_AddHolding(t *testing.T) {
	s, backend := newTestStore(t)

	item, err := s.AddHolding(testCoin("bitcoin", 30000), 2, 30000)
	if err != nil {
		t.Fatalf("AddHolding() error = %v", err)
	}
	if item.Quantity != 2 || item.BuyPrice != 30000 {
		t.Errorf("AddHolding() = qty %f buy %f, want 2 / 30000", item.Quantity, item.BuyPrice)
	}
	if item.Coin.ID != "bitcoin" {
		t.Errorf("AddHolding() coin id = %s, want bitcoin", item.Coin.ID)
	}

	// Mutation must already be durable when the call returns
	persisted, _ := backend.Load()
	if len(persisted.Portfolio) != 1 {
		t.Fatalf("persisted portfolio size = %d, want 1", len(persisted.Portfolio))
	}
	if persisted.Portfolio[0].ID != item.ID {
		t.Errorf("persisted id = %s, want %s", persisted.Portfolio[0].ID, item.ID)
	}
}

// -----------------------------------------------------------------------------

func TestPortfolioStore_AddHolding_UniqueIDs(t *testing.T) {
	s, _ := newTestStore(t)

	// Multiple lots of the same coin must never be merged
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		item, err := s.AddHolding(testCoin("bitcoin", 30000), 1, 100)
		if err != nil {
			t.Fatalf("AddHolding() error = %v", err)
		}
		if seen[item.ID] {
			t.Fatalf("duplicate holding id: %s", item.ID)
		}
		seen[item.ID] = true
	}

	if got := len(s.Snapshot().Portfolio); got != 50 {
		t.Errorf("portfolio size = %d, want 50", got)
	}
}

// -----------------------------------------------------------------------------

func TestPortfolioStore_AddHolding_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		buyPrice float64
	}{
		{"ZeroQuantity", 0, 100},
		{"NegativeQuantity", -1, 100},
		{"ZeroBuyPrice", 1, 0},
		{"NegativeBuyPrice", 1, -50},
		{"NaNQuantity", math.NaN(), 100},
		{"InfQuantity", math.Inf(1), 100},
		{"NaNBuyPrice", 1, math.NaN()},
		{"NegInfBuyPrice", 1, math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, backend := newTestStore(t)

			_, err := s.AddHolding(testCoin("bitcoin", 30000), tt.quantity, tt.buyPrice)
			if !helpers.IsValidation(err) {
				t.Fatalf("AddHolding(%f, %f) error = %v, want ValidationError", tt.quantity, tt.buyPrice, err)
			}

			if got := len(s.Snapshot().Portfolio); got != 0 {
				t.Errorf("portfolio size after rejection = %d, want 0", got)
			}
			if backend.SaveCount() != 0 {
				t.Errorf("rejected mutation reached the backend")
			}
		})
	}
}

// -----------------------------------------------------------------------------
// UpdateHolding
// -----------------------------------------------------------------------------

func TestPortfolioStore_UpdateHolding(t *testing.T) {
	s, _ := newTestStore(t)
	item, _ := s.AddHolding(testCoin("ethereum", 2000), 5, 1800)

	if err := s.UpdateHolding(item.ID, 10, 1900); err != nil {
		t.Fatalf("UpdateHolding() error = %v", err)
	}

	got := s.Snapshot().Portfolio[0]
	if got.Quantity != 10 || got.BuyPrice != 1900 {
		t.Errorf("UpdateHolding() = qty %f buy %f, want 10 / 1900", got.Quantity, got.BuyPrice)
	}
}

// -----------------------------------------------------------------------------

func TestPortfolioStore_UpdateHolding_RejectsInvalid(t *testing.T) {
	s, _ := newTestStore(t)
	item, _ := s.AddHolding(testCoin("ethereum", 2000), 5, 1800)

	// Invalid quantity leaves both fields untouched
	err := s.UpdateHolding(item.ID, -1, 1900)
	if !helpers.IsValidation(err) {
		t.Fatalf("UpdateHolding() error = %v, want ValidationError", err)
	}

	got := s.Snapshot().Portfolio[0]
	if got.Quantity != 5 || got.BuyPrice != 1800 {
		t.Errorf("holding changed after rejected update: qty %f buy %f", got.Quantity, got.BuyPrice)
	}
}

// -----------------------------------------------------------------------------

func TestPortfolioStore_UpdateHolding_UnknownID(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddHolding(testCoin("ethereum", 2000), 5, 1800)

	if err := s.UpdateHolding("no-such-id", 1, 1); err != nil {
		t.Errorf("UpdateHolding(unknown) error = %v, want nil no-op", err)
	}

	got := s.Snapshot().Portfolio[0]
	if got.Quantity != 5 || got.BuyPrice != 1800 {
		t.Errorf("no-op update changed the holding")
	}
}

// -----------------------------------------------------------------------------
// RemoveHolding
// -----------------------------------------------------------------------------

func TestPortfolioStore_RemoveHolding(t *testing.T) {
	s, backend := newTestStore(t)
	first, _ := s.AddHolding(testCoin("bitcoin", 30000), 1, 100)
	second, _ := s.AddHolding(testCoin("ethereum", 2000), 2, 200)

	if err := s.RemoveHolding(first.ID); err != nil {
		t.Fatalf("RemoveHolding() error = %v", err)
	}

	state := s.Snapshot()
	if len(state.Portfolio) != 1 || state.Portfolio[0].ID != second.ID {
		t.Errorf("RemoveHolding() left wrong items: %+v", state.Portfolio)
	}

	persisted, _ := backend.Load()
	if len(persisted.Portfolio) != 1 {
		t.Errorf("persisted size = %d, want 1", len(persisted.Portfolio))
	}

	// Unknown id is a no-op
	if err := s.RemoveHolding("no-such-id"); err != nil {
		t.Errorf("RemoveHolding(unknown) error = %v, want nil", err)
	}
	if got := len(s.Snapshot().Portfolio); got != 1 {
		t.Errorf("portfolio size after no-op remove = %d, want 1", got)
	}
}

// -----------------------------------------------------------------------------
// ToggleFavorite
// -----------------------------------------------------------------------------

func TestPortfolioStore_ToggleFavorite_SelfInverse(t *testing.T) {
	s, _ := newTestStore(t)
	s.ToggleFavorite("solana")

	if err := s.ToggleFavorite("bitcoin"); err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if !s.IsFavorite("bitcoin") {
		t.Errorf("bitcoin not favorite after first toggle")
	}

	if err := s.ToggleFavorite("bitcoin"); err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if s.IsFavorite("bitcoin") {
		t.Errorf("bitcoin still favorite after second toggle")
	}

	favs := s.Snapshot().FavoriteCoins
	if len(favs) != 1 || favs[0] != "solana" {
		t.Errorf("favorites after double toggle = %v, want [solana]", favs)
	}
}

// -----------------------------------------------------------------------------
// SetDarkMode
// -----------------------------------------------------------------------------

func TestPortfolioStore_SetDarkMode(t *testing.T) {
	s, backend := newTestStore(t)

	if err := s.SetDarkMode(true); err != nil {
		t.Fatalf("SetDarkMode() error = %v", err)
	}

	persisted, _ := backend.Load()
	if !persisted.DarkMode {
		t.Errorf("dark mode not persisted")
	}
}

// -----------------------------------------------------------------------------
// Persistence Failure Rollback
// -----------------------------------------------------------------------------

func TestPortfolioStore_SaveFailureRollsBack(t *testing.T) {
	s, backend := newTestStore(t)
	s.AddHolding(testCoin("bitcoin", 30000), 1, 100)

	backend.FailNextSave = errors.New("disk full")

	_, err := s.AddHolding(testCoin("ethereum", 2000), 2, 200)
	if err == nil {
		t.Fatalf("AddHolding() error = nil, want persistence failure")
	}

	// In-memory state must match what is on disk
	if got := len(s.Snapshot().Portfolio); got != 1 {
		t.Errorf("portfolio size after failed save = %d, want 1", got)
	}

	backend.FailNextSave = errors.New("disk full")
	if err := s.ToggleFavorite("bitcoin"); err == nil {
		t.Fatalf("ToggleFavorite() error = nil, want persistence failure")
	}
	if s.IsFavorite("bitcoin") {
		t.Errorf("favorite applied despite failed save")
	}
}

// -----------------------------------------------------------------------------
// Snapshot Isolation
// -----------------------------------------------------------------------------

func TestPortfolioStore_SnapshotIsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddHolding(testCoin("bitcoin", 30000), 1, 100)

	snap := s.Snapshot()
	snap.Portfolio[0].Quantity = 999
	snap.FavoriteCoins = append(snap.FavoriteCoins, "dogecoin")

	if got := s.Snapshot().Portfolio[0].Quantity; got != 1 {
		t.Errorf("snapshot mutation leaked into the store: qty = %f", got)
	}
	if s.IsFavorite("dogecoin") {
		t.Errorf("snapshot mutation leaked into favorites")
	}
}
