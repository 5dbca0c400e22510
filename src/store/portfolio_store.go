package store

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Massinr/cryptotracker/src/helpers"
	"github.com/Massinr/cryptotracker/src/interfaces"
	"github.com/Massinr/cryptotracker/src/logger"
	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// PortfolioStore
//
// Sole owner and writer of the persisted user state: holdings, favorites and
// the dark-mode preference. Every mutation is synchronous and written through
// to the backend before it returns; if the write fails the in-memory change
// is rolled back and the error is returned to the caller.
// -----------------------------------------------------------------------------

type PortfolioStore struct {
	mu      sync.RWMutex
	state   models.MStoreState
	backend interfaces.IPersistence
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

// NewPortfolioStore loads the prior state from the backend. Constructed once
// at process start and passed by reference to each view.
func NewPortfolioStore(backend interfaces.IPersistence, log *logger.Logger) (*PortfolioStore, error) {
	state, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio state: %w", err)
	}

	s := &PortfolioStore{
		state:   state,
		backend: backend,
		Logger:  log,
	}

	s.Logger.Info("Loaded portfolio state: %d holdings, %d favorites",
		len(state.Portfolio), len(state.FavoriteCoins))
	return s, nil
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

// validateHolding enforces the positivity invariant before any create or
// update is applied. The original UI dropped invalid input silently; here the
// rejection is surfaced as a structured error.
func validateHolding(quantity, buyPrice float64) error {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return helpers.NewValidationError("quantity must be a finite number")
	}
	if math.IsNaN(buyPrice) || math.IsInf(buyPrice, 0) {
		return helpers.NewValidationError("buy price must be a finite number")
	}
	if quantity <= 0 {
		return helpers.NewValidationError("quantity must be greater than 0")
	}
	if buyPrice <= 0 {
		return helpers.NewValidationError("buy price must be greater than 0")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Mutations
// -----------------------------------------------------------------------------

// AddHolding records a new lot of a coin. The coin is embedded by value as a
// snapshot; multiple lots of the same coin get distinct ids.
func (s *PortfolioStore) AddHolding(coin models.MCoin, quantity, buyPrice float64) (models.MPortfolioItem, error) {
	if err := validateHolding(quantity, buyPrice); err != nil {
		return models.MPortfolioItem{}, err
	}

	item := models.MPortfolioItem{
		ID:       newHoldingID(coin.ID),
		Coin:     coin,
		Quantity: quantity,
		BuyPrice: buyPrice,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Portfolio = append(s.state.Portfolio, item)

	if err := s.backend.Save(s.state); err != nil {
		// Roll back the append
		s.state.Portfolio = s.state.Portfolio[:len(s.state.Portfolio)-1]
		return models.MPortfolioItem{}, fmt.Errorf("failed to persist holding: %w", err)
	}

	s.Logger.Info("Added holding %s (qty=%f, buy=%f)", item.ID, quantity, buyPrice)
	return item, nil
}

// -----------------------------------------------------------------------------

// UpdateHolding replaces quantity and buy price atomically. An unknown id is
// a no-op.
func (s *PortfolioStore) UpdateHolding(id string, quantity, buyPrice float64) error {
	if err := validateHolding(quantity, buyPrice); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Portfolio {
		if s.state.Portfolio[i].ID != id {
			continue
		}

		prevQty := s.state.Portfolio[i].Quantity
		prevBuy := s.state.Portfolio[i].BuyPrice
		s.state.Portfolio[i].Quantity = quantity
		s.state.Portfolio[i].BuyPrice = buyPrice

		if err := s.backend.Save(s.state); err != nil {
			s.state.Portfolio[i].Quantity = prevQty
			s.state.Portfolio[i].BuyPrice = prevBuy
			return fmt.Errorf("failed to persist holding update: %w", err)
		}
		return nil
	}

	return nil
}

// -----------------------------------------------------------------------------

// RemoveHolding deletes the matching item. An unknown id is a no-op.
func (s *PortfolioStore) RemoveHolding(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Portfolio {
		if s.state.Portfolio[i].ID != id {
			continue
		}

		removed := s.state.Portfolio[i]
		s.state.Portfolio = append(s.state.Portfolio[:i], s.state.Portfolio[i+1:]...)

		if err := s.backend.Save(s.state); err != nil {
			// Reinsert at the original position
			s.state.Portfolio = append(s.state.Portfolio[:i],
				append([]models.MPortfolioItem{removed}, s.state.Portfolio[i:]...)...)
			return fmt.Errorf("failed to persist holding removal: %w", err)
		}
		return nil
	}

	return nil
}

// -----------------------------------------------------------------------------

// ToggleFavorite adds the coin id if absent, removes it if present.
// Toggling the same id twice restores the original set.
func (s *PortfolioStore) ToggleFavorite(coinID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.FavoriteCoins

	found := false
	next := make([]string, 0, len(prev)+1)
	for _, id := range prev {
		if id == coinID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, coinID)
	}
	s.state.FavoriteCoins = next

	if err := s.backend.Save(s.state); err != nil {
		s.state.FavoriteCoins = prev
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// SetDarkMode stores the UI preference in the same persisted state.
func (s *PortfolioStore) SetDarkMode(flag bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.DarkMode
	s.state.DarkMode = flag

	if err := s.backend.Save(s.state); err != nil {
		s.state.DarkMode = prev
		return fmt.Errorf("failed to persist dark mode: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

// Snapshot returns a deep copy of the current state.
func (s *PortfolioStore) Snapshot() models.MStoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := models.MStoreState{
		DarkMode:      s.state.DarkMode,
		FavoriteCoins: make([]string, len(s.state.FavoriteCoins)),
		Portfolio:     make([]models.MPortfolioItem, len(s.state.Portfolio)),
	}
	copy(out.FavoriteCoins, s.state.FavoriteCoins)
	copy(out.Portfolio, s.state.Portfolio)
	return out
}

// -----------------------------------------------------------------------------

// IsFavorite reports membership in the favorite set.
func (s *PortfolioStore) IsFavorite(coinID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.state.FavoriteCoins {
		if id == coinID {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// ID Generation
// -----------------------------------------------------------------------------

// newHoldingID builds an id from the coin id and creation time. The uuid
// suffix keeps ids distinct when lots of the same coin are added within the
// same millisecond.
func newHoldingID(coinID string) string {
	return fmt.Sprintf("%s-%d-%s", coinID, time.Now().UnixMilli(), uuid.NewString()[:8])
}
