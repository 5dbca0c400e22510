package storage

import (
	"sync"

	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// MemoryPersistence
//
// Non-durable backend used in tests and with storage.db_type: memory.
// -----------------------------------------------------------------------------

type MemoryPersistence struct {
	mu    sync.Mutex
	state models.MStoreState
	saves int

	// FailNextSave makes the next Save return this error, then resets.
	FailNextSave error
}

// -----------------------------------------------------------------------------

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

// -----------------------------------------------------------------------------

func (m *MemoryPersistence) Initialize() error {
	return nil
}

// -----------------------------------------------------------------------------

func (m *MemoryPersistence) Load() (models.MStoreState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

// -----------------------------------------------------------------------------

func (m *MemoryPersistence) Save(state models.MStoreState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNextSave != nil {
		err := m.FailNextSave
		m.FailNextSave = nil
		return err
	}

	copied := models.MStoreState{
		DarkMode:      state.DarkMode,
		FavoriteCoins: append([]string(nil), state.FavoriteCoins...),
		Portfolio:     append([]models.MPortfolioItem(nil), state.Portfolio...),
	}
	m.state = copied
	m.saves++
	return nil
}

// -----------------------------------------------------------------------------

// SaveCount returns how many successful saves have happened.
func (m *MemoryPersistence) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// -----------------------------------------------------------------------------

func (m *MemoryPersistence) Close() error {
	return nil
}
