package interfaces

import "github.com/Massinr/cryptotracker/src/models"

// -----------------------------------------------------------------------------
// IPersistence defines the contract for the durable portfolio state backend.
// The portfolio store is the sole caller; backends never mutate state on
// their own.
// -----------------------------------------------------------------------------

type IPersistence interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the backend (schema, tables, pragmas).
	Initialize() error

	// -----------------------------------------------------------------------------

	// Load reads the full persisted state. A backend with no prior state
	// returns a zero-value state and no error.
	Load() (models.MStoreState, error)

	// -----------------------------------------------------------------------------

	// Save replaces the persisted state with the given snapshot atomically.
	// All fields round-trip losslessly, including nested coin snapshots.
	Save(state models.MStoreState) error

	// -----------------------------------------------------------------------------

	// Close the backend
	Close() error
}
