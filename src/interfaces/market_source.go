package interfaces

import (
	"context"

	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// IMarketSource interface for the external market data provider.
// -----------------------------------------------------------------------------

type IMarketSource interface {

	// Name returns the unique identifier of the provider
	Name() string

	// -----------------------------------------------------------------------------

	// FetchCoins retrieves one page of ranked coin data (rank 1 first).
	// An empty body or empty JSON array is an error, never valid-empty data.
	FetchCoins(ctx context.Context, page, perPage int) ([]models.MCoin, error)

	// -----------------------------------------------------------------------------

	// FetchGlobalSnapshot retrieves the aggregate market statistics.
	FetchGlobalSnapshot(ctx context.Context) (models.MMarketSnapshot, error)

	// -----------------------------------------------------------------------------

	// SearchCoins looks up coins matching the query on the provider side.
	SearchCoins(ctx context.Context, query string) ([]models.MCoin, error)
}
