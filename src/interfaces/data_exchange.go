package interfaces

import "github.com/Massinr/cryptotracker/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger defining the interface for sharing data with connected
// presentation clients (Server/Push).
// -----------------------------------------------------------------------------

type IDataExchanger interface {

	// -----------------------------------------------------------------------------

	// BroadcastTicker pushes a ticker update to all connected clients.
	BroadcastTicker(update models.MTickerUpdate)

	// -----------------------------------------------------------------------------

	// Start the server
	Start() error

	// -----------------------------------------------------------------------------

	// Stop the server gracefully
	Stop() error
}
