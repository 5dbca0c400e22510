package interfaces

import "context"

// -----------------------------------------------------------------------------
// INetworkManager defines the contract for HTTP requests against the provider.
// -----------------------------------------------------------------------------

type INetworkManager interface {

	// -----------------------------------------------------------------------------

	// Get performs a GET request to the specified URL with query parameters.
	// Returns the response body as bytes, or a typed error from the helpers
	// taxonomy (rate limit, transport, empty response).
	Get(ctx context.Context, url string, params map[string]string) ([]byte, error)
}
