package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Massinr/cryptotracker/src/helpers"
	"github.com/Massinr/cryptotracker/src/logger"
	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// NetworkManager
//
// One HTTP client shared by every view's fetch loop. There is no transport
// retry here: a failed refresh simply waits for the next scheduled tick.
// -----------------------------------------------------------------------------

type NetworkManager struct {
	Config *models.MConfig
	Client *http.Client
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewNetworkManager(cfg *models.MConfig, log *logger.Logger) *NetworkManager {
	return &NetworkManager{
		Config: cfg,
		Logger: log,
		Client: &http.Client{
			// Hard upper bound on any single fetch
			Timeout: time.Duration(cfg.Network.RequestTimeout) * time.Second,
		},
	}
}

// -----------------------------------------------------------------------------

// Get performs a GET request and classifies failures into the typed taxonomy:
// 429 -> RateLimitError, other non-200 or connection errors -> TransportError,
// empty body -> EmptyResponseError.
func (nm *NetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqUrl, err := url.Parse(urlStr)
	if err != nil {
		return nil, helpers.NewTransportError("invalid request url", err)
	}

	q := reqUrl.Query()
	for k, v := range params {
		q.Add(k, v)
	}
	reqUrl.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqUrl.String(), nil)
	if err != nil {
		return nil, helpers.NewTransportError("failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if nm.Config.Network.UserAgent != "" {
		req.Header.Set("User-Agent", nm.Config.Network.UserAgent)
	}

	resp, err := nm.Client.Do(req)
	if err != nil {
		nm.Logger.Info("Request failed: %v", err)
		return nil, helpers.NewTransportError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		nm.Logger.Warning("Request rate limited (429)")
		return nil, helpers.NewRateLimitError(fmt.Errorf("status %d", resp.StatusCode))
	}

	if resp.StatusCode != http.StatusOK {
		nm.Logger.Info("Bad status %d", resp.StatusCode)
		return nil, helpers.NewTransportError(fmt.Sprintf("bad status: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, helpers.NewTransportError("failed to read response body", err)
	}

	if len(body) == 0 {
		return nil, helpers.NewEmptyResponseError("empty response body")
	}

	return body, nil
}
