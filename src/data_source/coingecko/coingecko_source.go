package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Massinr/cryptotracker/src/helpers"
	"github.com/Massinr/cryptotracker/src/interfaces"
	"github.com/Massinr/cryptotracker/src/logger"
	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// CoinGeckoSource
//
// Read-only client for the two provider operations the tracker consumes:
// a page of ranked coins and the global market snapshot. Responses are
// replaced wholesale downstream; nothing here keeps state between calls.
// -----------------------------------------------------------------------------

type CoinGeckoSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewCoinGeckoSource(cfg *models.MConfig, netMgr interfaces.INetworkManager) *CoinGeckoSource {
	return &CoinGeckoSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  logger.NewLogger("CoinGeckoSource"),
	}
}

// -----------------------------------------------------------------------------

func (s *CoinGeckoSource) Name() string {
	return "coingecko"
}

// -----------------------------------------------------------------------------

// FetchCoins requests one page of coins ordered by market cap (rank 1 first).
func (s *CoinGeckoSource) FetchCoins(ctx context.Context, page, perPage int) ([]models.MCoin, error) {
	params := map[string]string{
		"vs_currency":             s.Config.Provider.VsCurrency,
		"order":                   "market_cap_desc",
		"per_page":                strconv.Itoa(perPage),
		"page":                    strconv.Itoa(page),
		"sparkline":               "false",
		"price_change_percentage": "24h",
	}

	url := s.Config.Provider.BaseURL + "/coins/markets"

	body, err := s.Network.Get(ctx, url, params)
	if err != nil {
		return nil, err
	}

	var coins []models.MCoin
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, helpers.NewEmptyResponseError(fmt.Sprintf("malformed coins response: %v", err))
	}

	// An empty page is indistinguishable from a provider glitch; treat it
	// as a failure so stale cached data keeps being displayed.
	if len(coins) == 0 {
		return nil, helpers.NewEmptyResponseError("no coins in response")
	}

	s.Logger.Info("Fetched %d coins (page %d)", len(coins), page)
	return coins, nil
}

// -----------------------------------------------------------------------------

type globalResponse struct {
	Data struct {
		TotalMarketCap         map[string]float64 `json:"total_market_cap"`
		TotalVolume            map[string]float64 `json:"total_volume"`
		MarketCapChangePct24h  float64            `json:"market_cap_change_percentage_24h_usd"`
		MarketCapPercentage    map[string]float64 `json:"market_cap_percentage"`
		ActiveCryptocurrencies int                `json:"active_cryptocurrencies"`
		TotalCryptocurrencies  int                `json:"total_cryptocurrencies"`
		ActiveExchanges        int                `json:"active_exchanges"`
		TotalExchanges         int                `json:"total_exchanges"`
		UpdatedAt              int64              `json:"updated_at"`
	} `json:"data"`
}

// -----------------------------------------------------------------------------

// FetchGlobalSnapshot requests the aggregate market statistics.
func (s *CoinGeckoSource) FetchGlobalSnapshot(ctx context.Context) (models.MMarketSnapshot, error) {
	url := s.Config.Provider.BaseURL + "/global"

	body, err := s.Network.Get(ctx, url, nil)
	if err != nil {
		return models.MMarketSnapshot{}, err
	}

	var resp globalResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.MMarketSnapshot{}, helpers.NewEmptyResponseError(fmt.Sprintf("malformed global response: %v", err))
	}

	if len(resp.Data.TotalMarketCap) == 0 {
		return models.MMarketSnapshot{}, helpers.NewEmptyResponseError("no data in global response")
	}

	vs := s.Config.Provider.VsCurrency
	snap := models.MMarketSnapshot{
		TotalMarketCapUSD:      resp.Data.TotalMarketCap[vs],
		TotalVolumeUSD:         resp.Data.TotalVolume[vs],
		MarketCapChangePct24h:  resp.Data.MarketCapChangePct24h,
		MarketCapPercentage:    resp.Data.MarketCapPercentage,
		ActiveCryptocurrencies: resp.Data.ActiveCryptocurrencies,
		TotalCryptocurrencies:  resp.Data.TotalCryptocurrencies,
		ActiveExchanges:        resp.Data.ActiveExchanges,
		TotalExchanges:         resp.Data.TotalExchanges,
		LastUpdated:            resp.Data.UpdatedAt,
	}

	s.Logger.Info("Fetched global snapshot (%d assets in dominance map)", len(snap.MarketCapPercentage))
	return snap, nil
}

// -----------------------------------------------------------------------------

type searchResponse struct {
	Coins []struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Symbol        string `json:"symbol"`
		MarketCapRank int    `json:"market_cap_rank"`
		Large         string `json:"large"`
	} `json:"coins"`
}

// -----------------------------------------------------------------------------

// SearchCoins performs a provider-side name/symbol lookup. Results carry no
// price data, only identity and rank.
func (s *CoinGeckoSource) SearchCoins(ctx context.Context, query string) ([]models.MCoin, error) {
	url := s.Config.Provider.BaseURL + "/search"

	body, err := s.Network.Get(ctx, url, map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, helpers.NewEmptyResponseError(fmt.Sprintf("malformed search response: %v", err))
	}

	coins := make([]models.MCoin, 0, len(resp.Coins))
	for _, c := range resp.Coins {
		coins = append(coins, models.MCoin{
			ID:            c.ID,
			Symbol:        c.Symbol,
			Name:          c.Name,
			Image:         c.Large,
			MarketCapRank: c.MarketCapRank,
		})
	}

	return coins, nil
}
