package models

// -----------------------------------------------------------------------------
// Market Data Models (field names follow the CoinGecko payloads)
// -----------------------------------------------------------------------------

// MCoin represents one ranked cryptocurrency as reported by the provider.
// The id is stable across fetches and is the join key with portfolio holdings.
type MCoin struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Image             string  `json:"image"`
	CurrentPrice      float64 `json:"current_price"`
	MarketCap         float64 `json:"market_cap"`
	MarketCapRank     int     `json:"market_cap_rank"`
	PriceChangePct24h float64 `json:"price_change_percentage_24h"`
	TotalVolume       float64 `json:"total_volume"`
}

// -----------------------------------------------------------------------------

// MMarketSnapshot is the global aggregate market state. It is replaced
// wholesale on every successful fetch; a failed fetch keeps the prior one.
type MMarketSnapshot struct {
	TotalMarketCapUSD      float64            `json:"total_market_cap_usd"`
	TotalVolumeUSD         float64            `json:"total_volume_usd"`
	MarketCapChangePct24h  float64            `json:"market_cap_change_percentage_24h_usd"`
	MarketCapPercentage    map[string]float64 `json:"market_cap_percentage"`
	ActiveCryptocurrencies int                `json:"active_cryptocurrencies"`
	TotalCryptocurrencies  int                `json:"total_cryptocurrencies"`
	ActiveExchanges        int                `json:"active_exchanges"`
	TotalExchanges         int                `json:"total_exchanges"`
	LastUpdated            int64              `json:"last_updated"`
}

// -----------------------------------------------------------------------------

// MDominanceEntry is one asset's share of global market capitalization.
type MDominanceEntry struct {
	Symbol     string  `json:"symbol"`
	Percentage float64 `json:"percentage"`
}
