package models

// -----------------------------------------------------------------------------
// Portfolio Models
// -----------------------------------------------------------------------------

// MPortfolioItem is one user-recorded lot of a coin. The embedded coin is a
// snapshot taken at creation time, not a live link: name/image may go stale,
// only Coin.ID is used for price lookups.
type MPortfolioItem struct {
	ID       string  `json:"id"`
	Coin     MCoin   `json:"coin"`
	Quantity float64 `json:"quantity"`
	BuyPrice float64 `json:"buy_price"`
}

// -----------------------------------------------------------------------------

// MStoreState is the full persisted state of the portfolio store.
// FavoriteCoins has set semantics, Portfolio keeps insertion order.
type MStoreState struct {
	DarkMode      bool             `json:"dark_mode"`
	FavoriteCoins []string         `json:"favorite_coins"`
	Portfolio     []MPortfolioItem `json:"portfolio"`
}

// -----------------------------------------------------------------------------
// Derived Valuation Models
// -----------------------------------------------------------------------------

// MProfitLoss is the gain of a holding against its cost basis.
type MProfitLoss struct {
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// MHoldingView is one portfolio row merged with live prices.
type MHoldingView struct {
	Item         MPortfolioItem `json:"item"`
	CurrentPrice float64        `json:"current_price"`
	CurrentValue float64        `json:"current_value"`
	ProfitLoss   MProfitLoss    `json:"profit_loss"`
}

// MAllocationEntry is a holding's share of the total portfolio value.
type MAllocationEntry struct {
	HoldingID  string  `json:"holding_id"`
	CoinName   string  `json:"coin_name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// MPortfolioSummary is the complete portfolio view payload.
type MPortfolioSummary struct {
	Holdings   []MHoldingView     `json:"holdings"`
	TotalValue float64            `json:"total_value"`
	Allocation []MAllocationEntry `json:"allocation"`
}
