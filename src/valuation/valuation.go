package valuation

import (
	"sort"

	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// Valuation Engine
//
// Pure derivations over a portfolio snapshot and a market snapshot. Nothing
// here holds state; callers re-run these on every holding change or refresh.
// -----------------------------------------------------------------------------

// PriceIndex maps coin id to the latest fetched price.
type PriceIndex map[string]float64

// -----------------------------------------------------------------------------

// NewPriceIndex builds a lookup from a fetched coin page.
func NewPriceIndex(coins []models.MCoin) PriceIndex {
	idx := make(PriceIndex, len(coins))
	for _, c := range coins {
		idx[c.ID] = c.CurrentPrice
	}
	return idx
}

// -----------------------------------------------------------------------------

// CurrentPrice returns the latest price for a coin id, or 0 when the coin is
// absent from the fetched page (delisted, not yet fetched, or below the page
// cutoff). Holdings priced at 0 understate the total; see Lookup for callers
// that need to tell the two cases apart.
func (idx PriceIndex) CurrentPrice(coinID string) float64 {
	return idx[coinID]
}

// -----------------------------------------------------------------------------

// Lookup returns the price and whether the coin was present in the snapshot.
func (idx PriceIndex) Lookup(coinID string) (float64, bool) {
	price, ok := idx[coinID]
	return price, ok
}

// -----------------------------------------------------------------------------

// HoldingValue is the live market value of one holding.
func HoldingValue(idx PriceIndex, item models.MPortfolioItem) float64 {
	return idx.CurrentPrice(item.Coin.ID) * item.Quantity
}

// -----------------------------------------------------------------------------

// ProfitLoss computes the absolute and percentage gain of a holding against
// its cost basis. The positivity invariant on stored holdings keeps the cost
// basis above zero, but a zero basis is still guarded here.
func ProfitLoss(idx PriceIndex, item models.MPortfolioItem) models.MProfitLoss {
	currentValue := HoldingValue(idx, item)
	initialValue := item.BuyPrice * item.Quantity
	value := currentValue - initialValue

	var percentage float64
	if initialValue != 0 {
		percentage = value / initialValue * 100
	}

	return models.MProfitLoss{Value: value, Percentage: percentage}
}

// -----------------------------------------------------------------------------

// TotalValue sums HoldingValue over all holdings.
func TotalValue(idx PriceIndex, items []models.MPortfolioItem) float64 {
	var total float64
	for _, item := range items {
		total += HoldingValue(idx, item)
	}
	return total
}

// -----------------------------------------------------------------------------

// AllocationBreakdown computes each holding's share of the total portfolio
// value. An empty or worthless portfolio yields an empty slice, never a
// division by zero.
func AllocationBreakdown(idx PriceIndex, items []models.MPortfolioItem) []models.MAllocationEntry {
	total := TotalValue(idx, items)
	if total == 0 {
		return nil
	}

	entries := make([]models.MAllocationEntry, 0, len(items))
	for _, item := range items {
		value := HoldingValue(idx, item)
		entries = append(entries, models.MAllocationEntry{
			HoldingID:  item.ID,
			CoinName:   item.Coin.Name,
			Value:      value,
			Percentage: value / total * 100,
		})
	}
	return entries
}

// -----------------------------------------------------------------------------

// Summarize builds the full portfolio view: per-holding valuation rows,
// the aggregate value, and the allocation breakdown.
func Summarize(idx PriceIndex, items []models.MPortfolioItem) models.MPortfolioSummary {
	holdings := make([]models.MHoldingView, 0, len(items))
	for _, item := range items {
		holdings = append(holdings, models.MHoldingView{
			Item:         item,
			CurrentPrice: idx.CurrentPrice(item.Coin.ID),
			CurrentValue: HoldingValue(idx, item),
			ProfitLoss:   ProfitLoss(idx, item),
		})
	}

	return models.MPortfolioSummary{
		Holdings:   holdings,
		TotalValue: TotalValue(idx, items),
		Allocation: AllocationBreakdown(idx, items),
	}
}

// -----------------------------------------------------------------------------

// TopDominanceAssets sorts the global market-cap-percentage mapping by share
// descending and takes the top n. Entries are first ordered by symbol so the
// result is deterministic, then stably sorted by percentage; ties keep the
// symbol order.
func TopDominanceAssets(snap models.MMarketSnapshot, n int) []models.MDominanceEntry {
	entries := make([]models.MDominanceEntry, 0, len(snap.MarketCapPercentage))
	for symbol, pct := range snap.MarketCapPercentage {
		entries = append(entries, models.MDominanceEntry{Symbol: symbol, Percentage: pct})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Symbol < entries[j].Symbol
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Percentage > entries[j].Percentage
	})

	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}
