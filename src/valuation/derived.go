package valuation

import (
	"sort"
	"strings"

	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// Derived Market List
//
// The markets view recomputes its table from the raw fetched list on every
// render. The derivation is a pure function of (list, query, sort key, sort
// order) so it stays testable away from any rendering code.
// -----------------------------------------------------------------------------

type SortField string

const (
	SortByRank      SortField = "market_cap_rank"
	SortByPrice     SortField = "current_price"
	SortByChange24h SortField = "price_change_percentage_24h"
	SortByVolume    SortField = "total_volume"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// -----------------------------------------------------------------------------

// ValidSortField reports whether the field names a sortable column.
func ValidSortField(field SortField) bool {
	switch field {
	case SortByRank, SortByPrice, SortByChange24h, SortByVolume:
		return true
	}
	return false
}

// -----------------------------------------------------------------------------

// FilterAndSort narrows the list to coins whose name or symbol contains the
// query (case-insensitive) and sorts by the requested field. The input slice
// is never mutated.
func FilterAndSort(coins []models.MCoin, query string, field SortField, order SortOrder) []models.MCoin {
	query = strings.ToLower(strings.TrimSpace(query))

	filtered := make([]models.MCoin, 0, len(coins))
	for _, c := range coins {
		if query == "" ||
			strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Symbol), query) {
			filtered = append(filtered, c)
		}
	}

	if !ValidSortField(field) {
		field = SortByRank
	}

	keyOf := func(c models.MCoin) float64 {
		switch field {
		case SortByPrice:
			return c.CurrentPrice
		case SortByChange24h:
			return c.PriceChangePct24h
		case SortByVolume:
			return c.TotalVolume
		default:
			return float64(c.MarketCapRank)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if order == SortDesc {
			return keyOf(filtered[i]) > keyOf(filtered[j])
		}
		return keyOf(filtered[i]) < keyOf(filtered[j])
	})

	return filtered
}
