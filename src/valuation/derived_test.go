package valuation

import (
	"testing"

	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// FilterAndSort
// -----------------------------------------------------------------------------

func marketList() []models.MCoin {
	return []models.MCoin{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", MarketCapRank: 1, CurrentPrice: 35000, PriceChangePct24h: 1.2, TotalVolume: 9e9},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", MarketCapRank: 2, CurrentPrice: 2000, PriceChangePct24h: -0.5, TotalVolume: 5e9},
		{ID: "tether", Symbol: "usdt", Name: "Tether", MarketCapRank: 3, CurrentPrice: 1, PriceChangePct24h: 0.01, TotalVolume: 2e10},
		{ID: "bitcoin-cash", Symbol: "bch", Name: "Bitcoin Cash", MarketCapRank: 18, CurrentPrice: 250, PriceChangePct24h: 3.1, TotalVolume: 4e8},
	}
}

func ids(coins []models.MCoin) []string {
	out := make([]string, len(coins))
	for i, c := range coins {
		out[i] = c.ID
	}
	return out
}

func sameIDs(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// -----------------------------------------------------------------------------

func TestFilterAndSort(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field SortField
		order SortOrder
		want  []string
	}{
		{"RankAscending", "", SortByRank, SortAsc, []string{"bitcoin", "ethereum", "tether", "bitcoin-cash"}},
		{"PriceDescending", "", SortByPrice, SortDesc, []string{"bitcoin", "ethereum", "bitcoin-cash", "tether"}},
		{"ChangeDescending", "", SortByChange24h, SortDesc, []string{"bitcoin-cash", "bitcoin", "tether", "ethereum"}},
		{"VolumeAscending", "", SortByVolume, SortAsc, []string{"bitcoin-cash", "ethereum", "bitcoin", "tether"}},
		{"QueryMatchesName", "bitcoin", SortByRank, SortAsc, []string{"bitcoin", "bitcoin-cash"}},
		{"QueryMatchesSymbol", "usdt", SortByRank, SortAsc, []string{"tether"}},
		{"QueryCaseInsensitive", "BiTcOiN", SortByRank, SortAsc, []string{"bitcoin", "bitcoin-cash"}},
		{"QueryNoMatch", "dogecoin", SortByRank, SortAsc, []string{}},
		{"InvalidFieldFallsBackToRank", "", SortField("bogus"), SortAsc, []string{"bitcoin", "ethereum", "tether", "bitcoin-cash"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAndSort(marketList(), tt.query, tt.field, tt.order)
			if !sameIDs(ids(got), tt.want) {
				t.Errorf("FilterAndSort() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	coins := marketList()
	FilterAndSort(coins, "", SortByPrice, SortDesc)

	if coins[0].ID != "bitcoin" || coins[3].ID != "bitcoin-cash" {
		t.Errorf("input slice was reordered: %v", ids(coins))
	}
}

// -----------------------------------------------------------------------------

func TestFilterAndSort_StableOnTies(t *testing.T) {
	coins := []models.MCoin{
		{ID: "a-coin", Symbol: "aaa", Name: "A", MarketCapRank: 1, CurrentPrice: 10},
		{ID: "b-coin", Symbol: "bbb", Name: "B", MarketCapRank: 2, CurrentPrice: 10},
		{ID: "c-coin", Symbol: "ccc", Name: "C", MarketCapRank: 3, CurrentPrice: 10},
	}

	got := FilterAndSort(coins, "", SortByPrice, SortDesc)
	if !sameIDs(ids(got), []string{"a-coin", "b-coin", "c-coin"}) {
		t.Errorf("equal keys lost input order: %v", ids(got))
	}
}
