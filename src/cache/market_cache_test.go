package cache

import (
	"testing"

	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// Coin Pages
// -----------------------------------------------------------------------------

func TestMarketCache_ReplaceOnSuccess(t *testing.T) {
	c := NewMarketCache()

	first := []models.MCoin{{ID: "bitcoin", CurrentPrice: 30000}}
	c.SetCoins("markets-p1", first)

	second := []models.MCoin{{ID: "bitcoin", CurrentPrice: 35000}, {ID: "ethereum", CurrentPrice: 2000}}
	c.SetCoins("markets-p1", second)

	got := c.Coins("markets-p1")
	if len(got) != 2 || got[0].CurrentPrice != 35000 {
		t.Errorf("Coins() after replace = %+v, want the second page", got)
	}
}

// -----------------------------------------------------------------------------

func TestMarketCache_ViewsAreIndependent(t *testing.T) {
	c := NewMarketCache()
	c.SetCoins("markets-p1", []models.MCoin{{ID: "bitcoin"}})
	c.SetCoins("ticker", []models.MCoin{{ID: "ethereum"}})

	// A refresh of one view must not disturb another
	if got := c.Coins("markets-p1"); len(got) != 1 || got[0].ID != "bitcoin" {
		t.Errorf("markets view = %+v, want [bitcoin]", got)
	}
	if got := c.Coins("ticker"); len(got) != 1 || got[0].ID != "ethereum" {
		t.Errorf("ticker view = %+v, want [ethereum]", got)
	}
	if got := c.Coins("portfolio"); got != nil {
		t.Errorf("unset view = %+v, want nil", got)
	}
}

// -----------------------------------------------------------------------------

func TestMarketCache_CopiesAreDefensive(t *testing.T) {
	c := NewMarketCache()
	page := []models.MCoin{{ID: "bitcoin", CurrentPrice: 30000}}
	c.SetCoins("markets-p1", page)

	// Caller keeps mutating its own slice after writing
	page[0].CurrentPrice = 1

	got := c.Coins("markets-p1")
	if got[0].CurrentPrice != 30000 {
		t.Errorf("writer mutation leaked into the cache: %f", got[0].CurrentPrice)
	}

	// Reader mutations must not leak back either
	got[0].CurrentPrice = 2
	if again := c.Coins("markets-p1"); again[0].CurrentPrice != 30000 {
		t.Errorf("reader mutation leaked into the cache: %f", again[0].CurrentPrice)
	}
}

// -----------------------------------------------------------------------------

func TestMarketCache_Views(t *testing.T) {
	c := NewMarketCache()
	if got := c.Views(); len(got) != 0 {
		t.Errorf("Views() on empty cache = %v", got)
	}

	c.SetCoins("ticker", []models.MCoin{{ID: "bitcoin"}})
	c.SetCoins("markets-p3", []models.MCoin{{ID: "render-token"}})
	c.SetCoins("markets-p1", []models.MCoin{{ID: "ethereum"}})

	got := c.Views()
	want := []string{"markets-p1", "markets-p3", "ticker"}
	if len(got) != len(want) {
		t.Fatalf("Views() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Views()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

// -----------------------------------------------------------------------------
// Global Snapshot
// -----------------------------------------------------------------------------

func TestMarketCache_Global(t *testing.T) {
	c := NewMarketCache()

	if _, ok := c.Global(); ok {
		t.Errorf("Global() reported data before any refresh")
	}

	c.SetGlobal(models.MMarketSnapshot{ActiveCryptocurrencies: 10000})
	snap, ok := c.Global()
	if !ok || snap.ActiveCryptocurrencies != 10000 {
		t.Errorf("Global() = %+v, %v, want the stored snapshot", snap, ok)
	}

	c.SetGlobal(models.MMarketSnapshot{ActiveCryptocurrencies: 10001})
	snap, _ = c.Global()
	if snap.ActiveCryptocurrencies != 10001 {
		t.Errorf("Global() after replace = %d, want 10001", snap.ActiveCryptocurrencies)
	}
}
