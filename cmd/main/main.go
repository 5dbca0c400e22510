package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Massinr/cryptotracker/src/cache"
	"github.com/Massinr/cryptotracker/src/config"
	"github.com/Massinr/cryptotracker/src/data_source/coingecko"
	"github.com/Massinr/cryptotracker/src/interfaces"
	"github.com/Massinr/cryptotracker/src/logger"
	"github.com/Massinr/cryptotracker/src/models"
	"github.com/Massinr/cryptotracker/src/network"
	"github.com/Massinr/cryptotracker/src/scheduler"
	"github.com/Massinr/cryptotracker/src/server"
	"github.com/Massinr/cryptotracker/src/storage"
	"github.com/Massinr/cryptotracker/src/store"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.Name)

	// Setup persistence backend
	var backend interfaces.IPersistence

	switch conf.Storage.DBType {
	case "postgres":
		backend, err = storage.NewPostgresStateDB(conf.MConfig, appLogger)
	case "memory":
		backend = storage.NewMemoryPersistence()
	default:
		// Default to SQLite
		backend, err = storage.NewSQLiteStateDB(conf.MConfig, appLogger)
	}

	if err != nil {
		appLogger.Critical("Failed to init storage backend: %v", err)
	}
	if err := backend.Initialize(); err != nil {
		appLogger.Critical("Failed to initialize storage backend: %v", err)
	}
	defer backend.Close()

	// Portfolio store (sole owner of the persisted user state)
	portfolioStore, err := store.NewPortfolioStore(backend, appLogger)
	if err != nil {
		appLogger.Critical("Failed to load portfolio store: %v", err)
	}

	// Market data components
	var netMgr interfaces.INetworkManager = network.NewNetworkManager(conf.MConfig, appLogger)
	var source interfaces.IMarketSource = coingecko.NewCoinGeckoSource(conf.MConfig, netMgr)
	marketCache := cache.NewMarketCache()

	// Server
	var exchanger interfaces.IDataExchanger = server.NewAPIServer(conf.MConfig, appLogger, portfolioStore, marketCache, source)

	go func() {
		if err := exchanger.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()
	defer exchanger.Stop()

	// Per-view refresh schedulers. Each view polls independently; the first
	// fetch happens immediately on start.
	interval := time.Duration(conf.Refresh.IntervalSeconds) * time.Second
	schedulers := buildSchedulers(conf.MConfig, interval, source, marketCache, exchanger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := &sync.WaitGroup{}
	for _, s := range schedulers {
		if err := s.Start(ctx, wg); err != nil {
			appLogger.Critical("Failed to start scheduler %s: %v", s.Name, err)
		}
	}

	appLogger.Info("All refresh schedulers running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	for _, s := range schedulers {
		if err := s.Stop(); err != nil {
			appLogger.Warning("Scheduler %s: %v", s.Name, err)
		}
	}
	cancel()
	wg.Wait()
	appLogger.Info("Shutdown complete.")
}

// -----------------------------------------------------------------------------

// buildSchedulers wires one polling loop per view: dashboard (global
// snapshot), markets (first page), portfolio (top coins for price joins) and
// the ticker strip (top coins pushed over the websocket).
func buildSchedulers(conf *models.MConfig, interval time.Duration,
	source interfaces.IMarketSource, marketCache *cache.MarketCache,
	exchanger interfaces.IDataExchanger) []*scheduler.RefreshScheduler {

	dashboard := scheduler.NewRefreshScheduler("dashboard", interval, func(ctx context.Context) error {
		snap, err := source.FetchGlobalSnapshot(ctx)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		marketCache.SetGlobal(snap)
		return nil
	})

	markets := scheduler.NewRefreshScheduler("markets", interval, func(ctx context.Context) error {
		coins, err := source.FetchCoins(ctx, 1, conf.Refresh.MarketsPerPage)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		marketCache.SetCoins(server.MarketsView(1), coins)
		return nil
	})

	portfolio := scheduler.NewRefreshScheduler("portfolio", interval, func(ctx context.Context) error {
		coins, err := source.FetchCoins(ctx, 1, conf.Refresh.PortfolioPerPage)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		marketCache.SetCoins(server.ViewPortfolio, coins)
		return nil
	})

	ticker := scheduler.NewRefreshScheduler("ticker", interval, func(ctx context.Context) error {
		coins, err := source.FetchCoins(ctx, 1, conf.Refresh.TickerPerPage)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		marketCache.SetCoins(server.ViewTicker, coins)
		exchanger.BroadcastTicker(models.MTickerUpdate{
			Coins:     coins,
			Timestamp: time.Now().Unix(),
		})
		return nil
	})

	return []*scheduler.RefreshScheduler{dashboard, markets, portfolio, ticker}
}
