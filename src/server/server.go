package server

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Massinr/cryptotracker/src/cache"
	"github.com/Massinr/cryptotracker/src/helpers"
	"github.com/Massinr/cryptotracker/src/interfaces"
	"github.com/Massinr/cryptotracker/src/logger"
	"github.com/Massinr/cryptotracker/src/models"
	"github.com/Massinr/cryptotracker/src/store"
	"github.com/Massinr/cryptotracker/src/valuation"
)

// -----------------------------------------------------------------------------
// APIServer
//
// Presentation boundary: renders the market cache and valuation outputs as
// JSON and routes portfolio mutations into the store. Fetch failures are
// converted to display-level error responses here; nothing in a handler can
// take the process down.
// -----------------------------------------------------------------------------

// Cache slice names, one per view.
const (
	ViewMarkets   = "markets"
	ViewPortfolio = "portfolio"
	ViewTicker    = "ticker"
)

type APIServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	Store  *store.PortfolioStore
	Cache  *cache.MarketCache
	Source interfaces.IMarketSource
	engine *gin.Engine

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MTickerUpdate
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	// Latest ticker push, replayed to clients on connect
	latestTicker *models.MTickerUpdate
	stateMutex   sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *models.MConfig, log *logger.Logger, st *store.PortfolioStore,
	mc *cache.MarketCache, source interfaces.IMarketSource) *APIServer {

	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &APIServer{
		Config:     cfg,
		Logger:     log,
		Store:      st,
		Cache:      mc,
		Source:     source,
		engine:     gin.Default(),
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan *models.MTickerUpdate, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		latestTicker: &models.MTickerUpdate{
			Type:  "INITIAL",
			Coins: []models.MCoin{},
		},
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// setup web routes
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	// REST API endpoints
	s.engine.GET("/api/dashboard", s.getDashboard)
	s.engine.GET("/api/markets", s.getMarkets)
	s.engine.GET("/api/portfolio", s.getPortfolio)
	s.engine.POST("/api/portfolio", s.postHolding)
	s.engine.PUT("/api/portfolio/:id", s.putHolding)
	s.engine.DELETE("/api/portfolio/:id", s.deleteHolding)
	s.engine.POST("/api/favorites/:coinId/toggle", s.postToggleFavorite)
	s.engine.PUT("/api/preferences/darkmode", s.putDarkMode)
	s.engine.GET("/api/search", s.getSearch)
	s.engine.GET("/api/health", s.getHealth)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

// Stop shuts down the hub loop. Safe to call more than once; the client
// channels stay open so late pump exits never send on a closed channel.
func (s *APIServer) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	return nil
}

// -----------------------------------------------------------------------------
// Error Mapping
// -----------------------------------------------------------------------------

// respondFetchError translates the fetch error taxonomy into a view message.
// Rate limits get the explicit wait guidance, everything else the generic
// retry-later message.
func (s *APIServer) respondFetchError(c *gin.Context, err error) {
	if helpers.IsRateLimit(err) {
		c.JSON(429, gin.H{"error": "Rate limit exceeded. Please try again in a minute."})
		return
	}
	s.Logger.Info("Fetch failed at view boundary: %v", err)
	c.JSON(503, gin.H{"error": "Failed to fetch cryptocurrency data. Please try again later."})
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getDashboard(c *gin.Context) {
	snap, ok := s.Cache.Global()
	if !ok {
		c.JSON(503, gin.H{"error": "No market data available"})
		return
	}

	c.JSON(200, gin.H{
		"snapshot":  snap,
		"dominance": valuation.TopDominanceAssets(snap, s.Config.Refresh.DominanceTopN),
	})
}

// -----------------------------------------------------------------------------

type marketRow struct {
	models.MCoin
	IsFavorite bool `json:"is_favorite"`
}

func (s *APIServer) getMarkets(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	coins := s.Cache.Coins(MarketsView(page))
	if coins == nil {
		// Page not covered by the markets scheduler; fetch it on demand.
		coins, err = s.Source.FetchCoins(c.Request.Context(), page, s.Config.Refresh.MarketsPerPage)
		if err != nil {
			s.respondFetchError(c, err)
			return
		}
		s.Cache.SetCoins(MarketsView(page), coins)
	}

	derived := valuation.FilterAndSort(coins,
		c.Query("query"),
		valuation.SortField(c.DefaultQuery("sort", string(valuation.SortByRank))),
		valuation.SortOrder(c.DefaultQuery("order", string(valuation.SortAsc))))

	rows := make([]marketRow, 0, len(derived))
	for _, coin := range derived {
		rows = append(rows, marketRow{MCoin: coin, IsFavorite: s.Store.IsFavorite(coin.ID)})
	}

	c.JSON(200, gin.H{
		"page":  page,
		"coins": rows,
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getPortfolio(c *gin.Context) {
	coins := s.Cache.Coins(ViewPortfolio)
	idx := valuation.NewPriceIndex(coins)
	state := s.Store.Snapshot()

	c.JSON(200, valuation.Summarize(idx, state.Portfolio))
}

// -----------------------------------------------------------------------------

type addHoldingRequest struct {
	CoinID   string   `json:"coin_id"`
	Quantity float64  `json:"quantity"`
	BuyPrice *float64 `json:"buy_price"`
}

// postHolding adds a lot for a coin currently known to the cache. The buy
// price defaults to the displayed (cached) price when omitted, as the add
// dialog prefilled it.
func (s *APIServer) postHolding(c *gin.Context) {
	var req addHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	coin, ok := s.lookupCachedCoin(req.CoinID)
	if !ok {
		c.JSON(404, gin.H{"error": fmt.Sprintf("unknown coin: %s", req.CoinID)})
		return
	}

	buyPrice := coin.CurrentPrice
	if req.BuyPrice != nil {
		buyPrice = *req.BuyPrice
	}

	item, err := s.Store.AddHolding(coin, req.Quantity, buyPrice)
	if err != nil {
		s.respondMutationError(c, err)
		return
	}

	c.JSON(201, item)
}

// -----------------------------------------------------------------------------

type updateHoldingRequest struct {
	Quantity float64 `json:"quantity"`
	BuyPrice float64 `json:"buy_price"`
}

func (s *APIServer) putHolding(c *gin.Context) {
	var req updateHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.Store.UpdateHolding(c.Param("id"), req.Quantity, req.BuyPrice); err != nil {
		s.respondMutationError(c, err)
		return
	}

	c.JSON(200, gin.H{"status": "ok"})
}

// -----------------------------------------------------------------------------

func (s *APIServer) deleteHolding(c *gin.Context) {
	if err := s.Store.RemoveHolding(c.Param("id")); err != nil {
		s.respondMutationError(c, err)
		return
	}
	c.JSON(200, gin.H{"status": "ok"})
}

// -----------------------------------------------------------------------------

func (s *APIServer) postToggleFavorite(c *gin.Context) {
	if err := s.Store.ToggleFavorite(c.Param("coinId")); err != nil {
		s.respondMutationError(c, err)
		return
	}
	c.JSON(200, gin.H{"favorite": s.Store.IsFavorite(c.Param("coinId"))})
}

// -----------------------------------------------------------------------------

type darkModeRequest struct {
	DarkMode bool `json:"dark_mode"`
}

func (s *APIServer) putDarkMode(c *gin.Context) {
	var req darkModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.Store.SetDarkMode(req.DarkMode); err != nil {
		s.respondMutationError(c, err)
		return
	}
	c.JSON(200, gin.H{"dark_mode": req.DarkMode})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getSearch(c *gin.Context) {
	query := c.Query("query")
	if strings.TrimSpace(query) == "" {
		c.JSON(400, gin.H{"error": "query parameter is required"})
		return
	}

	coins, err := s.Source.SearchCoins(c.Request.Context(), query)
	if err != nil {
		s.respondFetchError(c, err)
		return
	}

	c.JSON(200, gin.H{"coins": coins})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := len(s.clients)
	timestamp := s.latestTicker.Timestamp
	s.stateMutex.RUnlock()

	c.JSON(200, gin.H{
		"status":        "ok",
		"connections":   connections,
		"latest_update": timestamp,
	})
}

// -----------------------------------------------------------------------------
// Helper Methods
// -----------------------------------------------------------------------------

// respondMutationError maps store errors: validation failures carry the
// structured detail, persistence failures surface as a server error.
func (s *APIServer) respondMutationError(c *gin.Context, err error) {
	if helpers.IsValidation(err) {
		c.JSON(422, gin.H{"error": err.Error()})
		return
	}
	s.Logger.Error("Store mutation failed: %v", err)
	c.JSON(500, gin.H{"error": "failed to persist change"})
}

// -----------------------------------------------------------------------------

// MarketsView names the cache slice for one markets page.
func MarketsView(page int) string {
	return fmt.Sprintf("%s-p%d", ViewMarkets, page)
}

// -----------------------------------------------------------------------------

// lookupCachedCoin searches every cached view slice for a coin id, so a coin
// rendered on any markets page can be added to the portfolio. The portfolio
// view is checked first as it carries the freshest prices for top-ranked
// coins.
func (s *APIServer) lookupCachedCoin(coinID string) (models.MCoin, bool) {
	for _, coin := range s.Cache.Coins(ViewPortfolio) {
		if coin.ID == coinID {
			return coin, true
		}
	}

	for _, view := range s.Cache.Views() {
		if view == ViewPortfolio {
			continue
		}
		for _, coin := range s.Cache.Coins(view) {
			if coin.ID == coinID {
				return coin, true
			}
		}
	}
	return models.MCoin{}, false
}
