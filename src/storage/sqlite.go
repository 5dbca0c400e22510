package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Massinr/cryptotracker/src/logger"
	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// SQLiteStateDB
//
// Default persistence backend: a single local database file holding the
// whole store state. Save rewrites everything in one transaction, matching
// the snapshot semantics of the state (partial writes never survive).
// -----------------------------------------------------------------------------

type SQLiteStateDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteStateDB(cfg *models.MConfig, log *logger.Logger) (*SQLiteStateDB, error) {
	return &SQLiteStateDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStateDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteStateDB) createTables() error {
	// The coin snapshot is flattened into columns so the round-trip is
	// lossless without a serialization format inside the row.
	query := `
		CREATE TABLE IF NOT EXISTS portfolio_items (
			id TEXT PRIMARY KEY,
			position INTEGER,
			quantity REAL,
			buy_price REAL,
			coin_id TEXT,
			coin_symbol TEXT,
			coin_name TEXT,
			coin_image TEXT,
			coin_price REAL,
			coin_market_cap REAL,
			coin_rank INTEGER,
			coin_change_24h REAL,
			coin_volume REAL
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create portfolio_items: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS favorite_coins (
			coin_id TEXT PRIMARY KEY,
			position INTEGER
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create favorite_coins: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create preferences: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStateDB) Save(state models.MStoreState) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Wholesale replace
	if _, err := tx.Exec("DELETE FROM portfolio_items"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM favorite_coins"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO portfolio_items
			(id, position, quantity, buy_price, coin_id, coin_symbol, coin_name,
			 coin_image, coin_price, coin_market_cap, coin_rank, coin_change_24h, coin_volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, item := range state.Portfolio {
		_, err := stmt.Exec(item.ID, i, item.Quantity, item.BuyPrice,
			item.Coin.ID, item.Coin.Symbol, item.Coin.Name, item.Coin.Image,
			item.Coin.CurrentPrice, item.Coin.MarketCap, item.Coin.MarketCapRank,
			item.Coin.PriceChangePct24h, item.Coin.TotalVolume)
		if err != nil {
			return err
		}
	}

	favStmt, err := tx.Prepare("INSERT INTO favorite_coins (coin_id, position) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer favStmt.Close()

	for i, id := range state.FavoriteCoins {
		if _, err := favStmt.Exec(id, i); err != nil {
			return err
		}
	}

	darkMode := "0"
	if state.DarkMode {
		darkMode = "1"
	}
	query := `
		INSERT INTO preferences (key, value) VALUES ('dark_mode', ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	if _, err := tx.Exec(query, darkMode); err != nil {
		return err
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *SQLiteStateDB) Load() (models.MStoreState, error) {
	var state models.MStoreState

	rows, err := d.DB.Query(`
		SELECT id, quantity, buy_price, coin_id, coin_symbol, coin_name,
		       coin_image, coin_price, coin_market_cap, coin_rank,
		       coin_change_24h, coin_volume
		FROM portfolio_items ORDER BY position
	`)
	if err != nil {
		return state, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MPortfolioItem
		err := rows.Scan(&item.ID, &item.Quantity, &item.BuyPrice,
			&item.Coin.ID, &item.Coin.Symbol, &item.Coin.Name, &item.Coin.Image,
			&item.Coin.CurrentPrice, &item.Coin.MarketCap, &item.Coin.MarketCapRank,
			&item.Coin.PriceChangePct24h, &item.Coin.TotalVolume)
		if err != nil {
			return state, err
		}
		state.Portfolio = append(state.Portfolio, item)
	}
	if err := rows.Err(); err != nil {
		return state, err
	}

	favRows, err := d.DB.Query("SELECT coin_id FROM favorite_coins ORDER BY position")
	if err != nil {
		return state, err
	}
	defer favRows.Close()

	for favRows.Next() {
		var id string
		if err := favRows.Scan(&id); err != nil {
			return state, err
		}
		state.FavoriteCoins = append(state.FavoriteCoins, id)
	}
	if err := favRows.Err(); err != nil {
		return state, err
	}

	var darkMode string
	err = d.DB.QueryRow("SELECT value FROM preferences WHERE key = 'dark_mode'").Scan(&darkMode)
	if err != nil && err != sql.ErrNoRows {
		return state, err
	}
	state.DarkMode = darkMode == "1"

	return state, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteStateDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
