package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/Massinr/cryptotracker/src/logger"
	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// PostgresStateDB
//
// Alternative persistence backend selected with storage.db_type: postgres.
// Same wholesale-replace contract as the SQLite backend.
// -----------------------------------------------------------------------------

type PostgresStateDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresStateDB(cfg *models.MConfig, log *logger.Logger) (*PostgresStateDB, error) {
	return &PostgresStateDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresStateDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db
	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *PostgresStateDB) createTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS portfolio_items (
			id TEXT PRIMARY KEY,
			position INTEGER,
			quantity DOUBLE PRECISION,
			buy_price DOUBLE PRECISION,
			coin_id TEXT,
			coin_symbol TEXT,
			coin_name TEXT,
			coin_image TEXT,
			coin_price DOUBLE PRECISION,
			coin_market_cap DOUBLE PRECISION,
			coin_rank INTEGER,
			coin_change_24h DOUBLE PRECISION,
			coin_volume DOUBLE PRECISION
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

func (d *PostgresStateDB) Save(state models.MStoreState) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
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

	favStmt, err := tx.Prepare("INSERT INTO favorite_coins (coin_id, position) VALUES ($1, $2)")
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
		INSERT INTO preferences (key, value) VALUES ('dark_mode', $1)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	if _, err := tx.Exec(query, darkMode); err != nil {
		return err
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresStateDB) Load() (models.MStoreState, error) {
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

func (d *PostgresStateDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
