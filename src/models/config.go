package models

// MConfig Structure
type MConfig struct {
	Name     string          `yaml:"name"`
	Host     string          `yaml:"host"`
	Port     int             `yaml:"port"`
	LogLevel string          `yaml:"log_level"`
	Storage  MStorageConfig  `yaml:"storage"`
	Network  MNetworkConfig  `yaml:"network"`
	Provider MProviderConfig `yaml:"provider"`
	Refresh  MRefreshConfig  `yaml:"refresh"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MNetworkConfig struct {
	RequestTimeout int    `yaml:"timeout"`
	UserAgent      string `yaml:"user_agent"`
}

type MProviderConfig struct {
	BaseURL    string `yaml:"base_url"`
	VsCurrency string `yaml:"vs_currency"`
}

// MRefreshConfig holds the per-view polling settings. Every view polls on its
// own independent interval; the page sizes mirror what each view displays.
type MRefreshConfig struct {
	IntervalSeconds  int `yaml:"interval_seconds"`
	MarketsPerPage   int `yaml:"markets_per_page"`
	PortfolioPerPage int `yaml:"portfolio_per_page"`
	TickerPerPage    int `yaml:"ticker_per_page"`
	DominanceTopN    int `yaml:"dominance_top_n"`
}
