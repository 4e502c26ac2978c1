package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	HTTP struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"http"`
	Directory struct {
		TTLHours   int    `yaml:"ttl_hours"`
		KRXBaseURL string `yaml:"krx_base_url"`
	} `yaml:"directory"`
	Naver struct {
		FinanceBaseURL      string `yaml:"finance_base_url"`
		PollingBaseURL      string `yaml:"polling_base_url"`
		SearchAPIBaseURL    string `yaml:"search_api_base_url"`
		AutocompleteBaseURL string `yaml:"autocomplete_base_url"`
	} `yaml:"naver"`
	Yahoo struct {
		ChartBaseURL string `yaml:"chart_base_url"`
	} `yaml:"yahoo"`
	// Aliases hard-override resolution for well-known names; values are
	// either 6-digit domestic codes or foreign tickers.
	Aliases map[string]string `yaml:"aliases"`
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.Directory.TTLHours <= 0 {
		return fmt.Errorf("directory.ttl_hours must be positive, got %d", c.Directory.TTLHours)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = 10
	}
	if c.Directory.TTLHours == 0 {
		c.Directory.TTLHours = 24
	}
	if c.Directory.KRXBaseURL == "" {
		c.Directory.KRXBaseURL = "https://kind.krx.co.kr"
	}
	if c.Naver.FinanceBaseURL == "" {
		c.Naver.FinanceBaseURL = "https://finance.naver.com"
	}
	if c.Naver.PollingBaseURL == "" {
		c.Naver.PollingBaseURL = "https://polling.finance.naver.com"
	}
	if c.Naver.SearchAPIBaseURL == "" {
		c.Naver.SearchAPIBaseURL = "https://m.stock.naver.com"
	}
	if c.Naver.AutocompleteBaseURL == "" {
		c.Naver.AutocompleteBaseURL = "https://ac.stock.naver.com"
	}
	if c.Yahoo.ChartBaseURL == "" {
		c.Yahoo.ChartBaseURL = "https://query1.finance.yahoo.com"
	}
	if len(c.Aliases) == 0 {
		c.Aliases = DefaultAliases()
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// DefaultAliases covers the names looked up often enough that a remote
// search round-trip is not worth it.
func DefaultAliases() map[string]string {
	return map[string]string{
		"삼성전자": "005930",
		"LG전자": "066570",
		"테슬라":  "TSLA",
		"애플":   "AAPL",
	}
}
