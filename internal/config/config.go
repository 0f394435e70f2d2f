package config

import (
	"errors"
	"fmt"
	"strings"

	"dgrsdt/journals/internal/domain"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Directory DirectoryConfig `mapstructure:"directory"`
	Matcher   MatcherConfig   `mapstructure:"matcher"`
	Converter ConverterConfig `mapstructure:"converter"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
}

// DirectoryConfig holds settings for the ranking directory site
type DirectoryConfig struct {
	CategoryAURL string `mapstructure:"category_a_url"`
	CategoryBURL string `mapstructure:"category_b_url"`
	// SubcategoryURL is an optional printf template taking the subcategory id,
	// used when a selector button does not reference an in-page panel.
	SubcategoryURL string   `mapstructure:"subcategory_url"`
	Subcategories  []string `mapstructure:"subcategories"`

	Timeout              int      `mapstructure:"timeout"` // Seconds per page load
	MaxRetries           int      `mapstructure:"max_retries"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	UserAgent            string   `mapstructure:"user_agent"`
	InsecureSkipVerify   bool     `mapstructure:"insecure_skip_verify"`
	Proxies              []string `mapstructure:"proxies"`
	ProxyTestURL         string   `mapstructure:"proxy_test_url"`

	Selectors SelectorConfig `mapstructure:"selectors"`
}

// SelectorConfig holds the CSS selectors used to read directory pages
type SelectorConfig struct {
	SearchInput string `mapstructure:"search_input"`
	Row         string `mapstructure:"row"`
	Title       string `mapstructure:"title"`
	Column      string `mapstructure:"column"`
}

type MatcherConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

// ConverterConfig holds PDF table conversion settings
type ConverterConfig struct {
	InputDir        string  `mapstructure:"input_dir"`
	OutputDir       string  `mapstructure:"output_dir"`
	Workers         int     `mapstructure:"workers"`
	LineTolerance   float64 `mapstructure:"line_tolerance"`   // Fraction of font size
	CellGap         float64 `mapstructure:"cell_gap"`         // Fraction of font size
	ColumnTolerance float64 `mapstructure:"column_tolerance"` // Points
}

// DatabaseConfig holds the optional Postgres table sink
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds the optional conversion progress store
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SubcategoryOrder returns the configured Category B search order
func (c DirectoryConfig) SubcategoryOrder() []domain.SubcategoryID {
	return domain.ParseSubcategories(c.Subcategories)
}

// Load reads configuration from path, or from config.yaml in the current
// directory when path is empty, with environment variable overrides. A
// missing config.yaml is not an error; an explicitly given path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values that would otherwise fail deep inside a run
func (c *Config) Validate() error {
	if c.Directory.CategoryAURL == "" || c.Directory.CategoryBURL == "" {
		return fmt.Errorf("directory.category_a_url and directory.category_b_url are required")
	}
	if c.Matcher.Threshold <= 0 || c.Matcher.Threshold > 1 {
		return fmt.Errorf("matcher.threshold must be in (0, 1], got %v", c.Matcher.Threshold)
	}
	if c.Converter.Workers < 1 {
		return fmt.Errorf("converter.workers must be at least 1, got %d", c.Converter.Workers)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	subcategories := make([]string, 0, 8)
	for _, id := range domain.DefaultSubcategories() {
		subcategories = append(subcategories, id.String())
	}

	v.SetDefault("directory.category_a_url", "https://www.dgrsdt.dz/fr/revues_A")
	v.SetDefault("directory.category_b_url", "https://www.dgrsdt.dz/fr/revues_B")
	v.SetDefault("directory.subcategory_url", "")
	v.SetDefault("directory.subcategories", subcategories)
	v.SetDefault("directory.timeout", 60)
	v.SetDefault("directory.max_retries", 2)
	v.SetDefault("directory.max_requests_per_second", 2)
	v.SetDefault("directory.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("directory.insecure_skip_verify", false)
	v.SetDefault("directory.proxies", []string{})
	v.SetDefault("directory.proxy_test_url", "https://www.dgrsdt.dz/fr")
	v.SetDefault("directory.selectors.search_input", "input.input-search-job")
	v.SetDefault("directory.selectors.row", "ul.responsive-table li.table-row")
	v.SetDefault("directory.selectors.title", `div[data-label="Journal_Title"]`)
	v.SetDefault("directory.selectors.column", "div.col")

	v.SetDefault("matcher.threshold", 0.85)

	v.SetDefault("converter.input_dir", "./pdfs")
	v.SetDefault("converter.output_dir", "./json_out")
	v.SetDefault("converter.workers", 1)
	v.SetDefault("converter.line_tolerance", 0.5)
	v.SetDefault("converter.cell_gap", 1.0)
	v.SetDefault("converter.column_tolerance", 6.0)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "journals")
	v.SetDefault("database.user", "journals_user")
	v.SetDefault("database.password", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)

	v.SetDefault("log.level", "info")
}
