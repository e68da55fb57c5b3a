package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Remote      RemoteConfig      `mapstructure:"remote"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Browse      BrowseConfig      `mapstructure:"browse"`
	Collections CollectionsConfig `mapstructure:"collections"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Opener      OpenerConfig      `mapstructure:"opener"`
}

// CatalogConfig holds movie catalog (TMDB) configuration
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"` // v3 key or v4 read access token
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Attempts          uint          `mapstructure:"attempts"`
}

// RemoteConfig holds the session/user-data backend configuration
type RemoteConfig struct {
	URL     string        `mapstructure:"url"` // Empty runs offline
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig holds the identity used for sessions
type AuthConfig struct {
	Token       string `mapstructure:"token"`        // Identity provider token
	UserID      string `mapstructure:"user_id"`      // Last signed-in user, also the offline identity
	DisplayName string `mapstructure:"display_name"` // For display
}

// StorageConfig holds local persistence configuration
type StorageConfig struct {
	Dir           string `mapstructure:"dir"`
	MaxValueBytes int    `mapstructure:"max_value_bytes"`
}

// BrowseConfig holds search/filter behavior
type BrowseConfig struct {
	Debounce       time.Duration `mapstructure:"debounce"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	FeaturedCount  int           `mapstructure:"featured_count"`
}

// CollectionsConfig bounds the per-user collections
type CollectionsConfig struct {
	RecentLimit  int `mapstructure:"recent_limit"`
	HistoryLimit int `mapstructure:"history_limit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// OpenerConfig selects the program that opens trailer and poster links
type OpenerConfig struct {
	Command string   `mapstructure:"command"` // Empty uses the system default
	Args    []string `mapstructure:"args"`
}

// DefaultUserID is the identity used when no one has signed in
const DefaultUserID = "local"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 20,
			Attempts:          2,
		},
		Remote: RemoteConfig{
			Timeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			UserID: DefaultUserID,
		},
		Storage: StorageConfig{
			Dir:           defaultDataPath(),
			MaxValueBytes: 5 << 20,
		},
		Browse: BrowseConfig{
			Debounce:       600 * time.Millisecond,
			RequestTimeout: 20 * time.Second,
			FeaturedCount:  5,
		},
		Collections: CollectionsConfig{
			RecentLimit:  20,
			HistoryLimit: 20,
		},
		Logging: LoggingConfig{
			File:       filepath.Join(defaultDataPath(), "moviehub.log"),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// defaultDataPath returns the per-user data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "moviehub")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "moviehub")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "moviehub")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "moviehub")
	}
}

// setDefaults registers every default with viper so env overrides apply
// to keys that are absent from the config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("catalog.base_url", cfg.Catalog.BaseURL)
	v.SetDefault("catalog.api_key", cfg.Catalog.APIKey)
	v.SetDefault("catalog.timeout", cfg.Catalog.Timeout)
	v.SetDefault("catalog.requests_per_second", cfg.Catalog.RequestsPerSecond)
	v.SetDefault("catalog.attempts", cfg.Catalog.Attempts)
	v.SetDefault("remote.url", cfg.Remote.URL)
	v.SetDefault("remote.timeout", cfg.Remote.Timeout)
	v.SetDefault("auth.token", cfg.Auth.Token)
	v.SetDefault("auth.user_id", cfg.Auth.UserID)
	v.SetDefault("auth.display_name", cfg.Auth.DisplayName)
	v.SetDefault("storage.dir", cfg.Storage.Dir)
	v.SetDefault("storage.max_value_bytes", cfg.Storage.MaxValueBytes)
	v.SetDefault("browse.debounce", cfg.Browse.Debounce)
	v.SetDefault("browse.request_timeout", cfg.Browse.RequestTimeout)
	v.SetDefault("browse.featured_count", cfg.Browse.FeaturedCount)
	v.SetDefault("collections.recent_limit", cfg.Collections.RecentLimit)
	v.SetDefault("collections.history_limit", cfg.Collections.HistoryLimit)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("opener.command", cfg.Opener.Command)
	v.SetDefault("opener.args", cfg.Opener.Args)
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath())
}

func loadConfig(v *viper.Viper, configDir string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variable overrides: MOVIEHUB_CATALOG_API_KEY etc.
	v.SetEnvPrefix("MOVIEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Auth.UserID == "" {
		cfg.Auth.UserID = DefaultUserID
	}
	return cfg, nil
}

// SaveAuth persists the signed-in identity
func SaveAuth(auth AuthConfig) error {
	viper.Set("auth.token", auth.Token)
	viper.Set("auth.user_id", auth.UserID)
	viper.Set("auth.display_name", auth.DisplayName)
	return writeConfig(viper.GetViper(), defaultConfigPath())
}

// SaveAPIKey persists the catalog API key
func SaveAPIKey(key string) error {
	viper.Set("catalog.api_key", key)
	return writeConfig(viper.GetViper(), defaultConfigPath())
}

// ClearAuthConfig removes the stored identity while preserving other settings
func ClearAuthConfig() error {
	viper.Set("auth.token", "")
	viper.Set("auth.user_id", DefaultUserID)
	viper.Set("auth.display_name", "")
	return writeConfig(viper.GetViper(), defaultConfigPath())
}

func writeConfig(v *viper.Viper, configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if a catalog API key is set
func (c *Config) IsConfigured() bool {
	return c.Catalog.APIKey != ""
}

// RemoteEnabled returns true if a session backend is configured
func (c *Config) RemoteEnabled() bool {
	return c.Remote.URL != ""
}

// ConfigPath returns the config directory path
func ConfigPath() string {
	return defaultConfigPath()
}
