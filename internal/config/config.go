package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mmcdole/cookie/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	UI      UIConfig      `mapstructure:"ui"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds the API server and session
type ServerConfig struct {
	URL          string `mapstructure:"url"`
	Token        string `mapstructure:"token"`
	RefreshToken string `mapstructure:"refresh_token"`
	Nickname     string `mapstructure:"nickname"` // display only
	Admin        bool   `mapstructure:"admin"`
}

// APIConfig holds HTTP client settings
type APIConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	PageSize  int           `mapstructure:"page_size"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second
	UserAgent string        `mapstructure:"user_agent"`
}

// UIConfig holds TUI configuration
type UIConfig struct {
	PrefetchThreshold int    `mapstructure:"prefetch_threshold"` // rows from the end that trigger the next page
	DefaultSearchType string `mapstructure:"default_search_type"`
}

// CacheConfig holds the on-disk cache settings. An empty Dir keeps the cache in memory.
type CacheConfig struct {
	Dir string        `mapstructure:"dir"`
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Timeout:   15 * time.Second,
			PageSize:  10,
			RateLimit: 5,
			UserAgent: "Cookie/2.0",
		},
		UI: UIConfig{
			PrefetchThreshold: 3,
			DefaultSearchType: string(domain.SearchMovie),
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
			TTL: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			File:   defaultLogPath(),
			Level:  "INFO",
			Format: "json",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cookie", "cookie.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cookie", "cookie.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cookie")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cookie")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "cookie", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cookie", "cache")
	}
}

// Manager loads and persists configuration through its own viper instance
type Manager struct {
	v   *viper.Viper
	dir string
}

// NewManager creates a manager rooted at dir. An empty dir uses the OS default.
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = defaultConfigPath()
	}
	return &Manager{v: viper.New(), dir: dir}
}

// Dir returns the config directory
func (m *Manager) Dir() string {
	return m.dir
}

// File returns the path of the config file written by Save
func (m *Manager) File() string {
	return filepath.Join(m.dir, "config.yaml")
}

// Load reads .env, the config file and COOKIE_* environment overrides
func (m *Manager) Load() (*Config, error) {
	// A missing .env is fine
	_ = godotenv.Load()

	cfg := DefaultConfig()
	setDefaults(m.v, cfg)

	m.v.SetConfigName("config")
	m.v.SetConfigType("yaml")
	m.v.AddConfigPath(m.dir)
	m.v.AddConfigPath(".")

	// Environment variable overrides, e.g. COOKIE_SERVER_URL
	m.v.SetEnvPrefix("COOKIE")
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.v.AutomaticEnv()

	if err := m.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := m.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the file
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.url", cfg.Server.URL)
	v.SetDefault("server.token", cfg.Server.Token)
	v.SetDefault("server.refresh_token", cfg.Server.RefreshToken)
	v.SetDefault("server.nickname", cfg.Server.Nickname)
	v.SetDefault("server.admin", cfg.Server.Admin)

	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.page_size", cfg.API.PageSize)
	v.SetDefault("api.rate_limit", cfg.API.RateLimit)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)

	v.SetDefault("ui.prefetch_threshold", cfg.UI.PrefetchThreshold)
	v.SetDefault("ui.default_search_type", cfg.UI.DefaultSearchType)

	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

// Validate checks values that would otherwise fail deep inside the app
func (c *Config) Validate() error {
	if _, err := domain.ParseSearchType(c.UI.DefaultSearchType); err != nil {
		return fmt.Errorf("ui.default_search_type: %w", err)
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("%w: api.page_size must be positive", domain.ErrInvalidInput)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("%w: logging.format %q", domain.ErrInvalidInput, c.Logging.Format)
	}
	return nil
}

// Save writes the full configuration to the config file
func (m *Manager) Save(cfg *Config) error {
	// Set fields individually to ensure correct key names (snake_case)
	m.v.Set("server.url", cfg.Server.URL)
	m.v.Set("server.token", cfg.Server.Token)
	m.v.Set("server.refresh_token", cfg.Server.RefreshToken)
	m.v.Set("server.nickname", cfg.Server.Nickname)
	m.v.Set("server.admin", cfg.Server.Admin)

	m.v.Set("api.timeout", cfg.API.Timeout.String())
	m.v.Set("api.page_size", cfg.API.PageSize)
	m.v.Set("api.rate_limit", cfg.API.RateLimit)
	m.v.Set("api.user_agent", cfg.API.UserAgent)

	m.v.Set("ui.prefetch_threshold", cfg.UI.PrefetchThreshold)
	m.v.Set("ui.default_search_type", cfg.UI.DefaultSearchType)

	m.v.Set("cache.dir", cfg.Cache.Dir)
	m.v.Set("cache.ttl", cfg.Cache.TTL.String())

	m.v.Set("logging.file", cfg.Logging.File)
	m.v.Set("logging.level", cfg.Logging.Level)
	m.v.Set("logging.format", cfg.Logging.Format)

	return m.write()
}

// SaveSession stores the credentials of a successful login
func (m *Manager) SaveSession(s domain.Session) error {
	m.v.Set("server.token", s.AccessToken)
	m.v.Set("server.refresh_token", s.RefreshToken)
	m.v.Set("server.nickname", s.Nickname)
	m.v.Set("server.admin", s.Admin)
	return m.write()
}

// ClearSession removes the stored credentials while keeping the server URL and
// other settings
func (m *Manager) ClearSession() error {
	return m.SaveSession(domain.Session{})
}

func (m *Manager) write() error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := m.v.WriteConfigAs(m.File()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if the server URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}

// SearchType returns the parsed default search tab
func (c *Config) SearchType() domain.SearchType {
	t, err := domain.ParseSearchType(c.UI.DefaultSearchType)
	if err != nil {
		return domain.SearchMovie
	}
	return t
}

// ClearCache removes all cached data under dir
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
