package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

const DefaultEndpoint = "https://graphql.pokeapi.co/v1beta2"

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type APIConfig struct {
	Endpoint             string        `mapstructure:"endpoint"`
	Timeout              time.Duration `mapstructure:"timeout"`
	UserAgent            string        `mapstructure:"user_agent"`
	Language             string        `mapstructure:"language"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
	RetryCount           int           `mapstructure:"retry_count"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type UIConfig struct {
	PageSize       int           `mapstructure:"page_size"`
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
	RestoreSession bool          `mapstructure:"restore_session"`
	Colors         UIColors      `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Surface   string `mapstructure:"surface"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
}

type MediaConfig struct {
	Darwin        []string `mapstructure:"darwin"`
	Linux         []string `mapstructure:"linux"`
	Windows       []string `mapstructure:"windows"`
	DefaultOpener string   `mapstructure:"default_opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit        string `mapstructure:"quit"`
	Search      string `mapstructure:"search"`
	NextPage    string `mapstructure:"next_page"`
	PrevPage    string `mapstructure:"prev_page"`
	JumpPage    string `mapstructure:"jump_page"`
	OpenArtwork string `mapstructure:"open_artwork"`
	Home        string `mapstructure:"home"`
	Back        string `mapstructure:"back"`
	Forward     string `mapstructure:"forward"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		API: APIConfig{
			Endpoint:             DefaultEndpoint,
			Timeout:              15 * time.Second,
			UserAgent:            "dex/1.0 (https://github.com/pders01/dex)",
			Language:             "en",
			MaxRequestsPerSecond: 5,
			RetryCount:           0,
		},
		Database: DatabaseConfig{
			Path:        filepath.Join(homeDir, ".dex.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(homeDir, ".dex", "index.bleve"),
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		UI: UIConfig{
			PageSize:       20,
			SearchDebounce: 300 * time.Millisecond,
			RestoreSession: true,
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Surface:   "#000E1C",
				Text:      "#FAFAFA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
			},
		},
		Media: MediaConfig{
			Darwin:        []string{"preview", "open"},
			Linux:         []string{"sxiv", "feh", "eog", "xdg-open"},
			Windows:       []string{"start"},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:        "q",
				Search:      "/",
				NextPage:    "right",
				PrevPage:    "left",
				JumpPage:    "g",
				OpenArtwork: "o",
				Home:        "h",
				Back:        "esc",
				Forward:     "f",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".dex", "dex.log"),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// DefaultPath is where Load looks when no explicit path is given and where
// generate-config writes.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "dex", "config.toml")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api", cfg.API)
	v.SetDefault("database", cfg.Database)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("media", cfg.Media)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DEX")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Decoding onto the defaults keeps fields a partial file leaves out.
	config := *defaultConfig()
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)
	normalize(&config)

	return &config, nil
}

// normalize repairs values that would break the list controller.
func normalize(cfg *Config) {
	if cfg.UI.PageSize <= 0 {
		cfg.UI.PageSize = 20
	}
	if cfg.UI.SearchDebounce < 0 {
		cfg.UI.SearchDebounce = 0
	}
	if cfg.API.Language == "" {
		cfg.API.Language = "en"
	}
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings keep the TOML readable
	apiCfg := map[string]interface{}{
		"endpoint":                config.API.Endpoint,
		"timeout":                 config.API.Timeout.String(),
		"user_agent":              config.API.UserAgent,
		"language":                config.API.Language,
		"max_requests_per_second": config.API.MaxRequestsPerSecond,
		"retry_count":             config.API.RetryCount,
	}

	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	cacheCfg := map[string]interface{}{
		"enabled": config.Cache.Enabled,
		"ttl":     config.Cache.TTL.String(),
	}

	uiCfg := map[string]interface{}{
		"page_size":       config.UI.PageSize,
		"search_debounce": config.UI.SearchDebounce.String(),
		"restore_session": config.UI.RestoreSession,
		"colors": map[string]interface{}{
			"primary":   config.UI.Colors.Primary,
			"secondary": config.UI.Colors.Secondary,
			"accent":    config.UI.Colors.Accent,
			"surface":   config.UI.Colors.Surface,
			"text":      config.UI.Colors.Text,
			"muted":     config.UI.Colors.Muted,
			"error":     config.UI.Colors.Error,
		},
	}

	mediaCfg := map[string]interface{}{
		"darwin":         config.Media.Darwin,
		"linux":          config.Media.Linux,
		"windows":        config.Media.Windows,
		"default_opener": config.Media.DefaultOpener,
	}

	b := config.Keys.Bindings
	keysCfg := map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":         b.Quit,
			"search":       b.Search,
			"next_page":    b.NextPage,
			"prev_page":    b.PrevPage,
			"jump_page":    b.JumpPage,
			"open_artwork": b.OpenArtwork,
			"home":         b.Home,
			"back":         b.Back,
			"forward":      b.Forward,
		},
	}

	logCfg := map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	}

	v.Set("api", apiCfg)
	v.Set("database", dbCfg)
	v.Set("cache", cacheCfg)
	v.Set("ui", uiCfg)
	v.Set("media", mediaCfg)
	v.Set("keys", keysCfg)
	v.Set("log", logCfg)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
