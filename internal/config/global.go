package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/imgajeed76/gridview/internal/grid"
)

// GlobalConfig represents user-wide gridview settings stored in the user's
// config directory. Every value can be overridden by a GRIDVIEW_* variable.
type GlobalConfig struct {
	Display DisplayConfig `toml:"display"`
	Export  ExportConfig  `toml:"export"`
	Log     LogConfig     `toml:"log"`
	DB      DBConfig      `toml:"db"`
}

// DisplayConfig controls how grids are rendered.
type DisplayConfig struct {
	PageSize int    `toml:"page_size" config:"display.page_size" default:"10" min:"1" max:"1000" desc:"Rows per page" env:"GRIDVIEW_PAGE_SIZE"`
	ColWidth int    `toml:"col_width" config:"display.col_width" default:"40" min:"4" max:"500" desc:"Maximum column width in characters" env:"GRIDVIEW_COL_WIDTH"`
	NoColor  string `toml:"no_color" config:"display.no_color" default:"false" desc:"Disable colored output (true/false)" env:"GRIDVIEW_NO_COLOR"`
}

// ExportConfig controls where exports land.
type ExportConfig struct {
	Dir    string `toml:"dir" config:"export.dir" default:"." desc:"Directory for exported files" env:"GRIDVIEW_EXPORT_DIR"`
	Format string `toml:"format" config:"export.format" default:"csv" desc:"Default export format (csv/json)" env:"GRIDVIEW_EXPORT_FORMAT"`
}

// LogConfig controls the diagnostic log.
type LogConfig struct {
	File  string `toml:"file" config:"log.file" desc:"Log file (empty = no logging)" env:"GRIDVIEW_LOG_FILE"`
	Level string `toml:"level" config:"log.level" default:"info" desc:"Log level (debug/info/warn/error)" env:"GRIDVIEW_LOG_LEVEL"`
}

// DBConfig contains PostgreSQL settings for `gridview sql`.
type DBConfig struct {
	URL     string `toml:"url" config:"db.url" desc:"Default PostgreSQL connection URL" env:"GRIDVIEW_DB_URL"`
	Timeout int    `toml:"timeout" config:"db.timeout" default:"30" min:"1" max:"3600" desc:"Query timeout in seconds" env:"GRIDVIEW_DB_TIMEOUT"`
}

// DefaultGlobalConfig returns a new global config with default values.
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Display: DisplayConfig{
			PageSize: grid.DefaultPageSize,
			ColWidth: 40,
			NoColor:  "false",
		},
		Export: ExportConfig{
			Dir:    ".",
			Format: string(grid.FormatCSV),
		},
		Log: LogConfig{
			Level: "info",
		},
		DB: DBConfig{
			Timeout: 30,
		},
	}
}

// GlobalConfigPath returns the path to the global config file.
// Follows XDG Base Directory spec on Linux, platform conventions elsewhere.
func GlobalConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, "Library", "Application Support", "gridview")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "gridview")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "gridview")
		} else {
			home, _ := os.UserHomeDir()
			configDir = filepath.Join(home, ".config", "gridview")
		}
	}

	return filepath.Join(configDir, "config.toml")
}

// LoadGlobal reads the global config file and applies environment overrides.
// A missing file yields the defaults.
func LoadGlobal() (*GlobalConfig, error) {
	return LoadGlobalFrom(GlobalConfigPath())
}

// LoadGlobalFrom is LoadGlobal for an explicit path.
func LoadGlobalFrom(configPath string) (*GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults restores zero values that have no meaning.
func (c *GlobalConfig) applyDefaults() {
	defaults := DefaultGlobalConfig()

	if c.Display.PageSize < 1 {
		c.Display.PageSize = defaults.Display.PageSize
	}
	if c.Display.ColWidth < 4 {
		c.Display.ColWidth = defaults.Display.ColWidth
	}
	if c.Export.Dir == "" {
		c.Export.Dir = defaults.Export.Dir
	}
	if c.Export.Format == "" {
		c.Export.Format = defaults.Export.Format
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.DB.Timeout == 0 {
		c.DB.Timeout = defaults.DB.Timeout
	}
}

// ColorDisabled reports whether display.no_color is set.
func (c *GlobalConfig) ColorDisabled() bool {
	switch c.Display.NoColor {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// SaveTo writes the config to an explicit path.
func (c *GlobalConfig) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// GetValue returns a global config value by key.
func (c *GlobalConfig) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a global config value by key, validating ints against the
// min/max tags.
func (c *GlobalConfig) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}
