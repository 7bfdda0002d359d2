// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/akima/internal/render"
	"github.com/javiermolinar/akima/internal/slot"
)

// Config holds the application configuration.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Output  OutputConfig  `toml:"output"`
	LLM     LLMConfig     `toml:"llm"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// WindowConfig holds the visible hour window.
type WindowConfig struct {
	StartHour int `toml:"start_hour" validate:"gte=0,lte=23"`
	EndHour   int `toml:"end_hour" validate:"gte=1,lte=24"`
}

// OutputConfig holds text output settings.
type OutputConfig struct {
	Template string `toml:"template" validate:"template"` // "simple", "polite", "business"
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme" validate:"oneof=mocha macchiato frappe latte light"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider" validate:"omitempty,oneof=copilot ollama lmstudio lm-studio"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url" validate:"omitempty,url"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("template", validateTemplate)
	return v
}

func validateTemplate(fl validator.FieldLevel) bool {
	_, err := render.ParseTemplate(fl.Field().String())
	return err == nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			StartHour: slot.DefaultStartHour,
			EndHour:   slot.DefaultEndHour,
		},
		Output: OutputConfig{
			Template: render.TemplateSimple.String(),
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "akima.db"
	}
	return filepath.Join(home, ".local", "share", "akima", "akima.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "akima", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// A missing .env is fine.
	_ = godotenv.Load()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.normalizeWindow()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("AKIMA_START_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AKIMA_START_HOUR: %w", err)
		}
		cfg.Window.StartHour = n
	}
	if v := os.Getenv("AKIMA_END_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AKIMA_END_HOUR: %w", err)
		}
		cfg.Window.EndHour = n
	}
	if v := os.Getenv("AKIMA_TEMPLATE"); v != "" {
		cfg.Output.Template = v
	}

	if v := os.Getenv("AKIMA_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("AKIMA_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("AKIMA_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("AKIMA_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("AKIMA_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// normalizeWindow replaces an empty or inverted window with the default one.
func (c *Config) normalizeWindow() {
	w := slot.WindowOrDefault(c.Window.StartHour, c.Window.EndHour)
	c.Window.StartHour = w.StartHour
	c.Window.EndHour = w.EndHour
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: invalid value %v (%s)", fieldName(fe.Namespace()), fe.Value(), fe.Tag())
		}
		return err
	}
	if c.Window.StartHour >= c.Window.EndHour {
		return errors.New("start_hour must be before end_hour")
	}
	return nil
}

// fieldName turns "Config.window.start_hour" into "window.start_hour".
func fieldName(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// WindowValue returns the configured window.
func (c *Config) WindowValue() slot.Window {
	return slot.WindowOrDefault(c.Window.StartHour, c.Window.EndHour)
}

// TemplateValue returns the configured template, falling back to simple.
func (c *Config) TemplateValue() render.Template {
	t, err := render.ParseTemplate(c.Output.Template)
	if err != nil {
		return render.TemplateSimple
	}
	return t
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
