// internal/config/config.go
//
// This package handles configuration and the .bakar directory structure.
// The till keeps its config and logs in a .bakar/ folder under the project
// directory (the current directory, BAKAR_HOME or --dir).

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/bakar/internal/billing"
	"github.com/kingrea/bakar/internal/money"
	"github.com/kingrea/bakar/internal/settings"
)

const (
	// Dir is the name of the directory we create in each project
	Dir = ".bakar"

	// EnvHome selects the project directory when --dir is not given.
	EnvHome = "BAKAR_HOME"

	defaultTick = time.Second
)

const defaultProjectConfigYAML = `# bakar till configuration
version: 1

cafe_name: "BAKAR PS & CAFÉ"

currency:
  code: EGP
  label: "ج.م"
  locale: ar-EG

# Bootstrap passcode for guarded actions. Change it from the settings tab;
# the running till keeps only a hash.
passcode: "1234"

# How often the device timers redraw.
tick: 1s

# Hourly price presets per usage type. A device picks up the preset when its
# usage changes and no price has been typed yet.
rates:
  PS4: 20
  PS5: 30
  movie: 40
  session: 25

# The café's fixed devices. Kinds are room or console.
devices:
  - {id: room1, name: Room 1, kind: room}
  - {id: room2, name: Room 2, kind: room}
  - {id: room3, name: Room 3, kind: room}
  - {id: ps1, name: PS 1, kind: console}
  - {id: ps2, name: PS 2, kind: console}
  - {id: ps3, name: PS 3, kind: console}
`

// DeviceConfig declares one device.
type DeviceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
	Kind string `yaml:"kind"`
}

// CurrencyConfig controls how amounts are shown.
type CurrencyConfig struct {
	Code   string `yaml:"code"`
	Label  string `yaml:"label"`
	Locale string `yaml:"locale,omitempty"`
}

// ProjectConfig models .bakar/config.yaml.
type ProjectConfig struct {
	Version  int               `yaml:"version"`
	CafeName string            `yaml:"cafe_name"`
	Currency CurrencyConfig    `yaml:"currency"`
	Passcode string            `yaml:"passcode"`
	Tick     string            `yaml:"tick"`
	Rates    map[string]string `yaml:"rates,omitempty"`
	Devices  []DeviceConfig    `yaml:"devices"`
}

// Config holds the runtime configuration for the till.
type Config struct {
	// ProjectDir is the directory .bakar lives in
	ProjectDir string

	// BakarDir is ProjectDir/.bakar
	BakarDir string

	Project ProjectConfig
}

// ResolveProjectDir picks the project directory: the flag value, then
// BAKAR_HOME, then the working directory.
func ResolveProjectDir(flagValue string) (string, error) {
	dir := strings.TrimSpace(flagValue)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(EnvHome))
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("config: working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", dir, err)
	}
	return abs, nil
}

// InitDir creates the .bakar directory structure in the given project directory.
//
// Structure created:
// .bakar/
// ├── config.yaml
// └── logs/         <- process log and the till journal
func InitDir(projectDir string) error {
	bakarDir := filepath.Join(projectDir, Dir)
	if err := os.MkdirAll(filepath.Join(bakarDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", bakarDir, err)
	}
	return ensureProjectConfig(filepath.Join(bakarDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		BakarDir:   filepath.Join(projectDir, Dir),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.BakarDir, "logs")
}

// ProcessLogPath is where the zap process log goes.
func (c *Config) ProcessLogPath() string {
	return filepath.Join(c.LogsDir(), "bakar.log")
}

// JournalPath is where the till journal goes.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journal.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.BakarDir, "config.yaml")
}

// TickInterval is the timer redraw interval.
func (c *Config) TickInterval() time.Duration {
	d, err := time.ParseDuration(c.Project.Tick)
	if err != nil || d <= 0 {
		return defaultTick
	}
	return d
}

// DeviceSpecs converts the device list for the billing panel.
func (c *Config) DeviceSpecs() []billing.Spec {
	out := make([]billing.Spec, 0, len(c.Project.Devices))
	for _, d := range c.Project.Devices {
		out = append(out, billing.Spec{ID: d.ID, Name: d.Name, Kind: billing.Kind(d.Kind)})
	}
	return out
}

// RatePresets returns the hourly price presets by usage.
func (c *Config) RatePresets() map[billing.Usage]money.Amount {
	out := make(map[billing.Usage]money.Amount, len(c.Project.Rates))
	for usage, text := range c.Project.Rates {
		if u, ok := parseUsage(usage); ok {
			if amount, err := money.Parse(text); err == nil {
				out[u] = amount
			}
		}
	}
	return out
}

// Formatter builds the amount formatter for the configured currency.
func (c *Config) Formatter() (*money.Formatter, error) {
	cur := c.Project.Currency
	return money.NewFormatter(cur.Locale, cur.Code, cur.Label)
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return nil, fmt.Errorf("config: encode config: %w", err)
	}
	return data, nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	var pc ProjectConfig
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.CafeName) == "" {
		pc.CafeName = settings.DefaultCafeName
	}
	if strings.TrimSpace(pc.Currency.Code) == "" {
		pc.Currency.Code = money.DefaultCurrency
	}
	if strings.TrimSpace(pc.Currency.Label) == "" {
		pc.Currency.Label = settings.DefaultCurrencyLabel
	}
	if strings.TrimSpace(pc.Passcode) == "" {
		pc.Passcode = settings.DefaultPasscode
	}
	if strings.TrimSpace(pc.Tick) == "" {
		pc.Tick = defaultTick.String()
	}
	if len(pc.Devices) == 0 {
		for _, spec := range billing.DefaultSpecs() {
			pc.Devices = append(pc.Devices, DeviceConfig{ID: spec.ID, Name: spec.Name, Kind: string(spec.Kind)})
		}
	}
}

func (pc *ProjectConfig) normalize() {
	pc.CafeName = strings.TrimSpace(pc.CafeName)
	pc.Currency.Code = strings.ToUpper(strings.TrimSpace(pc.Currency.Code))
	pc.Currency.Label = strings.TrimSpace(pc.Currency.Label)
	pc.Currency.Locale = strings.TrimSpace(pc.Currency.Locale)
	pc.Passcode = strings.TrimSpace(pc.Passcode)
	pc.Tick = strings.TrimSpace(pc.Tick)
	for i := range pc.Devices {
		pc.Devices[i].ID = strings.TrimSpace(pc.Devices[i].ID)
		pc.Devices[i].Name = strings.TrimSpace(pc.Devices[i].Name)
		pc.Devices[i].Kind = strings.ToLower(strings.TrimSpace(pc.Devices[i].Kind))
	}
	for usage, text := range pc.Rates {
		pc.Rates[usage] = strings.TrimSpace(text)
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if _, err := money.NewFormatter(pc.Currency.Locale, pc.Currency.Code, pc.Currency.Label); err != nil {
		return fmt.Errorf("currency: %w", err)
	}
	if err := settings.ValidatePasscode(pc.Passcode); err != nil {
		return fmt.Errorf("passcode: %w", err)
	}
	if d, err := time.ParseDuration(pc.Tick); err != nil || d <= 0 {
		return fmt.Errorf("tick must be a positive duration, got %q", pc.Tick)
	}
	seen := map[string]bool{}
	for i, d := range pc.Devices {
		if d.ID == "" {
			return fmt.Errorf("devices[%d]: id is required", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("devices[%d]: duplicate id %q", i, d.ID)
		}
		seen[d.ID] = true
		if !billing.Kind(d.Kind).Valid() {
			return fmt.Errorf("devices[%d]: kind must be 'room' or 'console'", i)
		}
	}
	for usage, text := range pc.Rates {
		if _, ok := parseUsage(usage); !ok {
			return fmt.Errorf("rates[%s]: unknown usage", usage)
		}
		amount, err := money.Parse(text)
		if err != nil {
			return fmt.Errorf("rates[%s]: %w", usage, err)
		}
		if amount < 0 {
			return fmt.Errorf("rates[%s]: price cannot be negative", usage)
		}
	}
	return nil
}

func parseUsage(value string) (billing.Usage, bool) {
	for _, u := range billing.UsageOptions(billing.KindRoom) {
		if strings.EqualFold(string(u), strings.TrimSpace(value)) {
			return u, true
		}
	}
	return billing.UsageNone, false
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
