package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kingrea/bakar/internal/billing"
	"github.com/kingrea/bakar/internal/money"
)

func writeConfig(t *testing.T, projectDir, body string) {
	t.Helper()
	dir := filepath.Join(projectDir, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(strings.TrimSpace(body)), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", cfg.Project.Version)
	}
	if cfg.Project.CafeName != "BAKAR PS & CAFÉ" || cfg.Project.Passcode != "1234" {
		t.Fatalf("unexpected defaults: %+v", cfg.Project)
	}
	if diff := cmp.Diff(billing.DefaultSpecs(), cfg.DeviceSpecs()); diff != "" {
		t.Fatalf("device specs mismatch (-want +got):\n%s", diff)
	}
	if cfg.TickInterval() != time.Second {
		t.Fatalf("tick = %v", cfg.TickInterval())
	}
}

func TestInitDirWritesLoadableConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("InitDir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, Dir, "logs")); err != nil {
		t.Fatalf("logs dir missing: %v", err)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("default config should load: %v", err)
	}
	want := map[billing.Usage]money.Amount{
		billing.UsagePS4:     2000,
		billing.UsagePS5:     3000,
		billing.UsageMovie:   4000,
		billing.UsageSession: 2500,
	}
	if diff := cmp.Diff(want, cfg.RatePresets()); diff != "" {
		t.Fatalf("rates mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.DeviceSpecs()) != 6 {
		t.Fatalf("devices = %d", len(cfg.DeviceSpecs()))
	}
	f, err := cfg.Formatter()
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}
	if f.Label() != "ج.م" {
		t.Fatalf("label = %q", f.Label())
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	writeConfig(t, projectDir, `
version: 1
cafe_name: "  Corner Lounge "
currency:
  code: usd
  label: $
passcode: "98765"
tick: 500ms
rates:
  ps5: "35.5"
devices:
  - id: vip
    name: VIP Room
    kind: Room
`)
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Project.CafeName != "Corner Lounge" || cfg.Project.Currency.Code != "USD" {
		t.Fatalf("normalize failed: %+v", cfg.Project)
	}
	if cfg.TickInterval() != 500*time.Millisecond {
		t.Fatalf("tick = %v", cfg.TickInterval())
	}
	if got := cfg.RatePresets()[billing.UsagePS5]; got != 3550 {
		t.Fatalf("PS5 preset = %v", got)
	}
	want := []billing.Spec{{ID: "vip", Name: "VIP Room", Kind: billing.KindRoom}}
	if diff := cmp.Diff(want, cfg.DeviceSpecs()); diff != "" {
		t.Fatalf("specs mismatch (-want +got):\n%s", diff)
	}
}

func TestNewConfigValidation(t *testing.T) {
	cases := map[string]string{
		"bad kind":     "devices:\n  - {id: a, kind: arcade}",
		"duplicate id": "devices:\n  - {id: a, kind: room}\n  - {id: a, kind: console}",
		"passcode":     "passcode: \"12\"",
		"currency":     "currency:\n  code: XYZ1",
		"tick":         "tick: soon",
		"rate usage":   "rates:\n  arcade: 10",
		"rate amount":  "rates:\n  PS4: ten",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			projectDir := t.TempDir()
			writeConfig(t, projectDir, body)
			_, err := NewConfig(projectDir)
			if err == nil || !strings.HasPrefix(err.Error(), "config: ") {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}

func TestResolveProjectDir(t *testing.T) {
	flagDir := t.TempDir()
	envDir := t.TempDir()
	t.Setenv(EnvHome, envDir)
	got, err := ResolveProjectDir(flagDir)
	if err != nil || got != flagDir {
		t.Fatalf("flag dir = %q, %v", got, err)
	}
	got, err = ResolveProjectDir("")
	if err != nil || got != envDir {
		t.Fatalf("env dir = %q, %v", got, err)
	}
}

func TestYAMLRoundTripsEffectiveConfig(t *testing.T) {
	cfg, err := NewConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	data, err := cfg.YAML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "BAKAR PS") {
		t.Fatalf("yaml:\n%s", data)
	}
}

func TestLogPathsLiveUnderBakarDir(t *testing.T) {
	dir := t.TempDir()
	cfg, err := NewConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	logs := filepath.Join(dir, Dir, "logs")
	if got := cfg.ProcessLogPath(); got != filepath.Join(logs, "bakar.log") {
		t.Fatalf("process log = %s", got)
	}
	if got := cfg.JournalPath(); got != filepath.Join(logs, "journal.log") {
		t.Fatalf("journal = %s", got)
	}
}
