package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads .bakar/config.yaml when it changes on disk.
type Watcher struct {
	projectDir string
	debounce   time.Duration
	logger     *zap.Logger
	onChange   func(*Config)
}

// NewWatcher builds a watcher for the project directory. onChange receives
// every config that loads cleanly; broken edits are logged and skipped.
func NewWatcher(projectDir string, logger *zap.Logger, onChange func(*Config)) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		projectDir: projectDir,
		debounce:   defaultDebounce,
		logger:     logger,
		onChange:   onChange,
	}
}

// Run watches until ctx is cancelled. The directory is watched rather than
// the file so editors that replace the file on save are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Join(w.projectDir, Dir)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("config: watch %s: %w", dir, err)
	}
	target := filepath.Join(dir, "config.yaml")
	w.logger.Debug("watching config", zap.String("path", target))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		case <-timer.C:
			cfg, err := NewConfig(w.projectDir)
			if err != nil {
				w.logger.Warn("config reload rejected", zap.Error(err))
				continue
			}
			w.logger.Info("config reloaded", zap.String("path", target))
			if w.onChange != nil {
				w.onChange(cfg)
			}
		}
	}
}
