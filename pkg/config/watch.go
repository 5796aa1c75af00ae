package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/relaykit/relay/pkg/observability"
)

// WatchLogLevel watches the config file and applies log-level edits to the
// logger without a restart. Other settings are intentionally not reloaded:
// listeners, clients and the pipeline are built once at startup.
//
// The watch runs until ctx is cancelled. Reload errors are logged and the
// previous level stays in effect.
func WatchLogLevel(ctx context.Context, path string, logger *observability.Logger) error {
	if path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	// Watch the directory: editors replace files on save, which breaks a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}

				cfg, err := LoadConfig(path)
				if err != nil {
					logger.WithError(err).Warn("Config reload failed, keeping current log level")
					continue
				}
				logger.SetLevel(cfg.LogLevel())
				logger.Infof("Log level set to %s", cfg.LogLevel())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithError(err).Warn("Config watcher error")
			}
		}
	}()

	return nil
}
