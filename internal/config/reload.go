// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/vpolyany/polyansky-bot/internal/log"
)

// Holder provides hot-reloadable access to the current configuration.
// Only mutable fields (admin IDs, rate limits, log level) change on reload;
// connection-level settings require a restart.
type Holder struct {
	path    string
	current atomic.Pointer[Config]
}

// NewHolder wraps an initial configuration loaded from path.
func NewHolder(path string, cfg Config) *Holder {
	h := &Holder{path: path}
	h.current.Store(&cfg)
	return h
}

// Current returns the active configuration snapshot.
func (h *Holder) Current() Config {
	return *h.current.Load()
}

// Reload re-reads the config file and swaps in the mutable fields.
func (h *Holder) Reload() error {
	logger := log.WithComponent("config")

	next, err := Load(h.path)
	if err != nil {
		return err
	}

	prev := h.Current()
	// Immutable at runtime: keep the connection-level settings of the
	// running process.
	next.Token = prev.Token
	next.DBPath = prev.DBPath
	next.RedisAddr = prev.RedisAddr
	next.StateDir = prev.StateDir
	next.OpsListen = prev.OpsListen
	next.WebhookURL = prev.WebhookURL
	next.WebhookPath = prev.WebhookPath

	h.current.Store(&next)
	log.SetLevel(next.LogLevel)

	logger.Info().
		Str("event", "config.reloaded").
		Int("admin_ids", len(next.AdminIDs)).
		Str("log_level", next.LogLevel).
		Msg("configuration reloaded")
	return nil
}

// Watch reloads the configuration on SIGHUP or when the config file changes.
// It blocks until ctx is cancelled.
func (h *Holder) Watch(ctx context.Context) {
	logger := log.WithComponent("config")

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	var events chan fsnotify.Event
	if h.path != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Warn().Err(err).Msg("config file watcher unavailable, SIGHUP only")
		} else {
			defer watcher.Close()
			// Watch the directory: editors replace files on save.
			if err := watcher.Add(filepath.Dir(h.path)); err != nil {
				logger.Warn().Err(err).Str("path", h.path).Msg("cannot watch config directory")
			} else {
				events = make(chan fsnotify.Event, 16)
				go func() {
					for ev := range watcher.Events {
						if filepath.Clean(ev.Name) == filepath.Clean(h.path) &&
							ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
							select {
							case events <- ev:
							default:
							}
						}
					}
				}()
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info().Str("event", "config.sighup").Msg("received SIGHUP")
			if err := h.Reload(); err != nil {
				logger.Error().Err(err).Msg("config reload failed, keeping previous configuration")
			}
		case <-events:
			if err := h.Reload(); err != nil {
				logger.Error().Err(err).Msg("config reload failed, keeping previous configuration")
			}
		}
	}
}
