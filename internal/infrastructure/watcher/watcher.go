package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/coverart/internal/config"
)

// Watcher monitors the drop folder and forwards dropped file paths. It
// does not filter by extension: the extension gate decides, so unsupported
// files still surface a status message.
type Watcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	drops    chan string
}

func New(cfg *config.WatchConfig) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("watch dir is empty, set watch.dir in config or env")
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create watch dir %s: %w", cfg.Dir, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	debounce := time.Duration(cfg.DebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		dir:      cfg.Dir,
		debounce: debounce,
		watcher:  fsWatcher,
		drops:    make(chan string, 16),
	}, nil
}

// Start registers the drop folder and begins forwarding events. The
// registration is retried with the given strategy so the service survives
// a folder that appears slightly after startup (mounted drives).
func (w *Watcher) Start(strategy retry.Strategy) error {
	if err := w.addWithRetries(strategy); err != nil {
		return err
	}
	zlog.Logger.Info().Str("dir", w.dir).Msg("watching drop folder")

	go w.processEvents()
	return nil
}

func (w *Watcher) addWithRetries(strategy retry.Strategy) error {
	attempts := strategy.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := strategy.Delay

	var err error
	for i := 0; i < attempts; i++ {
		if err = w.watcher.Add(w.dir); err == nil {
			return nil
		}
		zlog.Logger.Warn().Err(err).Msgf("watch registration failed on attempt %d/%d", i+1, attempts)

		if i < attempts-1 {
			time.Sleep(delay)
			if strategy.Backoff > 1 {
				delay = time.Duration(float64(delay) * strategy.Backoff)
			}
		}
	}

	return fmt.Errorf("failed to watch %s after %d attempts: %w", w.dir, attempts, err)
}

// processEvents debounces rapid successive events per path (editors and
// file managers emit create+write bursts) and forwards settled paths.
func (w *Watcher) processEvents() {
	debounce := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			// Skip temp/hidden files.
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}

			if timer, exists := debounce[event.Name]; exists {
				timer.Stop()
			}

			name := event.Name
			debounce[name] = time.AfterFunc(w.debounce, func() {
				w.forward(name)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			zlog.Logger.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) forward(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	zlog.Logger.Info().Str("path", path).Msg("file dropped")
	w.drops <- path
}

// Drops returns the channel of dropped file paths.
func (w *Watcher) Drops() <-chan string {
	return w.drops
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
