package credentials

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"solarops/pkg/logging"
)

// DefaultDebounceInterval is the time to wait after the last file event
// before notifying, so an editor-style write (create, write, rename)
// produces a single notification.
const DefaultDebounceInterval = 500 * time.Millisecond

// WatcherConfig holds configuration for the credential file watcher.
type WatcherConfig struct {
	// Store is the credential store whose token file is watched.
	Store *Store

	// Debounce overrides the notification debounce interval.
	Debounce time.Duration

	// OnChange is called after the token file changes on disk.
	// It runs on the watcher goroutine; keep it short.
	OnChange func()
}

// Watcher monitors the token file for external changes, such as a
// login or logout performed by another solarops process. On a change
// it invalidates the store's cache and invokes the OnChange hook.
type Watcher struct {
	mu      sync.Mutex
	config  WatcherConfig
	fw      *fsnotify.Watcher
	stopCh  chan struct{}
	running bool

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewWatcher creates a watcher for the given store's token file.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Debounce == 0 {
		config.Debounce = DefaultDebounceInterval
	}
	return &Watcher{config: config}
}

// Start begins watching the credential directory. The directory rather
// than the file is watched because the file may not exist yet and is
// replaced wholesale on writes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.config.Store.dir); err != nil {
		fw.Close()
		return err
	}

	w.fw = fw
	w.stopCh = make(chan struct{})
	w.running = true

	go w.loop()
	logging.Debug("Credentials", "Watching %s for token changes", w.config.Store.Path())
	return nil
}

// Stop stops the watcher. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.stopCh)
	w.fw.Close()
	w.running = false

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMu.Unlock()
}

func (w *Watcher) loop() {
	tokenPath := w.config.Store.Path()
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Name != tokenPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.scheduleNotify()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logging.Warn("Credentials", "Token watcher error: %v", err)
		case <-w.stopCh:
			return
		}
	}
}

// scheduleNotify debounces rapid successive events into one callback.
func (w *Watcher) scheduleNotify() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.config.Debounce, func() {
		w.config.Store.Invalidate()
		logging.Debug("Credentials", "Token file changed on disk, cache invalidated")
		if w.config.OnChange != nil {
			w.config.OnChange()
		}
	})
}
