package dailyflow

import (
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/dailyflow/internal/core/logging"
)

// StoreChangedMsg is sent when the watched database files change on disk.
type StoreChangedMsg struct {
	Paths []string
}

// StoreWatcher watches a sqlite database and its WAL/SHM siblings so the TUI
// can reload when another process writes tasks.
type StoreWatcher struct {
	watcher     *fsnotify.Watcher
	base        string
	debounceDur time.Duration
	log         zerolog.Logger
}

// NewStoreWatcher watches the directory holding dbPath. Returns nil if the
// directory cannot be watched.
func NewStoreWatcher(dbPath string) *StoreWatcher {
	log := logging.Component("store-watcher")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("failed to create fsnotify watcher")
		return nil
	}

	dir := filepath.Dir(dbPath)
	if err := watcher.Add(dir); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("cannot watch data directory")
		_ = watcher.Close()
		return nil
	}

	return &StoreWatcher{
		watcher:     watcher,
		base:        filepath.Base(dbPath),
		debounceDur: 250 * time.Millisecond,
		log:         log,
	}
}

// Start returns a tea.Cmd that blocks until the database changes, then
// returns a StoreChangedMsg. Re-invoke Start after handling the message to
// keep watching.
func (w *StoreWatcher) Start() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.relevant(event) {
					continue
				}

				changed := map[string]struct{}{event.Name: {}}
				debounce := time.NewTimer(w.debounceDur)

			settle:
				for {
					select {
					case e, ok := <-w.watcher.Events:
						if !ok {
							break settle
						}
						if w.relevant(e) {
							changed[e.Name] = struct{}{}
						}
						if !debounce.Stop() {
							<-debounce.C
						}
						debounce.Reset(w.debounceDur)
					case <-debounce.C:
						break settle
					}
				}

				paths := make([]string, 0, len(changed))
				for p := range changed {
					paths = append(paths, p)
				}
				w.log.Debug().Strs("paths", paths).Msg("store changed")
				return StoreChangedMsg{Paths: paths}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				w.log.Error().Err(err).Msg("watcher error")
			}
		}
	}
}

// Close stops the watcher.
func (w *StoreWatcher) Close() error {
	return w.watcher.Close()
}

func (w *StoreWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == w.base || strings.HasPrefix(name, w.base+"-")
}
