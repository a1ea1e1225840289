// Package prefs is the preference store the overview reads its behavior
// switches from. Values come from viper (defaults, an optional file, and
// programmatic Set); listeners are notified per key when a value changes.
package prefs

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"wsoverview/internal/logging"
)

// Known preference names.
const (
	WorkspacesOnlyOnPrimary = "workspaces-only-on-primary"
	DynamicWorkspaces       = "dynamic-workspaces"
	NumWorkspaces           = "num-workspaces"
)

var defaults = map[string]any{
	WorkspacesOnlyOnPrimary: true,
	DynamicWorkspaces:       true,
	NumWorkspaces:           4,
}

// ErrNotLoaded is returned by Watch when no preference file was loaded.
var ErrNotLoaded = errors.New("no preference file loaded")

// Known reports whether name is a recognized preference.
func Known(name string) bool {
	_, ok := defaults[name]
	return ok
}

type listener struct {
	fn func(name string)
}

// Store is a viper-backed preference store. The viper instance is never
// shared: file reads build a fresh one and swap it in under mu.
type Store struct {
	mu        sync.Mutex
	v         *viper.Viper
	path      string
	overrides map[string]any
	snapshot  map[string]any
	listeners map[string][]*listener
	dispatch  func(func())
	watcher   *fsnotify.Watcher
	log       *zap.Logger
}

// New creates a store holding the defaults.
func New(log *zap.Logger) *Store {
	s := &Store{
		v:         newViper(),
		overrides: make(map[string]any),
		listeners: make(map[string][]*listener),
		log:       logging.OrNop(log),
	}
	s.snapshot = s.read()
	return s
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// readFile parses path into a fresh viper holding the defaults.
func readFile(path string) (*viper.Viper, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read preferences %q: %w", path, err)
	}
	return v, nil
}

// SetDispatcher routes change notifications through dispatch, typically the
// event loop's post function. Without one, listeners run inline.
func (s *Store) SetDispatcher(dispatch func(func())) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch = dispatch
}

// Load reads the preference file at path. The format follows the extension
// (yaml, toml, json). Values set with Set keep precedence over the file.
func (s *Store) Load(path string) error {
	v, err := readFile(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.path = path
	s.swap(v)
	s.mu.Unlock()
	s.refresh(false)
	return nil
}

// Must be called with s.mu held.
func (s *Store) swap(v *viper.Viper) {
	for k, val := range s.overrides {
		v.Set(k, val)
	}
	s.v = v
}

// Watch re-reads the loaded preference file whenever it changes on disk. The
// watcher goroutine only signals: the re-read and the listeners run through
// the dispatcher, so set it before calling Watch. Close stops watching.
func (s *Store) Watch() error {
	s.mu.Lock()
	path := s.path
	s.mu.Unlock()
	if path == "" {
		return fmt.Errorf("watch preferences: %w", ErrNotLoaded)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch preferences: %w", err)
	}
	// Watch the directory so editors that replace the file are still seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watch preferences %q: %w", path, err)
	}

	s.mu.Lock()
	if s.watcher != nil {
		s.watcher.Close()
	}
	s.watcher = w
	s.mu.Unlock()

	go s.watch(w, filepath.Clean(path))
	return nil
}

func (s *Store) watch(w *fsnotify.Watcher, path string) {
	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != path || e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.log.Debug("preference file changed", zap.String("file", e.Name), zap.Stringer("op", e.Op))
			s.post(s.reload)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("preference watcher", zap.Error(err))
		}
	}
}

// post runs fn through the dispatcher, or inline without one.
func (s *Store) post(fn func()) {
	s.mu.Lock()
	dispatch := s.dispatch
	s.mu.Unlock()
	if dispatch == nil {
		fn()
		return
	}
	dispatch(fn)
}

// reload re-reads the file into a fresh viper. A file that fails to parse
// (e.g. caught mid-write) leaves the current values in place. Listeners run
// inline since reload itself was dispatched.
func (s *Store) reload() {
	s.mu.Lock()
	path := s.path
	s.mu.Unlock()

	v, err := readFile(path)
	if err != nil {
		s.log.Warn("preference reload failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.swap(v)
	s.mu.Unlock()
	s.refresh(true)
}

// Close stops watching the preference file.
func (s *Store) Close() error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if w == nil {
		return nil
	}
	return w.Close()
}

// Bool returns a boolean preference.
func (s *Store) Bool(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetBool(name)
}

// Int returns an integer preference.
func (s *Store) Int(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetInt(name)
}

// Set overrides a preference. Unknown names are ignored.
func (s *Store) Set(name string, value any) {
	if !Known(name) {
		return
	}
	s.mu.Lock()
	s.v.Set(name, value)
	s.overrides[name] = value
	s.mu.Unlock()
	s.refresh(false)
}

// OnChange registers fn for changes to name. The returned function removes
// the registration.
func (s *Store) OnChange(name string, fn func(name string)) (unsubscribe func()) {
	l := &listener{fn: fn}
	s.mu.Lock()
	s.listeners[name] = append(s.listeners[name], l)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		ls := s.listeners[name]
		for i, x := range ls {
			if x == l {
				s.listeners[name] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) read() map[string]any {
	out := make(map[string]any, len(defaults))
	for k := range defaults {
		out[k] = s.v.Get(k)
	}
	return out
}

// refresh diffs known keys against the last snapshot and notifies. With
// inline set the caller is already on the loop and listeners run directly.
func (s *Store) refresh(inline bool) {
	s.mu.Lock()
	cur := s.read()
	var changed []string
	for k, val := range cur {
		if fmt.Sprint(val) != fmt.Sprint(s.snapshot[k]) {
			changed = append(changed, k)
		}
	}
	s.snapshot = cur
	type call struct {
		name string
		fn   func(string)
	}
	var calls []call
	for _, k := range changed {
		for _, l := range s.listeners[k] {
			calls = append(calls, call{k, l.fn})
		}
	}
	dispatch := s.dispatch
	s.mu.Unlock()

	for _, k := range changed {
		s.log.Info("preference changed", zap.String("name", k), zap.Any("value", cur[k]))
	}
	for _, c := range calls {
		c := c
		if dispatch != nil && !inline {
			dispatch(func() { c.fn(c.name) })
		} else {
			c.fn(c.name)
		}
	}
}
