package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"tilewm/internal/fsutil"
	"tilewm/internal/layout"
)

// debounceWindow coalesces bursts of filesystem events (editors that write
// via a temp-file-plus-rename do this) into a single reload, mirroring the
// teacher's config watcher debounce.
const debounceWindow = 100 * time.Millisecond

// Loader owns the active Config, watches its source file for changes, and
// notifies registered callbacks on each successful reload (spec §4.6
// "atomically replaces the active configuration ... re-parses on file
// change; the reconciler applies the diff without interrupting in-flight
// operations").
type Loader struct {
	path string

	mu     sync.RWMutex
	config *Config

	watcher  *fsnotify.Watcher
	onChange []func(*Config)

	timer *time.Timer

	errChan chan error
	closed  chan struct{}
}

// NewLoader constructs a Loader for the document at path. Call Load once
// to populate the initial Config before Watch.
func NewLoader(path string) *Loader {
	return &Loader{
		path:    path,
		errChan: make(chan error, 16),
		closed:  make(chan struct{}),
	}
}

// Load reads, validates, and activates the configuration document at
// l.path. If the file does not exist, a fresh Default() is written and
// used (spec §4.6 is silent on first-run behavior; this mirrors the
// teacher's own "missing config falls back to defaults" Load).
func (l *Loader) Load() error {
	cfg, err := LoadOrCreate(l.path)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.config = cfg
	l.mu.Unlock()
	return nil
}

// Config returns the currently active configuration. The returned pointer
// must be treated as read-only by callers; Loader swaps in a new *Config
// wholesale rather than mutating fields in place.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// Watch starts an fsnotify watch on the config file's directory and begins
// debounced reloads on write/create events matching the file's basename.
func (l *Loader) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watcher: %w", err)
	}
	dir := filepath.Dir(l.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("config: watch %s: %w", dir, err)
	}
	l.watcher = w
	go l.watchLoop()
	return nil
}

func (l *Loader) watchLoop() {
	base := filepath.Base(l.path)
	for {
		select {
		case <-l.closed:
			return
		case ev, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			l.scheduleReload()
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			l.pushError(err)
		}
	}
}

func (l *Loader) scheduleReload() {
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(debounceWindow, l.reload)
	l.mu.Unlock()
}

func (l *Loader) reload() {
	cfg, err := LoadOrCreate(l.path)
	if err != nil {
		l.pushError(fmt.Errorf("config: reload: %w", err))
		return
	}
	l.mu.Lock()
	l.config = cfg
	callbacks := append([]func(*Config){}, l.onChange...)
	l.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (l *Loader) pushError(err error) {
	select {
	case l.errChan <- err:
	default:
	}
}

// OnChange registers a callback invoked with the new Config after every
// successful hot reload. Per spec §5, callbacks must not block — the
// intended use is to push an "apply configuration" message onto the
// reconciler's queue, not mutate state directly.
func (l *Loader) OnChange(cb func(*Config)) {
	l.mu.Lock()
	l.onChange = append(l.onChange, cb)
	l.mu.Unlock()
}

// Errors returns the channel reload errors are pushed to (non-blocking,
// bounded; a slow consumer drops rather than stalls the watch loop).
func (l *Loader) Errors() <-chan error {
	return l.errChan
}

// Close stops the watcher and any pending debounce timer.
func (l *Loader) Close() error {
	close(l.closed)
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
	}
	l.mu.Unlock()
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}

// LoadOrCreate reads and validates the JSON document at path, writing a
// fresh Default() if it doesn't exist yet.
func LoadOrCreate(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		cfg := Default()
		if werr := writeDefault(path, cfg); werr != nil {
			return nil, werr
		}
		return cfg, nil
	}
	return Parse(raw)
}

func writeDefault(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal default: %w", err)
	}
	if err := fsutil.WriteSecureFile(path, data, fsutil.PermPublicFile); err != nil {
		return fmt.Errorf("config: write default %s: %w", path, err)
	}
	return nil
}

// Parse unmarshals, schema-validates, field-validates, and env-overrides a
// raw JSON configuration document, per the pipeline spec §4.6 describes.
func Parse(raw []byte) (*Config, error) {
	if err := ValidateDocument(raw); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	ApplyEnvOverrides(cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies the small allowlist spec §4.6 permits: control
// socket path and log level, so an operator can override either without
// editing the document (useful for tests and packaging).
func ApplyEnvOverrides(c *Config) {
	if v := os.Getenv("TILEWM_SOCKET_PATH"); v != "" {
		c.IPC.SocketPath = v
	}
	if v := os.Getenv("TILEWM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// ResolveCustomLayouts reads every distinct custom-layout path referenced
// by cfg's workspaces (JSON, or YAML via yaml.v3 for hand-edited layout
// files) and returns them keyed by the path string layout.Descriptor.Path
// carries, ready to install into layout.Options.CustomSpecs.
func ResolveCustomLayouts(cfg *Config) (map[string]layout.CustomSpec, error) {
	out := make(map[string]layout.CustomSpec)
	for _, m := range cfg.Monitors {
		for _, w := range m.Workspaces {
			if p := w.Layout.CustomPath; p != "" {
				if _, ok := out[p]; !ok {
					spec, err := loadCustomLayoutFile(p)
					if err != nil {
						return nil, err
					}
					out[p] = spec
				}
			}
			for _, lr := range w.LayoutRules {
				if p := lr.Layout.CustomPath; p != "" {
					if _, ok := out[p]; !ok {
						spec, err := loadCustomLayoutFile(p)
						if err != nil {
							return nil, err
						}
						out[p] = spec
					}
				}
			}
		}
	}
	return out, nil
}

func loadCustomLayoutFile(path string) (layout.CustomSpec, error) {
	cleanPath, err := fsutil.DefaultPathValidator().ValidatePath(path)
	if err != nil {
		return layout.CustomSpec{}, fmt.Errorf("config: custom layout %s: %w", path, err)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return layout.CustomSpec{}, fmt.Errorf("config: custom layout %s: %w", path, err)
	}

	var spec layout.CustomSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return layout.CustomSpec{}, fmt.Errorf("config: custom layout %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &spec); err != nil {
			return layout.CustomSpec{}, fmt.Errorf("config: custom layout %s: %w", path, err)
		}
	}
	return spec, nil
}
