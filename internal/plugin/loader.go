package plugin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Loader discovers, validates, and aggregates plugins. Construct one at the
// process's dependency-injection root and pass it by reference; there is no
// package-level instance. All methods are safe for concurrent use.
type Loader struct {
	builtins []*Plugin
	teamDirs []string
	strict   bool

	mu         sync.Mutex
	loaded     bool
	order      []string
	plugins    map[string]*LoadedPlugin
	loadErrors map[string]error
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTeamDirs adds directories scanned for declarative team plugin files
// (*.yaml, *.yml) during LoadAll.
func WithTeamDirs(dirs ...string) LoaderOption {
	return func(l *Loader) {
		l.teamDirs = append(l.teamDirs, dirs...)
	}
}

// WithStrictCatalogMatch makes a config without a catalog entry a validation
// error instead of a warning.
func WithStrictCatalogMatch(strict bool) LoaderOption {
	return func(l *Loader) {
		l.strict = strict
	}
}

// NewLoader returns a Loader over the fixed builtin plugin set. Nothing is
// loaded until LoadAll.
func NewLoader(builtins []*Plugin, opts ...LoaderOption) *Loader {
	l := &Loader{
		builtins:   builtins,
		plugins:    make(map[string]*LoadedPlugin),
		loadErrors: make(map[string]error),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadAll validates and registers every builtin plugin, then every
// discovered team plugin. Idempotent: a second call while loaded is a no-op.
// A plugin that fails validation is recorded as a load error and never
// blocks the rest.
func (l *Loader) LoadAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return
	}

	for _, p := range l.builtins {
		l.register(p, "builtin")
	}

	for _, dir := range l.teamDirs {
		files, err := teamPluginFiles(dir)
		if err != nil {
			log.Printf("[debug] Could not scan team plugin dir %s: %v", dir, err)
			l.loadErrors[dir] = err
			continue
		}
		for _, file := range files {
			p, err := LoadTeamFile(file)
			if err != nil {
				log.Printf("[debug] Could not load team plugin %s: %v", file, err)
				l.loadErrors[file] = err
				continue
			}
			l.register(p, file)
		}
	}

	l.loaded = true
}

// register validates and stores one plugin. Caller holds the mutex.
func (l *Loader) register(p *Plugin, from string) {
	opts := ValidateOptions{StrictCatalogMatch: l.strict}
	if err := AssertValid(p, opts); err != nil {
		key := p.Manifest.ID
		if key == "" {
			key = from
		}
		log.Printf("[debug] Plugin %s failed validation: %v", key, err)
		l.loadErrors[key] = err
		return
	}
	if _, exists := l.plugins[p.Manifest.ID]; exists {
		l.loadErrors[from] = fmt.Errorf("duplicate plugin id %q", p.Manifest.ID)
		return
	}

	l.order = append(l.order, p.Manifest.ID)
	l.plugins[p.Manifest.ID] = &LoadedPlugin{
		Plugin:      p,
		LoadedFrom:  from,
		LoadedAt:    time.Now(),
		Initialized: true,
	}
}

// IsLoaded reports whether LoadAll has run.
func (l *Loader) IsLoaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Get returns the loaded plugin with the given manifest id.
func (l *Loader) Get(id string) (*LoadedPlugin, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.plugins[id]
	return p, ok
}

// All returns the loaded plugins in registration order.
func (l *Loader) All() []*LoadedPlugin {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*LoadedPlugin, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.plugins[id])
	}
	return out
}

// GetAllConfigs concatenates every loaded plugin's agent configs in stable
// registration order; repeated calls return identical ordering.
func (l *Loader) GetAllConfigs() []AgentConfig {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []AgentConfig
	for _, id := range l.order {
		out = append(out, l.plugins[id].Configs...)
	}
	return out
}

// GetAllCatalog concatenates every loaded plugin's catalog entries in stable
// registration order.
func (l *Loader) GetAllCatalog() []CatalogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []CatalogEntry
	for _, id := range l.order {
		out = append(out, l.plugins[id].Catalog...)
	}
	return out
}

// FindConfig returns the agent config with the given name.
func (l *Loader) FindConfig(name string) (*AgentConfig, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range l.order {
		p := l.plugins[id]
		for i := range p.Configs {
			if p.Configs[i].Name == name {
				return &p.Configs[i], true
			}
		}
	}
	return nil, false
}

// ProviderSpecs returns every loaded plugin's provider spec in registration
// order.
func (l *Loader) ProviderSpecs() []ProviderSpec {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ProviderSpec, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.plugins[id].Provider)
	}
	return out
}

// Errors returns a copy of the per-plugin load errors.
func (l *Loader) Errors() map[string]error {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]error, len(l.loadErrors))
	for k, v := range l.loadErrors {
		out[k] = v
	}
	return out
}

// HealthCheckAll runs each plugin's optional health check. Plugins without
// one report healthy with a note.
func (l *Loader) HealthCheckAll(ctx context.Context) map[string]HealthStatus {
	out := make(map[string]HealthStatus)
	for _, p := range l.All() {
		if p.Lifecycle == nil || p.Lifecycle.HealthCheck == nil {
			out[p.Manifest.ID] = HealthStatus{Healthy: true, Message: "No health check defined"}
			continue
		}
		out[p.Manifest.ID] = p.Lifecycle.HealthCheck(ctx)
	}
	return out
}

// Shutdown runs each plugin's optional shutdown hook, then clears all loader
// state so a subsequent LoadAll fully reconstructs the registry.
func (l *Loader) Shutdown(ctx context.Context) error {
	var errs []error
	for _, p := range l.All() {
		if p.Lifecycle == nil || p.Lifecycle.Shutdown == nil {
			continue
		}
		if err := p.Lifecycle.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("plugin %s shutdown: %w", p.Manifest.ID, err))
		}
	}

	l.mu.Lock()
	l.loaded = false
	l.order = nil
	l.plugins = make(map[string]*LoadedPlugin)
	l.loadErrors = make(map[string]error)
	l.mu.Unlock()

	return errors.Join(errs...)
}
