package adapter

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Factory constructs the adapter for one tool name. It may probe the local
// environment; a returned error (or panic) marks the tool unresolvable for
// the rest of the process.
type Factory func() (Adapter, error)

// Registry maps tool names to lazily constructed adapter instances. It is an
// explicit value passed to the dispatch core, not a package-level singleton,
// so tests get isolated instances.
type Registry struct {
	logger *slog.Logger

	mu        sync.Mutex
	factories map[string]Factory
	entries   map[string]*registryEntry
	histories map[string]*History
}

type registryEntry struct {
	once         sync.Once
	factory      Factory
	adapter      Adapter
	registeredAt time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:    logger,
		factories: make(map[string]Factory),
		entries:   make(map[string]*registryEntry),
		histories: make(map[string]*History),
	}
}

// RegisterFactory registers a lazy constructor for name. The adapter is built
// on the first Get.
func (r *Registry) RegisterFactory(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// Register installs a pre-built adapter under name, replacing any factory.
func (r *Registry) Register(name string, a Adapter) {
	key := strings.ToLower(name)
	e := &registryEntry{adapter: a, registeredAt: time.Now()}
	e.once.Do(func() {})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = e
}

// Get resolves name to an adapter, constructing it on first use. It returns
// nil for unknown names and for names whose construction failed; the failure
// is cached so construction side effects run at most once. Get never panics.
func (r *Registry) Get(name string) Adapter {
	key := strings.ToLower(name)

	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		f, known := r.factories[key]
		if !known {
			r.mu.Unlock()
			return nil
		}
		e = &registryEntry{factory: f, registeredAt: time.Now()}
		r.entries[key] = e
	}
	r.mu.Unlock()

	// Construction runs outside the registry lock so a slow environment probe
	// for one tool does not block lookups of others. The per-entry once-guard
	// keeps concurrent Gets from constructing twice.
	e.once.Do(func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("adapter construction panicked", "tool", key, "panic", rec)
			}
		}()
		a, err := e.factory()
		if err != nil {
			r.logger.Warn("adapter construction failed", "tool", key, "error", err)
			return
		}
		e.adapter = a
	})

	return e.adapter
}

// History returns the execution history for name, creating it on first use.
// Histories exist independently of adapter construction so failures against a
// source tool are recorded even when that tool's own adapter never built.
func (r *Registry) History(name string) *History {
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histories[key]
	if !ok {
		h = NewHistory()
		r.histories[key] = h
	}
	return h
}

// Known returns the sorted names with a registered factory or instance.
func (r *Registry) Known() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(r.factories)+len(r.entries))
	for name := range r.factories {
		seen[name] = true
	}
	for name := range r.entries {
		seen[name] = true
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
