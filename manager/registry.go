package manager

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/pipeline"
	"github.com/kbukum/bytepipe/stages"
)

// Factory creates a stage named name.
type Factory func(name string, deps stages.Deps) pipeline.Stage

// Entry is one registered stage type.
type Entry struct {
	Name    string
	Kind    pipeline.Kind
	Factory Factory
}

// Registry provides named stage lookup for building chains from configuration.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	aliases map[string]string
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
		aliases: make(map[string]string),
	}
}

// Register adds a stage type. Every stage the factory creates must report kind.
func (r *Registry) Register(name string, kind pipeline.Kind, f Factory) error {
	if name == "" || f == nil {
		return errors.InvalidArgument("stage factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return errors.PipelineConstruction(fmt.Sprintf("stage %q already registered", name))
	}
	r.entries[name] = Entry{Name: name, Kind: kind, Factory: f}
	return nil
}

// Alias makes alias resolve to the registered stage name.
func (r *Registry) Alias(alias, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return errors.StageNotFound(name)
	}
	r.aliases[alias] = name
	return nil
}

// Lookup returns the entry registered under name or one of its aliases.
func (r *Registry) Lookup(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, errors.StageNotFound(name)
	}
	return e, nil
}

// Create builds a stage of type name. The stage is named instance.
func (r *Registry) Create(name, instance string, deps stages.Deps) (pipeline.Stage, error) {
	e, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	s := e.Factory(instance, deps)
	if s == nil {
		return nil, errors.PipelineConstruction(fmt.Sprintf("factory for %q returned no stage", name))
	}
	if s.Kind() != e.Kind {
		return nil, errors.PipelineConstruction(
			fmt.Sprintf("stage %q is registered as %s but reports %s", name, e.Kind, s.Kind()))
	}
	return s, nil
}

// AliasesOf returns the aliases that resolve to name, sorted.
func (r *Registry) AliasesOf(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for alias, target := range r.aliases {
		if target == name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// List returns all registered entries sorted by name.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefaultRegistry returns a registry with the built-in stages registered
// under their short names and their type names.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	builtins := []struct {
		name  string
		alias string
		kind  pipeline.Kind
		f     Factory
	}{
		{stages.ReaderName, "FileReader", pipeline.KindSource,
			func(n string, d stages.Deps) pipeline.Stage { return stages.NewFileReader(n, d) }},
		{stages.SubstitutorName, "Substitutor", pipeline.KindTransform,
			func(n string, d stages.Deps) pipeline.Stage { return stages.NewSubstitutor(n, d) }},
		{stages.WriterName, "FileWriter", pipeline.KindSink,
			func(n string, d stages.Deps) pipeline.Stage { return stages.NewFileWriter(n, d) }},
	}
	for _, b := range builtins {
		// Names are distinct constants, so registration cannot fail.
		_ = r.Register(b.name, b.kind, b.f)
		_ = r.Alias(b.alias, b.name)
	}
	return r
}
