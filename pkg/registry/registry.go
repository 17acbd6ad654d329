package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Registry manages the stream callbacks available to a scenario.
type Registry struct {
	mu      sync.RWMutex
	streams map[string]domain.StreamDecl
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		streams: make(map[string]domain.StreamDecl),
	}
}

// Register adds a stream declaration to the registry.
// If a stream with the same name exists, it is overwritten.
func (r *Registry) Register(decl domain.StreamDecl) error {
	if decl.Name == "" {
		return fmt.Errorf("stream declaration without a name")
	}
	if !decl.Valid() {
		return fmt.Errorf("stream %s: %q declaration has no matching callback", decl.Name, decl.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.streams[decl.Name] = decl
	return nil
}

// RegisterTest adds a test stream.
func (r *Registry) RegisterTest(name string, fn domain.TestFunc, info domain.StreamInfo) error {
	return r.Register(domain.TestStream(name, fn).WithInfo(info))
}

// RegisterGenerator adds a generator stream.
func (r *Registry) RegisterGenerator(name string, fn domain.GeneratorFunc, info domain.StreamInfo) error {
	return r.Register(domain.GeneratorStream(name, fn).WithInfo(info))
}

// RegisterFunction adds a function stream.
func (r *Registry) RegisterFunction(name string, fn domain.FunctionFunc, info domain.StreamInfo) error {
	return r.Register(domain.FunctionStream(name, fn).WithInfo(info))
}

// Lookup returns the declaration registered under name.
func (r *Registry) Lookup(name string) (domain.StreamDecl, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.streams[name]
	return d, ok
}

// Names returns the registered stream names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.streams))
	for name := range r.streams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StreamMap snapshots the registry into the requested variant. The debug
// variant carries no callbacks regardless of what is registered.
func (r *Registry) StreamMap(mode domain.StreamMode) domain.StreamMap {
	if mode == domain.StreamModeDebug {
		return domain.DebugStreams()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	decls := make([]domain.StreamDecl, 0, len(r.streams))
	for _, d := range r.streams {
		decls = append(decls, d)
	}
	return domain.RealStreams(decls...)
}

// Validate checks the registry against the stream names declared in a stream
// description. Both missing and extra entries are reported, wrapped in
// domain.ErrUndeclaredStream.
func (r *Registry) Validate(declared []string) error {
	return CheckCoverage(r.Names(), declared)
}

// CheckCoverage compares a set of bound stream names against the declared
// ones. A name declared more than once is reported too.
func CheckCoverage(bound, declared []string) error {
	want := make(map[string]int, len(declared))
	for _, name := range declared {
		want[name]++
	}
	have := make(map[string]bool, len(bound))
	for _, name := range bound {
		have[name] = true
	}

	var extra, missing, duplicate []string
	for _, name := range bound {
		if want[name] == 0 {
			extra = append(extra, name)
		}
	}
	for name, n := range want {
		if !have[name] {
			missing = append(missing, name)
		}
		if n > 1 {
			duplicate = append(duplicate, name)
		}
	}
	sort.Strings(extra)
	sort.Strings(missing)
	sort.Strings(duplicate)

	var problems []string
	if len(extra) > 0 {
		problems = append(problems, fmt.Sprintf("not declared %v", extra))
	}
	if len(missing) > 0 {
		problems = append(problems, fmt.Sprintf("not bound %v", missing))
	}
	if len(duplicate) > 0 {
		problems = append(problems, fmt.Sprintf("declared more than once %v", duplicate))
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrUndeclaredStream, strings.Join(problems, ", "))
}
