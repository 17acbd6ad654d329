package domain

import (
	"context"
	"sort"
)

// StreamKind classifies a stream callback.
type StreamKind string

const (
	// StreamTest answers a yes/no question about bound inputs.
	StreamTest StreamKind = "test"
	// StreamGenerator lazily yields zero or more output tuples.
	StreamGenerator StreamKind = "generator"
	// StreamFunction yields at most one output tuple.
	StreamFunction StreamKind = "function"
)

// TestFunc is a side-effect free predicate over bound inputs.
type TestFunc func(ctx context.Context, inputs []Value) (bool, error)

// FunctionFunc computes a single output tuple. A nil tuple with a nil error
// means the function failed for these inputs.
type FunctionFunc func(ctx context.Context, inputs []Value) ([]Value, error)

// GeneratorFunc starts a lazy output sequence for bound inputs.
type GeneratorFunc func(ctx context.Context, inputs []Value) Generator

// Generator is consumed incrementally by the solver. It may be infinite and
// is not guaranteed to be restartable.
type Generator interface {
	// Next returns the next output tuple. ok is false once the sequence is exhausted.
	Next(ctx context.Context) (outputs []Value, ok bool, err error)
}

// GeneratorFromFunc adapts a closure to a Generator.
type GeneratorFromFunc func(ctx context.Context) ([]Value, bool, error)

func (f GeneratorFromFunc) Next(ctx context.Context) ([]Value, bool, error) { return f(ctx) }

// FromSlice returns a finite generator over the given output tuples.
func FromSlice(outputs ...[]Value) Generator {
	i := 0
	return GeneratorFromFunc(func(ctx context.Context) ([]Value, bool, error) {
		if i >= len(outputs) {
			return nil, false, nil
		}
		out := outputs[i]
		i++
		return out, true, nil
	})
}

// StreamInfo carries solver hints for a stream. The core passes it through.
type StreamInfo struct {
	// Negate asks the solver to plan with the negation of a test stream.
	Negate bool `json:"negate,omitempty" yaml:"negate,omitempty" mapstructure:"negate"`
	// PSuccess is the prior probability that an evaluation succeeds.
	PSuccess float64 `json:"p_success,omitempty" yaml:"p_success,omitempty" mapstructure:"p_success"`
	// Overhead is the expected evaluation cost.
	Overhead float64 `json:"overhead,omitempty" yaml:"overhead,omitempty" mapstructure:"overhead"`
}

// StreamDecl binds a stream name to exactly one callback shape.
type StreamDecl struct {
	Name      string
	Kind      StreamKind
	Test      TestFunc
	Generator GeneratorFunc
	Function  FunctionFunc
	Info      StreamInfo
}

// TestStream declares a test stream.
func TestStream(name string, fn TestFunc) StreamDecl {
	return StreamDecl{Name: name, Kind: StreamTest, Test: fn}
}

// GeneratorStream declares a generator stream.
func GeneratorStream(name string, fn GeneratorFunc) StreamDecl {
	return StreamDecl{Name: name, Kind: StreamGenerator, Generator: fn}
}

// FunctionStream declares a function stream.
func FunctionStream(name string, fn FunctionFunc) StreamDecl {
	return StreamDecl{Name: name, Kind: StreamFunction, Function: fn}
}

// WithInfo returns a copy of the declaration carrying solver hints.
func (d StreamDecl) WithInfo(info StreamInfo) StreamDecl {
	d.Info = info
	return d
}

// Valid reports whether the declared kind has its callback set.
func (d StreamDecl) Valid() bool {
	switch d.Kind {
	case StreamTest:
		return d.Test != nil
	case StreamGenerator:
		return d.Generator != nil
	case StreamFunction:
		return d.Function != nil
	}
	return false
}

// StreamMode selects between real callbacks and solver-synthesized placeholders.
type StreamMode string

const (
	StreamModeReal  StreamMode = "real"
	StreamModeDebug StreamMode = "debug"
)

// StreamMap is either a set of real callbacks or the debug variant, in which
// the solver synthesizes placeholder outputs instead of invoking callbacks.
type StreamMap struct {
	mode  StreamMode
	decls map[string]StreamDecl
}

// RealStreams builds a stream map backed by callbacks.
func RealStreams(decls ...StreamDecl) StreamMap {
	m := StreamMap{mode: StreamModeReal, decls: make(map[string]StreamDecl, len(decls))}
	for _, d := range decls {
		m.decls[d.Name] = d
	}
	return m
}

// DebugStreams builds the debug variant.
func DebugStreams() StreamMap {
	return StreamMap{mode: StreamModeDebug}
}

// Mode returns the variant. The zero StreamMap is an empty real map.
func (m StreamMap) Mode() StreamMode {
	if m.mode == "" {
		return StreamModeReal
	}
	return m.mode
}

// IsDebug reports whether the map is the debug variant.
func (m StreamMap) IsDebug() bool {
	return m.mode == StreamModeDebug
}

// Lookup returns the declaration for name. It always fails in debug mode.
func (m StreamMap) Lookup(name string) (StreamDecl, bool) {
	d, ok := m.decls[name]
	return d, ok
}

// Names returns the declared stream names in sorted order.
func (m StreamMap) Names() []string {
	names := make([]string, 0, len(m.decls))
	for name := range m.decls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of declarations.
func (m StreamMap) Len() int {
	return len(m.decls)
}
