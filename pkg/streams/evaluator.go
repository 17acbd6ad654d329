// Package streams evaluates stream instances on behalf of an external solver.
//
// A stream instance is a stream name bound to concrete inputs. Generator
// instances are kept between requests so the solver can pull further outputs
// incrementally; test and function results are computed once per instance.
// Against the debug stream map no callback runs: placeholder handles are
// synthesized for every requested output.
package streams

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Request asks for the evaluation of one stream instance.
type Request struct {
	Stream string
	Inputs domain.Args
	// Outputs names the output parameters. Only used to label debug placeholders.
	Outputs []string
	// Max bounds how many tuples a generator yields for this request. Zero means 1.
	Max int
}

// Response is the result of an evaluation.
type Response struct {
	Stream string
	Kind   domain.StreamKind
	// Truth is set for test streams.
	Truth *bool
	// Outputs holds the new output tuples, in generation order.
	Outputs []domain.Args
	// Exhausted reports that the instance will yield nothing more.
	Exhausted bool
}

// Stats counts evaluations per stream.
type Stats struct {
	Calls   int
	Outputs int
	Failed  int
}

type instance struct {
	gen       domain.Generator
	exhausted bool
	done      *Response
}

// Evaluator serves stream evaluation requests for a single problem.
type Evaluator struct {
	streams domain.StreamMap
	logger  *slog.Logger

	mu        sync.Mutex
	instances map[string]*instance
	stats     map[string]*Stats
	next      int
}

// Option configures the Evaluator.
type Option func(*Evaluator)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// New creates an evaluator over a stream map.
func New(streams domain.StreamMap, opts ...Option) *Evaluator {
	e := &Evaluator{
		streams:   streams,
		instances: make(map[string]*instance),
		stats:     make(map[string]*Stats),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// InstanceKey identifies a stream bound to inputs.
func InstanceKey(stream string, inputs []domain.Value) string {
	parts := make([]string, len(inputs))
	for i, v := range inputs {
		parts[i] = v.Key()
	}
	return stream + "(" + strings.Join(parts, ",") + ")"
}

// Evaluate runs or resumes the instance named by req.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (Response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.statsFor(req.Stream)
	st.Calls++

	if e.streams.IsDebug() {
		resp := e.placeholder(req)
		st.Outputs += len(resp.Outputs)
		return resp, nil
	}

	decl, ok := e.streams.Lookup(req.Stream)
	if !ok {
		return Response{}, fmt.Errorf("%w: %s", domain.ErrUnknownStream, req.Stream)
	}

	key := InstanceKey(req.Stream, req.Inputs)
	inst, ok := e.instances[key]
	if !ok {
		inst = &instance{}
		e.instances[key] = inst
	}
	if inst.done != nil {
		return *inst.done, nil
	}

	resp := Response{Stream: req.Stream, Kind: decl.Kind}
	switch decl.Kind {
	case domain.StreamTest:
		truth, err := decl.Test(ctx, req.Inputs)
		if err != nil {
			st.Failed++
			return Response{}, fmt.Errorf("%w: %s: %w", domain.ErrStreamFailed, key, err)
		}
		resp.Truth = &truth
		resp.Exhausted = true
		inst.done = &resp

	case domain.StreamFunction:
		out, err := decl.Function(ctx, req.Inputs)
		if err != nil {
			st.Failed++
			return Response{}, fmt.Errorf("%w: %s: %w", domain.ErrStreamFailed, key, err)
		}
		if out != nil {
			resp.Outputs = []domain.Args{domain.Args(out)}
		}
		resp.Exhausted = true
		inst.done = &resp

	case domain.StreamGenerator:
		if inst.gen == nil && !inst.exhausted {
			inst.gen = decl.Generator(ctx, req.Inputs)
		}
		limit := req.Max
		if limit <= 0 {
			limit = 1
		}
		for len(resp.Outputs) < limit && !inst.exhausted {
			out, more, err := inst.gen.Next(ctx)
			if err != nil {
				st.Failed++
				return Response{}, fmt.Errorf("%w: %s: %w", domain.ErrStreamFailed, key, err)
			}
			if !more {
				inst.exhausted = true
				inst.gen = nil
				break
			}
			resp.Outputs = append(resp.Outputs, domain.Args(out))
		}
		resp.Exhausted = inst.exhausted

	default:
		return Response{}, fmt.Errorf("%w: %s has kind %q", domain.ErrUnknownStream, req.Stream, decl.Kind)
	}

	st.Outputs += len(resp.Outputs)
	e.logger.Debug("stream evaluated",
		"instance", key,
		"kind", decl.Kind,
		"outputs", len(resp.Outputs),
		"exhausted", resp.Exhausted,
	)
	return resp, nil
}

// placeholder synthesizes one tuple of opaque handles, named after the
// requested outputs. Tests always hold.
func (e *Evaluator) placeholder(req Request) Response {
	resp := Response{Stream: req.Stream, Exhausted: true}
	if len(req.Outputs) == 0 {
		truth := true
		resp.Kind = domain.StreamTest
		resp.Truth = &truth
		return resp
	}
	resp.Kind = domain.StreamGenerator
	tuple := make(domain.Args, len(req.Outputs))
	for i, name := range req.Outputs {
		tuple[i] = domain.Handle{Type: strings.TrimPrefix(name, "?"), ID: strconv.Itoa(e.next)}
		e.next++
	}
	resp.Outputs = []domain.Args{tuple}
	return resp
}

func (e *Evaluator) statsFor(stream string) *Stats {
	st, ok := e.stats[stream]
	if !ok {
		st = &Stats{}
		e.stats[stream] = st
	}
	return st
}

// Stats returns a copy of the per-stream counters.
func (e *Evaluator) Stats() map[string]Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]Stats, len(e.stats))
	for k, v := range e.stats {
		out[k] = *v
	}
	return out
}
