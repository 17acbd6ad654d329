package rovers

import (
	"context"
	"fmt"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/registry"
)

// Stream names, as declared in stream.pddl.
const (
	StreamCFreeRayConf = "test-cfree-ray-conf"
	StreamReachable    = "test-reachable"
	StreamObjVisible   = "obj-inv-visible"
	StreamComVisible   = "com-inv-visible"
	StreamAbove        = "sample-above"
	StreamMotion       = "sample-motion"
)

// Info holds the solver hints of each stream.
var Info = map[string]domain.StreamInfo{
	StreamCFreeRayConf: {Negate: true},
	StreamReachable:    {PSuccess: 0.1},
	StreamObjVisible:   {},
	StreamComVisible:   {},
	StreamAbove:        {},
	StreamMotion:       {Overhead: 10},
}

// Streams binds every rovers stream to s.
func Streams(s Samplers) (*registry.Registry, error) {
	r := registry.NewRegistry()

	if err := r.RegisterTest(StreamCFreeRayConf, func(ctx context.Context, in []domain.Value) (bool, error) {
		ray, err := arg[domain.Ray](in, 0)
		if err != nil {
			return false, err
		}
		rover, err := symbol(in, 1)
		if err != nil {
			return false, err
		}
		q, err := arg[domain.Conf](in, 2)
		if err != nil {
			return false, err
		}
		return s.CFreeRayConf(ctx, ray, rover, q)
	}, Info[StreamCFreeRayConf]); err != nil {
		return nil, err
	}

	if err := r.RegisterTest(StreamReachable, func(ctx context.Context, in []domain.Value) (bool, error) {
		rover, err := symbol(in, 0)
		if err != nil {
			return false, err
		}
		q, err := arg[domain.Conf](in, 1)
		if err != nil {
			return false, err
		}
		return s.Reachable(ctx, rover, q)
	}, Info[StreamReachable]); err != nil {
		return nil, err
	}

	pair := func(name string, sample func(ctx context.Context, rover, target string) domain.Generator) error {
		return r.RegisterGenerator(name, func(ctx context.Context, in []domain.Value) domain.Generator {
			rover, err := symbol(in, 0)
			if err != nil {
				return failed(err)
			}
			target, err := symbol(in, 1)
			if err != nil {
				return failed(err)
			}
			return sample(ctx, rover, target)
		}, Info[name])
	}
	if err := pair(StreamObjVisible, s.ImageVisible); err != nil {
		return nil, err
	}
	if err := pair(StreamComVisible, s.ComVisible); err != nil {
		return nil, err
	}
	if err := pair(StreamAbove, s.Above); err != nil {
		return nil, err
	}

	if err := r.RegisterFunction(StreamMotion, func(ctx context.Context, in []domain.Value) ([]domain.Value, error) {
		rover, err := symbol(in, 0)
		if err != nil {
			return nil, err
		}
		q1, err := arg[domain.Conf](in, 1)
		if err != nil {
			return nil, err
		}
		q2, err := arg[domain.Conf](in, 2)
		if err != nil {
			return nil, err
		}
		t, ok, err := s.Motion(ctx, rover, q1, q2)
		if err != nil || !ok {
			return nil, err
		}
		return []domain.Value{t}, nil
	}, Info[StreamMotion]); err != nil {
		return nil, err
	}

	return r, nil
}

func arg[T domain.Value](in []domain.Value, i int) (T, error) {
	var zero T
	if i >= len(in) {
		return zero, fmt.Errorf("%w: missing input %d", domain.ErrArgumentShape, i)
	}
	v, ok := in[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: input %d is %T, want %T", domain.ErrArgumentShape, i, in[i], zero)
	}
	return v, nil
}

func symbol(in []domain.Value, i int) (string, error) {
	s, err := arg[domain.Symbol](in, i)
	return string(s), err
}

func failed(err error) domain.Generator {
	return domain.GeneratorFromFunc(func(context.Context) ([]domain.Value, bool, error) {
		return nil, false, err
	})
}
