// Package process runs external solvers as child processes.
//
// The host and the solver exchange JSON lines. The host writes a "problem"
// message on stdin; the solver may then ask for stream evaluations with
// "evaluate" messages, which the host answers with "result" messages, and
// finishes with a "solution" message. Stream callbacks run in the host, so
// the solver never needs to understand geometry.
package process

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/taskstream/internal/dto"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/streams"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/taskstream/pkg/adapters/process"

// Environment variables set for every solver process.
const (
	EnvScenario   = "TASKSTREAM_SCENARIO"
	EnvStreamMode = "TASKSTREAM_STREAM_MODE"
)

const maxMessageSize = 16 << 20

var errNoSolution = errors.New("solver exited without a solution")

// Solver implements ports.Solver on top of an external executable.
type Solver struct {
	config SolverConfig
	logger *slog.Logger
}

// Option configures the Solver.
type Option func(*Solver)

// WithLogger sets the structured logger. Solver "log" messages are forwarded to it.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = logger
	}
}

// NewSolver creates a solver for the given executable.
func NewSolver(cfg SolverConfig, opts ...Option) *Solver {
	s := &Solver{config: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Name returns the configured solver name.
func (s *Solver) Name() string {
	return s.config.Name
}

// Solve starts the solver, serves its stream evaluations and returns its answer.
// A solver that answers with a null plan yields a Solution without a plan and no error.
func (s *Solver) Solve(ctx context.Context, problem *domain.Problem, opts domain.SolverOptions) (sol domain.Solution, err error) {
	if problem == nil {
		return domain.Solution{}, fmt.Errorf("%w: nil problem", domain.ErrConfiguration)
	}
	timeout, err := s.config.TimeoutDuration()
	if err != nil {
		return domain.Solution{}, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "process.Solve", trace.WithAttributes(
		attribute.String("solver.name", s.config.Name),
		attribute.String("problem.name", problem.Name),
		attribute.String("problem.stream_mode", string(problem.Streams.Mode())),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Bool("solution.solved", sol.Solved()))
		}
		span.End()
	}()

	cmd := exec.CommandContext(ctx, s.config.Command, s.config.Args...)
	cmd.Dir = s.config.Dir
	cmd.Env = append(cmd.Environ(), s.environment(problem)...)
	cmd.WaitDelay = time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return domain.Solution{}, fmt.Errorf("%w: %s: %w", domain.ErrSolverFailed, s.config.Name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return domain.Solution{}, fmt.Errorf("%w: %s: %w", domain.ErrSolverFailed, s.config.Name, err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return domain.Solution{}, fmt.Errorf("%w: start %s: %w", domain.ErrSolverFailed, s.config.Command, err)
	}
	s.logger.Debug("solver started", "solver", s.config.Name, "pid", cmd.Process.Pid, "problem", problem.Name)

	eval := streams.New(problem.Streams, streams.WithLogger(s.logger))
	sol, convErr := s.converse(ctx, eval, problem, opts, stdin, stdout)
	_ = stdin.Close()
	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Solution{}, fmt.Errorf("%w: %s: %w", domain.ErrSolverFailed, s.config.Name, ctxErr)
	}
	if convErr == nil && waitErr != nil {
		convErr = waitErr
	}
	if convErr != nil {
		if errors.Is(convErr, domain.ErrInvalidSolution) {
			return domain.Solution{}, convErr
		}
		return domain.Solution{}, fmt.Errorf("%w: %s: %w%s", domain.ErrSolverFailed, s.config.Name, convErr, stderrTail(stderr.String()))
	}

	s.logger.Info("solver finished",
		"solver", s.config.Name,
		"solved", sol.Solved(),
		"cost", sol.Cost.String(),
		"actions", sol.Plan.Len(),
		"duration", time.Since(start),
	)
	for name, st := range eval.Stats() {
		s.logger.Debug("stream stats", "stream", name, "calls", st.Calls, "outputs", st.Outputs, "failed", st.Failed)
	}
	return sol, nil
}

func (s *Solver) environment(problem *domain.Problem) []string {
	env := []string{
		EnvScenario + "=" + problem.Name,
		EnvStreamMode + "=" + string(problem.Streams.Mode()),
	}
	keys := make([]string, 0, len(s.config.Environment))
	for k := range s.config.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+s.config.Environment[k])
	}
	return env
}

func (s *Solver) converse(ctx context.Context, eval *streams.Evaluator, problem *domain.Problem, opts domain.SolverOptions, w io.Writer, r io.Reader) (domain.Solution, error) {
	enc := json.NewEncoder(w)
	if err := enc.Encode(dto.Message{Type: dto.MessageProblem, Problem: domain.EncodeProblem(problem), Options: &opts}); err != nil {
		return domain.Solution{}, fmt.Errorf("send problem: %w", err)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxMessageSize)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var msg dto.Message
		if err := json.Unmarshal(line, &msg); err != nil {
			return domain.Solution{}, fmt.Errorf("malformed solver message: %w", err)
		}

		switch msg.Type {
		case dto.MessageEvaluate:
			if err := enc.Encode(s.evaluate(ctx, eval, msg)); err != nil {
				return domain.Solution{}, fmt.Errorf("send result %d: %w", msg.ID, err)
			}
		case dto.MessageLog:
			s.logger.Log(ctx, logLevel(msg.Level), msg.Text, "solver", s.config.Name)
		case dto.MessageSolution:
			if msg.Solution == nil {
				return domain.NoSolution(), nil
			}
			sol := msg.Solution.ToSolution()
			if err := sol.Validate(); err != nil {
				return domain.Solution{}, err
			}
			return sol, nil
		default:
			s.logger.Warn("ignoring solver message", "solver", s.config.Name, "type", msg.Type)
		}
	}
	if err := sc.Err(); err != nil {
		return domain.Solution{}, fmt.Errorf("read solver output: %w", err)
	}
	return domain.Solution{}, errNoSolution
}

// evaluate answers one request. Callback failures go back to the solver as
// errors; they do not end the session.
func (s *Solver) evaluate(ctx context.Context, eval *streams.Evaluator, msg dto.Message) dto.Message {
	reply := dto.Message{Type: dto.MessageResult, ID: msg.ID, Stream: msg.Stream}
	resp, err := eval.Evaluate(ctx, streams.Request{
		Stream:  msg.Stream,
		Inputs:  msg.Inputs,
		Outputs: msg.Outputs,
		Max:     msg.Max,
	})
	if err != nil {
		s.logger.Warn("stream evaluation failed", "stream", msg.Stream, "error", err)
		reply.Error = err.Error()
		reply.Exhausted = true
		return reply
	}
	reply.Truth = resp.Truth
	reply.Tuples = resp.Outputs
	reply.Exhausted = resp.Exhausted
	return reply
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func stderrTail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	const limit = 2048
	if len(stderr) > limit {
		stderr = "..." + stderr[len(stderr)-limit:]
	}
	return ". Stderr: " + stderr
}
