/*
Package taskstream connects a task-and-motion planner to a robot executor.

A scenario describes a planning world: how entities are classified into type
facts, which facts always hold, what the goal is and which stream callbacks
(samplers and tests) the solver may call back into. The Pipeline assembles
that description into a Problem, hands it to a Solver, keeps each answer as a
Run in a PlanStore and translates plans into executor Commands.

# Concept

The pipeline has two pure halves around an opaque solver:

  - Assembly turns entities (a name and a pose) into an immutable Problem:
    domain and stream descriptions, initial facts, a goal formula and a
    stream map in Real or Debug mode.
  - Translation folds a Plan through typed action handlers, threading an
    immutable TranslationState that records which agent holds which object.

Everything else (solvers, stores, locks, executors) is a port with adapters
under pkg/adapters.

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/taskstream"
		"github.com/aretw0/taskstream/pkg/adapters/process"
		"github.com/aretw0/taskstream/pkg/scenario/rovers"
	)

	func main() {
		solver := process.NewSolver(process.SolverConfig{Name: "pddlstream", Command: "python3", Args: []string{"-m", "solve"}})
		p, err := taskstream.New(rovers.Bundle(), taskstream.WithSolver("pddlstream", solver))
		if err != nil {
			log.Fatal(err)
		}
		if _, err := taskstream.NewRunner(os.Stdout).Run(context.Background(), p, nil); err != nil {
			log.Fatal(err)
		}
	}

# Persistence

Runs are kept in memory by default. File, Redis and SQLite stores live under
pkg/adapters and can be wrapped with the encryption, redaction, logging and
metrics middleware of pkg/persistence/middleware.
*/
package taskstream
