/*
Package domain holds the core types of taskstream.

A planning problem is described by facts over symbolic names and typed values
(poses, configurations, trajectories), a goal formula built from conjunctions
and existential quantifiers, and a stream map that binds stream names to test,
generator or function callbacks. The solver returns a Plan, which a translator
turns into an ordered sequence of Commands.

# Key Types

  - Fact, FactSet, Formula (Atom, And, Exists)
  - StreamDecl and StreamMap (RealStreams or DebugStreams)
  - Problem, Plan, Solution, SolverOptions
  - Command (Attach, Detach, Register, Scan, Trajectory, Ray)
  - TranslationState: the attachment accumulator threaded through a translation
*/
package domain
