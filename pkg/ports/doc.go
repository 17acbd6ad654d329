/*
Package ports defines the driven ports (interfaces) of the taskstream pipeline.

These interfaces decouple problem assembly and plan translation from the
external collaborators: the solver, the executor, description storage and
run persistence.

# Key Interfaces

  - Solver: consumes a Problem and returns a Solution (plan, cost, evidence).
  - Executor: consumes the translated Command sequence.
  - DescriptionSource: reads domain and stream description documents.
  - ScenarioSource: retrieves stored scenario instances.
  - PlanStore: persists solver runs.
*/
package ports
