/*
Package observability turns pipeline lifecycle events into logs and Prometheus
metrics.

Both are exposed as domain.LifecycleHooks so they can be chained with
domain.ChainHooks and handed to the assembler and the translator.
*/
package observability
