package middleware

import "github.com/aretw0/taskstream/pkg/ports"

// Middleware allows wrapping a PlanStore to add behavior.
type Middleware func(ports.PlanStore) ports.PlanStore

// Chain wraps store with mws. The first middleware is the outermost.
func Chain(store ports.PlanStore, mws ...Middleware) ports.PlanStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
