// Package services implements the driving port interfaces.
// Services contain the core pipeline logic and orchestrate
// calls to driven ports (adapters).
//
// All services share one explicit *domain.Session; none of them hold
// global state.
package services
