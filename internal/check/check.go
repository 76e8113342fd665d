// Package check implements the readiness checks that decide whether an
// application checkout can be launched: runtime presence, configuration,
// dependency resolution, and supporting files.
package check

import "context"

// Check performs a single readiness check.
type Check interface {
	Run(ctx context.Context) Result
}
