//go:build windows || no_cgo

package nlp

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/ikopt/logging"
)

const defaultBackend = NativeBackend

var errNotSupported = errors.New("nlopt solver not supported on this build")

// NloptSolver is unavailable without cgo.
type NloptSolver struct{}

// NewNloptSolver returns an error on builds without cgo.
func NewNloptSolver(logger logging.Logger, opts SolverOptions) (*NloptSolver, error) {
	return nil, errNotSupported
}

// Solve always fails on builds without cgo.
func (s *NloptSolver) Solve(ctx context.Context, problem *Problem) (*Result, error) {
	return nil, errNotSupported
}
