package nlp

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/ikopt/logging"
)

// Algorithm names a gradient based local optimizer.
type Algorithm string

// Supported algorithms. SLSQP and the moving asymptote methods handle equality and inequality constraints; L-BFGS
// only handles variable bounds.
const (
	SLSQP Algorithm = "slsqp"
	MMA   Algorithm = "mma"
	CCSAQ Algorithm = "ccsaq"
	LBFGS Algorithm = "lbfgs"
)

// Backend names the library that runs the algorithm.
type Backend string

// Supported backends. The native backend is a pure Go SLSQP and works without cgo; it runs no other algorithm.
const (
	NloptBackend  Backend = "nlopt"
	NativeBackend Backend = "native"
)

const (
	defaultMaxEvaluations      = 250
	defaultTolerance           = 1e-9
	defaultConstraintTolerance = 1e-8
)

// SolverOptions configures a Solver.
type SolverOptions struct {
	Algorithm Algorithm `json:"algorithm"`

	// Empty selects nlopt when built with cgo and the native backend otherwise.
	Backend Backend `json:"backend,omitempty"`

	// Maximum number of objective evaluations. SLSQP spends several evaluations per iteration in its line search, so
	// this is a tighter cap than an iteration count of the same size.
	MaxEvaluations int `json:"max_iterations"`

	// Relative and absolute tolerance on the objective and the variables.
	Tolerance float64 `json:"tolerance"`

	// Tolerance applied to each constraint row.
	ConstraintTolerance float64 `json:"constraint_tolerance"`
}

// NewDefaultSolverOptions returns SLSQP with 250 evaluations and a 1e-9 tolerance.
func NewDefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Algorithm:           SLSQP,
		MaxEvaluations:      defaultMaxEvaluations,
		Tolerance:           defaultTolerance,
		ConstraintTolerance: defaultConstraintTolerance,
	}
}

// Validate returns every problem with the options.
func (o SolverOptions) Validate() error {
	var err error
	switch o.algorithm() {
	case SLSQP, MMA, CCSAQ, LBFGS:
	default:
		err = multierr.Append(err, errors.Errorf("unsupported algorithm %q", o.Algorithm))
	}
	switch o.backend() {
	case NloptBackend:
	case NativeBackend:
		if o.algorithm() != SLSQP {
			err = multierr.Append(err, errors.Errorf("backend %q only supports %q, got %q", NativeBackend, SLSQP, o.Algorithm))
		}
	default:
		err = multierr.Append(err, errors.Errorf("unsupported backend %q", o.Backend))
	}
	if o.MaxEvaluations < 1 {
		err = multierr.Append(err, errors.Errorf("max evaluations must be positive, got %d", o.MaxEvaluations))
	}
	if o.Tolerance < 0 {
		err = multierr.Append(err, errors.Errorf("tolerance cannot be negative, got %g", o.Tolerance))
	}
	if o.ConstraintTolerance < 0 {
		err = multierr.Append(err, errors.Errorf("constraint tolerance cannot be negative, got %g", o.ConstraintTolerance))
	}
	return err
}

func (o SolverOptions) algorithm() Algorithm {
	return Algorithm(strings.ToLower(string(o.Algorithm)))
}

func (o SolverOptions) backend() Backend {
	if o.Backend == "" {
		return defaultBackend
	}
	return Backend(strings.ToLower(string(o.Backend)))
}

// Result is the outcome of a solve. X is always the best point the solver reached, even when it did not converge;
// Status is the solver's own termination reason.
type Result struct {
	X           []float64
	Cost        float64
	Status      string
	Evaluations int
}

// Solver minimizes a Problem starting from its current variable values. On return the problem's variables are set
// to Result.X.
type Solver interface {
	Solve(ctx context.Context, problem *Problem) (*Result, error)
}

// NewSolver returns the solver of the backend the options select.
func NewSolver(logger logging.Logger, opts SolverOptions) (Solver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.backend() == NativeBackend {
		solver, err := NewSlsqpSolver(logger, opts)
		if err != nil {
			return nil, err
		}
		return solver, nil
	}
	solver, err := NewNloptSolver(logger, opts)
	if err != nil {
		return nil, err
	}
	return solver, nil
}
