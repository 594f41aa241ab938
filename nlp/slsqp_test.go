package nlp

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/ikopt/logging"
)

func TestSlsqpConstrained(t *testing.T) {
	logger := logging.NewTestLogger(t)
	p, err := newExProblem(0.5, 1.5)
	test.That(t, err, test.ShouldBeNil)

	solver, err := NewSlsqpSolver(logger, NewDefaultSolverOptions())
	test.That(t, err, test.ShouldBeNil)
	res, err := solver.Solve(context.Background(), p)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.X[0], test.ShouldAlmostEqual, 1, 1e-4)
	test.That(t, res.X[1], test.ShouldAlmostEqual, 0, 1e-4)
	test.That(t, res.Cost, test.ShouldAlmostEqual, -4, 1e-3)
	test.That(t, res.Status, test.ShouldNotBeEmpty)
	test.That(t, res.Evaluations, test.ShouldBeGreaterThan, 0)
	test.That(t, p.VariableValues(), test.ShouldResemble, res.X)
}

func TestSlsqpEvaluationLimit(t *testing.T) {
	logger := logging.NewTestLogger(t)
	p, err := newExProblem(0.5, 1.5)
	test.That(t, err, test.ShouldBeNil)

	opts := NewDefaultSolverOptions()
	opts.MaxEvaluations = 1
	solver, err := NewSlsqpSolver(logger, opts)
	test.That(t, err, test.ShouldBeNil)
	res, err := solver.Solve(context.Background(), p)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Status, test.ShouldEqual, statusMaxEval)
	test.That(t, res.Evaluations, test.ShouldEqual, 1)
	// the seed is infeasible, so the last point evaluated is returned
	test.That(t, res.X, test.ShouldResemble, []float64{0.5, 1.5})
	test.That(t, res.Cost, test.ShouldAlmostEqual, -0.25)
}

func TestSlsqpRejects(t *testing.T) {
	logger := logging.NewTestLogger(t)
	for _, alg := range []Algorithm{MMA, CCSAQ, LBFGS} {
		opts := NewDefaultSolverOptions()
		opts.Algorithm = alg
		_, err := NewSlsqpSolver(logger, opts)
		test.That(t, err, test.ShouldNotBeNil)
	}

	solver, err := NewSlsqpSolver(logger, NewDefaultSolverOptions())
	test.That(t, err, test.ShouldBeNil)
	_, err = solver.Solve(context.Background(), NewProblem())
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSlsqpCostError(t *testing.T) {
	logger := logging.NewTestLogger(t)
	p := NewProblem()
	test.That(t, p.AddVariableSet(newExVariables("var_set1", 0, 0)), test.ShouldBeNil)
	test.That(t, p.AddCostSet(&exCost{err: errBrokenCost}), test.ShouldBeNil)

	solver, err := NewSlsqpSolver(logger, NewDefaultSolverOptions())
	test.That(t, err, test.ShouldBeNil)
	_, err = solver.Solve(context.Background(), p)
	test.That(t, errors.Is(err, errBrokenCost), test.ShouldBeTrue)
}

func TestSlsqpCancelled(t *testing.T) {
	logger := logging.NewTestLogger(t)
	p, err := newExProblem(0.5, 1.5)
	test.That(t, err, test.ShouldBeNil)
	solver, err := NewSlsqpSolver(logger, NewDefaultSolverOptions())
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = solver.Solve(ctx, p)
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, p.VariableValues(), test.ShouldResemble, []float64{0.5, 1.5})
}

func TestNewSolver(t *testing.T) {
	logger := logging.NewTestLogger(t)

	opts := NewDefaultSolverOptions()
	opts.Backend = NativeBackend
	solver, err := NewSolver(logger, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, solver, test.ShouldHaveSameTypeAs, &SlsqpSolver{})

	opts.Backend = "Native"
	test.That(t, opts.Validate(), test.ShouldBeNil)

	opts.Backend = "ipopt"
	_, err = NewSolver(logger, opts)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported backend")

	opts.Backend = NativeBackend
	opts.Algorithm = MMA
	_, err = NewSolver(logger, opts)
	test.That(t, err, test.ShouldNotBeNil)
}
