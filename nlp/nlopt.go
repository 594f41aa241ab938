//go:build !windows && !no_cgo

package nlp

import (
	"context"
	"math"
	"sync"

	"github.com/go-nlopt/nlopt"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/ikopt/logging"
)

const defaultBackend = NloptBackend

var nloptAlgorithms = map[Algorithm]int{
	SLSQP: nlopt.LD_SLSQP,
	MMA:   nlopt.LD_MMA,
	CCSAQ: nlopt.LD_CCSAQ,
	LBFGS: nlopt.LD_LBFGS,
}

// NloptSolver solves problems with one of nlopt's gradient based local algorithms.
type NloptSolver struct {
	logger logging.Logger
	opts   SolverOptions
}

type optimizeReturn struct {
	solution []float64
	score    float64
	err      error
}

// NewNloptSolver returns a solver with the given options.
func NewNloptSolver(logger logging.Logger, opts SolverOptions) (*NloptSolver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.Algorithm = opts.algorithm()
	return &NloptSolver{logger: logger, opts: opts}, nil
}

// Solve runs a single local optimization from the problem's current variables. Failure to converge is not an error:
// the best point evaluated is returned along with nlopt's status. Errors are returned for invalid problems,
// evaluation failures and context cancellation.
func (s *NloptSolver) Solve(ctx context.Context, problem *Problem) (*Result, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	if s.opts.Algorithm == LBFGS && problem.NumConstraints() > 0 {
		return nil, errors.Errorf("algorithm %q does not support constraints", s.opts.Algorithm)
	}

	n := problem.NumVariables()
	opt, err := nlopt.NewNLopt(nloptAlgorithms[s.opts.Algorithm], uint(n))
	if err != nil {
		return nil, errors.Wrap(err, "nlopt creation error")
	}
	defer opt.Destroy()

	lower, upper := boundsToArrays(problem.VariableBounds())
	x0 := problem.VariableValues()

	eval := newEvaluator(problem, x0, s.opts.ConstraintTolerance)
	eval.stop = func(evalErr error) {
		s.logger.Errorw("error evaluating problem in nlopt", "error", evalErr)
		if stopErr := opt.ForceStop(); stopErr != nil {
			s.logger.Errorw("forcestop error", "error", stopErr)
		}
	}

	err = multierr.Combine(
		opt.SetFtolRel(s.opts.Tolerance),
		opt.SetFtolAbs(s.opts.Tolerance),
		opt.SetXtolRel(s.opts.Tolerance),
		opt.SetLowerBounds(lower),
		opt.SetUpperBounds(upper),
		opt.SetMinObjective(eval.objective),
		opt.SetMaxEval(s.opts.MaxEvaluations),
	)
	for i, b := range problem.ConstraintBounds() {
		err = multierr.Combine(err, s.addConstraintRow(opt, eval, i, b))
	}
	if err != nil {
		return nil, err
	}

	var activeSolvers sync.WaitGroup
	solveChan := make(chan *optimizeReturn, 1)
	activeSolvers.Add(1)
	utils.PanicCapturingGo(func() {
		defer activeSolvers.Done()
		solutionRaw, result, nloptErr := opt.Optimize(x0)
		solveChan <- &optimizeReturn{solutionRaw, result, nloptErr}
	})

	var solution *optimizeReturn
	select {
	case <-ctx.Done():
		err = opt.ForceStop()
		activeSolvers.Wait()
		return nil, multierr.Combine(err, ctx.Err())
	case solution = <-solveChan:
	}

	if eval.err != nil {
		return nil, eval.err
	}

	res := &Result{Status: opt.LastStatus(), Evaluations: eval.evaluations}
	if solution.err != nil || solution.solution == nil {
		// nlopt discards its iterate on failure codes such as ROUNDOFF_LIMITED
		s.logger.Debugw("nlopt did not return a solution, using best evaluated point", "status", res.Status, "error", solution.err)
		res.X, res.Cost = eval.result()
		if math.IsInf(res.Cost, 1) {
			cost, err := problem.EvaluateCost(res.X)
			if err != nil {
				return nil, err
			}
			res.Cost = cost
		}
	} else {
		res.X, res.Cost = solution.solution, solution.score
	}
	if err := problem.SetVariables(res.X); err != nil {
		return nil, err
	}
	return res, nil
}

// addConstraintRow registers row i of the stacked constraints. Equalities become g_i - b = 0, inequalities
// b.Lower - g_i <= 0 and g_i - b.Upper <= 0 for each finite side.
func (s *NloptSolver) addConstraintRow(opt *nlopt.NLopt, eval *evaluator, i int, b Bounds) error {
	tol := s.opts.ConstraintTolerance
	if b.IsEquality() {
		return opt.AddEqualityConstraint(eval.constraintRow(i, b.Lower, 1), tol)
	}
	var err error
	if !math.IsInf(b.Lower, -1) {
		err = multierr.Combine(err, opt.AddInequalityConstraint(eval.constraintRow(i, b.Lower, -1), tol))
	}
	if !math.IsInf(b.Upper, 1) {
		err = multierr.Combine(err, opt.AddInequalityConstraint(eval.constraintRow(i, b.Upper, 1), tol))
	}
	return err
}

func boundsToArrays(bounds []Bounds) ([]float64, []float64) {
	lower := make([]float64, 0, len(bounds))
	upper := make([]float64, 0, len(bounds))
	for _, b := range bounds {
		lower = append(lower, b.Lower)
		upper = append(upper, b.Upper)
	}
	return lower, upper
}
