package nlp

import (
	"context"
	"fmt"
	"math"

	"github.com/curioloop/optimizer/slsqp"
	"github.com/pkg/errors"

	"go.viam.com/ikopt/logging"
)

// Status reported when the native solver spends its evaluation budget.
const statusMaxEval = "MAXEVAL_REACHED"

// SlsqpSolver runs SLSQP in pure Go. It is the default on builds without cgo.
type SlsqpSolver struct {
	logger logging.Logger
	opts   SolverOptions
}

// NewSlsqpSolver returns a native solver with the given options. Only the SLSQP algorithm is accepted.
func NewSlsqpSolver(logger logging.Logger, opts SolverOptions) (*SlsqpSolver, error) {
	opts.Backend = NativeBackend
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.Algorithm = opts.algorithm()
	return &SlsqpSolver{logger: logger, opts: opts}, nil
}

// Solve runs SLSQP from the problem's current variables. Like NloptSolver, failure to converge is reported through
// Result.Status and the best point evaluated is returned.
func (s *SlsqpSolver) Solve(ctx context.Context, problem *Problem) (*Result, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}

	x0 := problem.VariableValues()
	eval := newEvaluator(problem, x0, s.opts.ConstraintTolerance)
	// slsqp recovers panics raised inside callbacks and ends the fit with BadArgument
	eval.stop = func(evalErr error) {
		panic(evalErr)
	}
	exhausted := false
	objective := func(x, gradient []float64) float64 {
		if err := ctx.Err(); err != nil {
			eval.fail(err)
		}
		if eval.evaluations >= s.opts.MaxEvaluations {
			exhausted = true
			panic(errors.New(statusMaxEval))
		}
		return eval.objective(x, gradient)
	}

	var eq, neq []slsqp.Evaluation
	for i, b := range problem.ConstraintBounds() {
		if b.IsEquality() {
			eq = append(eq, eval.constraintRow(i, b.Lower, 1))
			continue
		}
		if !math.IsInf(b.Lower, -1) {
			neq = append(neq, eval.constraintRow(i, b.Lower, 1))
		}
		if !math.IsInf(b.Upper, 1) {
			neq = append(neq, eval.constraintRow(i, b.Upper, -1))
		}
	}
	bounds := make([]slsqp.Bound, 0, len(x0))
	for _, b := range problem.VariableBounds() {
		bounds = append(bounds, slsqp.Bound{Lower: b.Lower, Upper: b.Upper})
	}

	accuracy := s.opts.Tolerance
	if accuracy <= 0 {
		accuracy = defaultTolerance
	}
	optimizer, err := (&slsqp.Problem{
		N: len(x0),
		Stop: slsqp.Termination{
			Accuracy:      accuracy,
			MaxIterations: s.opts.MaxEvaluations,
		},
		Object:  objective,
		EqCons:  eq,
		NeqCons: neq,
		Bounds:  bounds,
	}).New()
	if err != nil {
		return nil, errors.Wrap(err, "slsqp creation error")
	}
	fit := optimizer.Fit(x0, optimizer.Init())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if eval.err != nil {
		s.logger.Errorw("error evaluating problem in slsqp", "error", eval.err)
		return nil, eval.err
	}

	res := &Result{Status: slsqpStatus(fit), Evaluations: eval.evaluations}
	if exhausted {
		res.Status = statusMaxEval
	}
	if fit.OK {
		res.X, res.Cost = fit.X, fit.F
	} else {
		// the final iterate of an unconverged fit may be a rejected line search step
		s.logger.Debugw("slsqp did not converge, using best evaluated point", "status", res.Status, "iterations", fit.NumIter)
		res.X, res.Cost = eval.result()
		if math.IsInf(res.Cost, 1) {
			cost, err := problem.EvaluateCost(res.X)
			if err != nil {
				return nil, err
			}
			res.Cost = cost
		}
	}
	if err := problem.SetVariables(res.X); err != nil {
		return nil, err
	}
	return res, nil
}

func slsqpStatus(fit *slsqp.Result) string {
	switch fit.Status {
	case slsqp.OK:
		return "SUCCESS"
	case slsqp.SQPExceedMaxIter:
		return "MAXITER_REACHED"
	case slsqp.SearchNotDescent:
		return "SEARCH_NOT_DESCENT"
	case slsqp.ConsIncompatible:
		return "CONSTRAINTS_INCOMPATIBLE"
	case slsqp.NNLSExceedMaxIter:
		return "NNLS_MAXITER_REACHED"
	case slsqp.LSISingularE, slsqp.LSEISingularC, slsqp.HFTIRankDefect:
		return "SINGULAR_SUBPROBLEM"
	case slsqp.BadArgument:
		return "FAILURE"
	default:
		return fmt.Sprintf("STATUS_%d", fit.Status)
	}
}
