package nlp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// evaluator adapts a Problem to solver callbacks of the form f(x, gradient) that cannot return errors. The first
// evaluation error is kept and stop is called so the solver can abort. Constraint values and Jacobians are cached for
// the last x since solvers query each row separately.
//
// The lowest cost seen at a feasible point is kept for solvers that discard their iterate on failure. Feasibility
// allows each constraint row a slack of tol.
type evaluator struct {
	problem *Problem
	tol     float64
	stop    func(error)
	err     error

	evaluations int
	best        float64
	bestX       []float64
	lastX       []float64

	cacheX   []float64
	cacheG   []float64
	cacheJac *mat.Dense
}

func newEvaluator(problem *Problem, x0 []float64, tol float64) *evaluator {
	return &evaluator{problem: problem, tol: tol, best: math.Inf(1), lastX: append([]float64{}, x0...)}
}

// result returns the best feasible point seen and its cost, or the last evaluated point and +Inf when no feasible
// point was found.
func (e *evaluator) result() ([]float64, float64) {
	if e.bestX == nil {
		return e.lastX, math.Inf(1)
	}
	return e.bestX, e.best
}

func (e *evaluator) fail(err error) {
	if e.err != nil {
		return
	}
	e.err = err
	if e.stop != nil {
		e.stop(err)
	}
}

// objective returns the total cost at x and fills gradient when it is non-empty.
func (e *evaluator) objective(x, gradient []float64) float64 {
	if e.err != nil {
		return math.NaN()
	}
	e.evaluations++
	cost, err := e.problem.EvaluateCost(x)
	if err != nil {
		e.fail(err)
		return math.NaN()
	}
	if len(gradient) > 0 {
		grad, err := e.problem.EvaluateCostGradient(x)
		if err != nil {
			e.fail(err)
			return math.NaN()
		}
		copy(gradient, grad)
	}
	e.lastX = append(e.lastX[:0], x...)
	if cost < e.best && e.feasible(x) {
		e.best = cost
		e.bestX = append(e.bestX[:0], x...)
	}
	return cost
}

// feasible reports whether x satisfies the variable bounds and every constraint row within tol.
func (e *evaluator) feasible(x []float64) bool {
	for i, b := range e.problem.VariableBounds() {
		if x[i] < b.Lower || x[i] > b.Upper {
			return false
		}
	}
	if e.problem.NumConstraints() == 0 {
		return true
	}
	g, _, err := e.constraints(x)
	if err != nil {
		e.fail(err)
		return false
	}
	for i, b := range e.problem.ConstraintBounds() {
		if g[i] < b.Lower-e.tol || g[i] > b.Upper+e.tol {
			return false
		}
	}
	return true
}

func (e *evaluator) constraints(x []float64) ([]float64, *mat.Dense, error) {
	if e.cacheX != nil && floats.Equal(e.cacheX, x) {
		return e.cacheG, e.cacheJac, nil
	}
	g, err := e.problem.EvaluateConstraints(x)
	if err != nil {
		return nil, nil, err
	}
	jac, err := e.problem.EvaluateConstraintJacobian(x)
	if err != nil {
		return nil, nil, err
	}
	e.cacheX = append(e.cacheX[:0], x...)
	e.cacheG, e.cacheJac = g, jac
	return g, jac, nil
}

// constraintRow returns sign * (g_i(x) - offset) and its gradient.
func (e *evaluator) constraintRow(i int, offset, sign float64) func(x, gradient []float64) float64 {
	return func(x, gradient []float64) float64 {
		if e.err != nil {
			return math.NaN()
		}
		g, jac, err := e.constraints(x)
		if err != nil {
			e.fail(err)
			return math.NaN()
		}
		if len(gradient) > 0 {
			floats.ScaleTo(gradient, sign, jac.RawRowView(i))
		}
		return sign * (g[i] - offset)
	}
}
