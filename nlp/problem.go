package nlp

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ikopt/logging"
)

// Problem is a nonlinear program assembled from variable sets, constraint sets and cost terms:
//
//	minimize    sum of cost terms(x)
//	subject to  constraint bounds on g(x), variable bounds on x.
//
// A Problem is not safe for concurrent use.
type Problem struct {
	variables   *Composite
	constraints []ConstraintSet
	costs       []CostTerm
	names       map[string]bool
}

// NewProblem returns an empty problem.
func NewProblem() *Problem {
	return &Problem{variables: NewComposite(), names: map[string]bool{}}
}

// AddVariableSet appends a set of optimization variables. Variable sets must be added before the constraints and
// costs that use them are evaluated.
func (p *Problem) AddVariableSet(set VariableSet) error {
	return p.variables.Add(set)
}

// AddConstraintSet appends a set of constraints and links it to the problem's variables.
func (p *Problem) AddConstraintSet(set ConstraintSet) error {
	if set == nil {
		return errors.New("cannot add nil constraint set")
	}
	if p.names[set.Name()] {
		return NewDuplicateComponentError("constraint or cost", set.Name())
	}
	p.names[set.Name()] = true
	set.LinkWithVariables(p.variables)
	p.constraints = append(p.constraints, set)
	return nil
}

// AddCostSet appends a cost term and links it to the problem's variables.
func (p *Problem) AddCostSet(term CostTerm) error {
	if term == nil {
		return errors.New("cannot add nil cost term")
	}
	if p.names[term.Name()] {
		return NewDuplicateComponentError("constraint or cost", term.Name())
	}
	p.names[term.Name()] = true
	term.LinkWithVariables(p.variables)
	p.costs = append(p.costs, term)
	return nil
}

// Validate checks that the problem can be handed to a solver: it needs variables and a cost, and every bound must be
// a nonempty interval. All problems found are returned together.
func (p *Problem) Validate() error {
	var err error
	if p.NumVariables() == 0 {
		err = multierr.Append(err, errors.New("problem has no variables"))
	}
	if len(p.costs) == 0 {
		err = multierr.Append(err, errors.New("problem has no cost terms"))
	}
	for _, s := range p.variables.Components() {
		err = multierr.Append(err, validateBounds(s))
	}
	for _, c := range p.constraints {
		err = multierr.Append(err, validateBounds(c))
	}
	return err
}

func validateBounds(c Component) error {
	bounds := c.Bounds()
	if len(bounds) != c.Rows() {
		return NewDimensionMismatchError(c.Name()+" bounds", c.Rows(), len(bounds))
	}
	var err error
	for i, b := range bounds {
		if bErr := b.Validate(); bErr != nil {
			err = multierr.Append(err, errors.Wrapf(bErr, "%s row %d", c.Name(), i))
		}
	}
	return err
}

// Variables returns the composite of all variable sets.
func (p *Problem) Variables() *Composite {
	return p.variables
}

// NumVariables returns the length of the stacked variable vector.
func (p *Problem) NumVariables() int {
	return p.variables.Rows()
}

// NumConstraints returns the total number of constraint rows.
func (p *Problem) NumConstraints() int {
	n := 0
	for _, c := range p.constraints {
		n += c.Rows()
	}
	return n
}

// NumCosts returns the number of cost terms.
func (p *Problem) NumCosts() int {
	return len(p.costs)
}

// VariableValues returns the current stacked variable vector.
func (p *Problem) VariableValues() []float64 {
	return p.variables.Values()
}

// VariableBounds returns the stacked bounds of all variables.
func (p *Problem) VariableBounds() []Bounds {
	return p.variables.Bounds()
}

// ConstraintBounds returns the stacked bounds of all constraint rows.
func (p *Problem) ConstraintBounds() []Bounds {
	b := make([]Bounds, 0, p.NumConstraints())
	for _, c := range p.constraints {
		b = append(b, c.Bounds()...)
	}
	return b
}

// SetVariables distributes x over the variable sets.
func (p *Problem) SetVariables(x []float64) error {
	return p.variables.SetVariables(x)
}

// EvaluateCost sets the variables to x and returns the sum of all cost terms.
func (p *Problem) EvaluateCost(x []float64) (float64, error) {
	if err := p.SetVariables(x); err != nil {
		return 0, err
	}
	return p.currentCost()
}

func (p *Problem) currentCost() (float64, error) {
	total := 0.
	for _, c := range p.costs {
		v, err := c.Cost()
		if err != nil {
			return 0, errors.Wrapf(err, "cost %q", c.Name())
		}
		total += v
	}
	return total, nil
}

// EvaluateCostGradient sets the variables to x and returns the gradient of the total cost.
func (p *Problem) EvaluateCostGradient(x []float64) ([]float64, error) {
	if err := p.SetVariables(x); err != nil {
		return nil, err
	}
	grad := make([]float64, p.NumVariables())
	for _, c := range p.costs {
		offset := 0
		for _, s := range p.variables.Components() {
			rows := s.Rows()
			if rows == 0 {
				continue
			}
			block := mat.NewDense(1, rows, nil)
			if err := c.FillJacobianBlock(s.Name(), block); err != nil {
				return nil, errors.Wrapf(err, "gradient of cost %q", c.Name())
			}
			floats.Add(grad[offset:offset+rows], block.RawRowView(0))
			offset += rows
		}
	}
	return grad, nil
}

// EvaluateConstraints sets the variables to x and returns the stacked constraint values.
func (p *Problem) EvaluateConstraints(x []float64) ([]float64, error) {
	if err := p.SetVariables(x); err != nil {
		return nil, err
	}
	return p.currentConstraints()
}

func (p *Problem) currentConstraints() ([]float64, error) {
	g := make([]float64, 0, p.NumConstraints())
	for _, c := range p.constraints {
		vals, err := c.Values()
		if err != nil {
			return nil, errors.Wrapf(err, "constraint %q", c.Name())
		}
		if len(vals) != c.Rows() {
			return nil, NewDimensionMismatchError(c.Name(), c.Rows(), len(vals))
		}
		g = append(g, vals...)
	}
	return g, nil
}

// EvaluateConstraintJacobian sets the variables to x and returns the NumConstraints by NumVariables Jacobian, built
// from the blocks each constraint set fills for each variable set. It returns nil when there are no constraints.
func (p *Problem) EvaluateConstraintJacobian(x []float64) (*mat.Dense, error) {
	if err := p.SetVariables(x); err != nil {
		return nil, err
	}
	m, n := p.NumConstraints(), p.NumVariables()
	if m == 0 || n == 0 {
		return nil, nil
	}
	jac := mat.NewDense(m, n, nil)
	row := 0
	for _, c := range p.constraints {
		rows := c.Rows()
		if rows == 0 {
			continue
		}
		col := 0
		for _, s := range p.variables.Components() {
			cols := s.Rows()
			if cols == 0 {
				continue
			}
			block := mat.NewDense(rows, cols, nil)
			if err := c.FillJacobianBlock(s.Name(), block); err != nil {
				return nil, errors.Wrapf(err, "jacobian of constraint %q", c.Name())
			}
			jac.Slice(row, row+rows, col, col+cols).(*mat.Dense).Copy(block)
			col += cols
		}
		row += rows
	}
	return jac, nil
}

// LogCurrent logs the current variables, costs and constraint values at debug level.
func (p *Problem) LogCurrent(logger logging.Logger) {
	for _, s := range p.variables.Components() {
		logger.Debugw("variables", "name", s.Name(), "values", s.Values())
	}
	for _, c := range p.costs {
		v, err := c.Cost()
		if err != nil {
			logger.Debugw("cost", "name", c.Name(), "error", err)
			continue
		}
		logger.Debugw("cost", "name", c.Name(), "value", v)
	}
	for _, c := range p.constraints {
		vals, err := c.Values()
		if err != nil {
			logger.Debugw("constraint", "name", c.Name(), "error", err)
			continue
		}
		logger.Debugw("constraint", "name", c.Name(), "values", vals, "bounds", c.Bounds())
	}
}
