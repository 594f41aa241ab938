package nlp

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// The test problem is
//
//	minimize   -(x1 - 2)^2
//	subject to x0^2 + x1 = 1, -1 <= x0 <= 1
//
// whose solution is x = (1, 0) with cost -4.

type exVariables struct {
	name   string
	x      []float64
	bounds []Bounds
}

func newExVariables(name string, x ...float64) *exVariables {
	bounds := make([]Bounds, len(x))
	for i := range bounds {
		bounds[i] = NoBound
	}
	if len(bounds) > 0 {
		bounds[0] = Bounds{Lower: -1, Upper: 1}
	}
	return &exVariables{name: name, x: x, bounds: bounds}
}

func (v *exVariables) Name() string      { return v.name }
func (v *exVariables) Rows() int         { return len(v.x) }
func (v *exVariables) Bounds() []Bounds  { return v.bounds }
func (v *exVariables) Values() []float64 { return append([]float64{}, v.x...) }

func (v *exVariables) SetVariables(x []float64) error {
	if len(x) != len(v.x) {
		return NewDimensionMismatchError(v.name, len(v.x), len(x))
	}
	copy(v.x, x)
	return nil
}

type exConstraint struct {
	vars *Composite
}

func (c *exConstraint) Name() string                      { return "constraint1" }
func (c *exConstraint) Rows() int                         { return 1 }
func (c *exConstraint) Bounds() []Bounds                  { return []Bounds{{Lower: 1, Upper: 1}} }
func (c *exConstraint) LinkWithVariables(vars *Composite) { c.vars = vars }

func (c *exConstraint) Values() ([]float64, error) {
	set, err := c.vars.Component("var_set1")
	if err != nil {
		return nil, err
	}
	x := set.Values()
	return []float64{x[0]*x[0] + x[1]}, nil
}

func (c *exConstraint) FillJacobianBlock(varSet string, block *mat.Dense) error {
	if varSet != "var_set1" {
		return nil
	}
	set, err := c.vars.Component(varSet)
	if err != nil {
		return err
	}
	x := set.Values()
	block.Set(0, 0, 2*x[0])
	block.Set(0, 1, 1)
	return nil
}

type exCost struct {
	vars *Composite
	err  error
}

func (c *exCost) Name() string                      { return "cost_term1" }
func (c *exCost) LinkWithVariables(vars *Composite) { c.vars = vars }

func (c *exCost) Cost() (float64, error) {
	if c.err != nil {
		return 0, c.err
	}
	set, err := c.vars.Component("var_set1")
	if err != nil {
		return 0, err
	}
	x := set.Values()
	return -math.Pow(x[1]-2, 2), nil
}

func (c *exCost) FillJacobianBlock(varSet string, block *mat.Dense) error {
	if varSet != "var_set1" {
		return nil
	}
	set, err := c.vars.Component(varSet)
	if err != nil {
		return err
	}
	x := set.Values()
	block.Set(0, 0, 0)
	block.Set(0, 1, -2*(x[1]-2))
	return nil
}

var errBrokenCost = errors.New("broken cost")

func newExProblem(x0, x1 float64) (*Problem, error) {
	p := NewProblem()
	if err := p.AddVariableSet(newExVariables("var_set1", x0, x1)); err != nil {
		return nil, err
	}
	if err := p.AddConstraintSet(&exConstraint{}); err != nil {
		return nil, err
	}
	if err := p.AddCostSet(&exCost{}); err != nil {
		return nil, err
	}
	return p, nil
}
