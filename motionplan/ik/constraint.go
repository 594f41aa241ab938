package ik

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ikopt/nlp"
)

// ExampleConstraint is the single equality q0² + q1 = 1 over the configuration variables. It has no kinematic
// meaning and only shows how a constraint set plugs into a solve; it is never added unless a caller passes it in
// Config.Constraints.
type ExampleConstraint struct {
	vars *nlp.Composite
}

// NewExampleConstraint returns the q0² + q1 = 1 constraint.
func NewExampleConstraint() *ExampleConstraint {
	return &ExampleConstraint{}
}

// Name returns "constraint1".
func (c *ExampleConstraint) Name() string {
	return "constraint1"
}

// Rows returns 1.
func (c *ExampleConstraint) Rows() int {
	return 1
}

// Bounds pins the single row to 1.
func (c *ExampleConstraint) Bounds() []nlp.Bounds {
	return []nlp.Bounds{{Lower: 1, Upper: 1}}
}

// LinkWithVariables gives the constraint access to the configuration variables.
func (c *ExampleConstraint) LinkWithVariables(vars *nlp.Composite) {
	c.vars = vars
}

// Values returns q0² + q1.
func (c *ExampleConstraint) Values() ([]float64, error) {
	q, err := c.configuration()
	if err != nil {
		return nil, err
	}
	return []float64{q[0]*q[0] + q[1]}, nil
}

// FillJacobianBlock writes (2·q0, 1) into the first two columns of block.
func (c *ExampleConstraint) FillJacobianBlock(varSet string, block *mat.Dense) error {
	if varSet != VariablesName {
		return nil
	}
	q, err := c.configuration()
	if err != nil {
		return err
	}
	block.Set(0, 0, 2*q[0])
	block.Set(0, 1, 1)
	return nil
}

func (c *ExampleConstraint) configuration() ([]float64, error) {
	if c.vars == nil {
		return nil, errors.New("example constraint is not linked to any variables")
	}
	q, err := configuration(c.vars)
	if err != nil {
		return nil, err
	}
	if len(q) < 2 {
		return nil, nlp.NewDimensionMismatchError(c.Name(), 2, len(q))
	}
	return q, nil
}
