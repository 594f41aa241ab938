// Package nlp describes smooth constrained nonlinear programs as a collection of named variable sets, constraint
// sets and cost terms, and solves them with a gradient based solver.
//
// Constraint sets and cost terms only know about the variable sets they depend on by name. Each fills the Jacobian
// block for one variable set at a time, and the Problem places those blocks into the full Jacobian.
package nlp

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Bounds is the admissible interval of a single row. Lower == Upper denotes an equality.
type Bounds struct {
	Lower float64
	Upper float64
}

var (
	// NoBound leaves a row unconstrained.
	NoBound = Bounds{Lower: math.Inf(-1), Upper: math.Inf(1)}
	// BoundZero fixes a row to zero.
	BoundZero = Bounds{}
	// BoundGreaterZero requires a row to be nonnegative.
	BoundGreaterZero = Bounds{Lower: 0, Upper: math.Inf(1)}
	// BoundSmallerZero requires a row to be nonpositive.
	BoundSmallerZero = Bounds{Lower: math.Inf(-1), Upper: 0}
)

// IsEquality reports whether the bound pins the row to a single value.
func (b Bounds) IsEquality() bool {
	return b.Lower == b.Upper
}

// Validate returns an error when the interval is empty or NaN.
func (b Bounds) Validate() error {
	if math.IsNaN(b.Lower) || math.IsNaN(b.Upper) {
		return errors.New("bounds cannot be NaN")
	}
	if b.Lower > b.Upper {
		return errors.Errorf("lower bound %f greater than upper bound %f", b.Lower, b.Upper)
	}
	return nil
}

// Component is the part shared by variable sets and constraint sets: a named block of Rows() rows, each with bounds.
type Component interface {
	Name() string
	Rows() int
	Bounds() []Bounds
}

// VariableSet is a named block of optimization variables.
type VariableSet interface {
	Component
	// Values returns a copy of the current values.
	Values() []float64
	// SetVariables replaces all values with a copy of x. It returns a DimensionMismatchError and changes nothing if
	// len(x) != Rows().
	SetVariables(x []float64) error
}

// ConstraintSet is a named block of constraint rows g(x) with Lower <= g(x) <= Upper.
type ConstraintSet interface {
	Component
	// LinkWithVariables gives the set access to the current values of the problem's variables.
	LinkWithVariables(vars *Composite)
	// Values evaluates the constraint rows at the current variables.
	Values() ([]float64, error)
	// FillJacobianBlock writes d(rows)/d(varSet) into block, which is Rows() by the variable set's rows and zeroed.
	// Sets that do not depend on varSet leave block untouched.
	FillJacobianBlock(varSet string, block *mat.Dense) error
}

// CostTerm is a named scalar term of the objective.
type CostTerm interface {
	Name() string
	// LinkWithVariables gives the term access to the current values of the problem's variables.
	LinkWithVariables(vars *Composite)
	// Cost evaluates the term at the current variables.
	Cost() (float64, error)
	// FillJacobianBlock writes the gradient with respect to varSet into the single row of block. Terms that do not
	// depend on varSet leave block untouched.
	FillJacobianBlock(varSet string, block *mat.Dense) error
}
