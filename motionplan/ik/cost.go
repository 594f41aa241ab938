package ik

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ikopt/autodiff"
	"go.viam.com/ikopt/nlp"
	"go.viam.com/ikopt/referenceframe"
	"go.viam.com/ikopt/spatialmath"
)

// CostName is the name of the pose cost term within a problem.
const CostName = "pose_cost"

// JacobianMode selects how the cost gradient is computed.
type JacobianMode string

const (
	// JacobianExact differentiates with dual numbers, one forward sweep per joint.
	JacobianExact JacobianMode = "exact"
	// JacobianFiniteDifference approximates the gradient with central differences.
	JacobianFiniteDifference JacobianMode = "finite-difference"
)

// PoseCost adapts PoseError to a cost term over the configuration variables.
type PoseCost struct {
	model     *referenceframe.Model[autodiff.Real]
	dualModel *referenceframe.Model[autodiff.Dual]
	source    string
	target    string
	desired   spatialmath.Pose
	weights   Weights
	mode      JacobianMode
	vars      *nlp.Composite
}

// NewPoseCost creates the cost of placing target at desired relative to source. The model is cast to dual numbers
// once here and shared by all gradient evaluations.
func NewPoseCost(
	model *referenceframe.Model[autodiff.Real],
	source, target string,
	desired spatialmath.Pose,
	weights Weights,
	mode JacobianMode,
) *PoseCost {
	return &PoseCost{
		model:     model,
		dualModel: referenceframe.Cast[autodiff.Dual](model),
		source:    source,
		target:    target,
		desired:   desired,
		weights:   weights,
		mode:      mode,
	}
}

// Name returns "pose_cost".
func (c *PoseCost) Name() string {
	return CostName
}

// LinkWithVariables gives the cost access to the configuration variables.
func (c *PoseCost) LinkWithVariables(vars *nlp.Composite) {
	c.vars = vars
}

// Cost evaluates the pose error at the current configuration.
func (c *PoseCost) Cost() (float64, error) {
	q, err := c.configuration()
	if err != nil {
		return 0, err
	}
	return c.Value(q)
}

// FillJacobianBlock writes the gradient of the pose error into block when varSet is the configuration variable set.
func (c *PoseCost) FillJacobianBlock(varSet string, block *mat.Dense) error {
	if varSet != VariablesName {
		return nil
	}
	q, err := c.configuration()
	if err != nil {
		return err
	}
	grad, err := c.Gradient(q)
	if err != nil {
		return err
	}
	if _, cols := block.Dims(); cols != len(grad) {
		return nlp.NewDimensionMismatchError(CostName+" jacobian block", len(grad), cols)
	}
	block.SetRow(0, grad)
	return nil
}

// Value evaluates the pose error at q.
func (c *PoseCost) Value(q []float64) (float64, error) {
	v, err := PoseError(autodiff.LiftSlice[autodiff.Real](q), c.model, c.source, c.target, c.desired, c.weights)
	return v.Float(), err
}

// Gradient returns the gradient of the pose error at q, computed according to the cost's Jacobian mode.
func (c *PoseCost) Gradient(q []float64) ([]float64, error) {
	if c.mode == JacobianFiniteDifference {
		return c.finiteDifferenceGradient(q)
	}
	_, grad, err := autodiff.Gradient(func(v []autodiff.Dual) (autodiff.Dual, error) {
		return PoseError(v, c.dualModel, c.source, c.target, c.desired, c.weights)
	}, q)
	return grad, err
}

func (c *PoseCost) finiteDifferenceGradient(q []float64) ([]float64, error) {
	// fd cannot propagate errors, so the first one is kept and reported after the sweep
	var evalErr error
	f := func(x []float64) float64 {
		v, err := c.Value(x)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return v
	}
	grad := fd.Gradient(nil, f, q, &fd.Settings{Formula: fd.Central})
	if evalErr != nil {
		return nil, errors.Wrap(evalErr, "finite difference gradient")
	}
	return grad, nil
}

func (c *PoseCost) configuration() ([]float64, error) {
	if c.vars == nil {
		return nil, errors.New("pose cost is not linked to any variables")
	}
	return configuration(c.vars)
}
