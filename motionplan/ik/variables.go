// Package ik solves inverse kinematics as a smooth nonlinear program: the joint configuration is the only variable
// set, the pose error of a target frame is the cost, and gradients come from forward-mode automatic
// differentiation through the kinematic model.
package ik

import (
	"math"

	"go.viam.com/ikopt/nlp"
)

// VariablesName is the name of the configuration variable set within a problem.
const VariablesName = "configuration_vector"

// ConfigurationVariables holds the joint configuration being optimized. Every joint is bounded to [-π, π]
// regardless of the model's own limits.
type ConfigurationVariables struct {
	q []float64
}

// NewConfigurationVariables creates the variable set for nq joints seeded with q0.
func NewConfigurationVariables(nq int, q0 []float64) (*ConfigurationVariables, error) {
	if len(q0) != nq {
		return nil, nlp.NewDimensionMismatchError(VariablesName, nq, len(q0))
	}
	return &ConfigurationVariables{q: append([]float64{}, q0...)}, nil
}

// Name returns "configuration_vector".
func (v *ConfigurationVariables) Name() string {
	return VariablesName
}

// Rows returns the number of joints.
func (v *ConfigurationVariables) Rows() int {
	return len(v.q)
}

// Values returns a copy of the configuration.
func (v *ConfigurationVariables) Values() []float64 {
	return append([]float64{}, v.q...)
}

// SetVariables replaces the configuration. A vector of the wrong length is rejected and the configuration is kept.
func (v *ConfigurationVariables) SetVariables(q []float64) error {
	if len(q) != len(v.q) {
		return nlp.NewDimensionMismatchError(VariablesName, len(v.q), len(q))
	}
	copy(v.q, q)
	return nil
}

// Bounds returns [-π, π] for every joint.
func (v *ConfigurationVariables) Bounds() []nlp.Bounds {
	bounds := make([]nlp.Bounds, len(v.q))
	for i := range bounds {
		bounds[i] = nlp.Bounds{Lower: -math.Pi, Upper: math.Pi}
	}
	return bounds
}

// configuration returns the current values of the configuration variable set of a problem.
func configuration(vars *nlp.Composite) ([]float64, error) {
	set, err := vars.Component(VariablesName)
	if err != nil {
		return nil, err
	}
	return set.Values(), nil
}
