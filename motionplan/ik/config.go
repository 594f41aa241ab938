package ik

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/ikopt/nlp"
)

const (
	// The default number of solver evaluations.
	defaultMaxEvaluations = 250

	// The default solver tolerance on cost and configuration changes.
	defaultTolerance = 1e-9
)

// Config holds the knobs of a solve. The zero value is not valid; start from NewDefaultConfig.
type Config struct {
	Algorithm nlp.Algorithm `json:"algorithm"`

	// Solver library. Empty selects nlopt on cgo builds and the native SLSQP otherwise.
	Backend nlp.Backend `json:"backend,omitempty"`

	JacobianMode JacobianMode `json:"jacobian_mode"`

	// Maximum number of cost evaluations before the solver gives up. This is not an iteration count: each solver
	// iteration may evaluate the cost several times. The JSON key keeps its historical name.
	MaxEvaluations int `json:"max_iterations"`

	// Solver tolerance on cost and configuration changes.
	Tolerance float64 `json:"tolerance"`

	Weights Weights `json:"weights"`

	// Extra constraint sets added to the problem. None by default.
	Constraints []nlp.ConstraintSet `json:"-"`
}

// NewDefaultConfig returns SLSQP with exact gradients, 250 evaluations, a 1e-9 tolerance, default weights and no
// constraints.
func NewDefaultConfig() *Config {
	return &Config{
		Algorithm:      nlp.SLSQP,
		JacobianMode:   JacobianExact,
		MaxEvaluations: defaultMaxEvaluations,
		Tolerance:      defaultTolerance,
		Weights:        NewDefaultWeights(),
	}
}

// NewConfigFromJSON overlays the JSON document onto the defaults.
func NewConfigFromJSON(data []byte) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal ik config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns every problem with the config.
func (c *Config) Validate() error {
	err := c.solverOptions().Validate()
	switch JacobianMode(strings.ToLower(string(c.JacobianMode))) {
	case JacobianExact, JacobianFiniteDifference:
	default:
		err = multierr.Append(err, errors.Errorf("unsupported jacobian mode %q", c.JacobianMode))
	}
	for i, w := range c.Weights.Position {
		if w < 0 {
			err = multierr.Append(err, errors.Errorf("position weight %d cannot be negative, got %g", i, w))
		}
	}
	if c.Weights.Regularization < 0 {
		err = multierr.Append(err, errors.Errorf("regularization weight cannot be negative, got %g", c.Weights.Regularization))
	}
	if c.Weights.Orientation < 0 {
		err = multierr.Append(err, errors.Errorf("orientation weight cannot be negative, got %g", c.Weights.Orientation))
	}
	err = multierr.Append(err, c.Weights.Metric.validate())
	for _, con := range c.Constraints {
		if con == nil {
			err = multierr.Append(err, errors.New("constraints cannot contain nil"))
		}
	}
	return err
}

func (c *Config) solverOptions() nlp.SolverOptions {
	opts := nlp.NewDefaultSolverOptions()
	opts.Algorithm = c.Algorithm
	opts.Backend = c.Backend
	opts.MaxEvaluations = c.MaxEvaluations
	opts.Tolerance = c.Tolerance
	return opts
}

func (c *Config) jacobianMode() JacobianMode {
	return JacobianMode(strings.ToLower(string(c.JacobianMode)))
}
