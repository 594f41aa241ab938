package ik

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"go.viam.com/ikopt/autodiff"
	"go.viam.com/ikopt/logging"
	"go.viam.com/ikopt/nlp"
	"go.viam.com/ikopt/referenceframe"
	"go.viam.com/ikopt/spatialmath"
)

// Solution is the outcome of a solve. Configuration is the final configuration whether or not the solver
// converged; Status is the solver's termination reason, e.g. "XTOL_REACHED" or "MAXEVAL_REACHED".
type Solution struct {
	Configuration []float64
	Cost          float64
	Status        string
	Evaluations   int
}

// Solve searches for a configuration of model that places target at desired relative to source, starting from q0.
// Seed values are wrapped into [-π, π] so that a seed given in another turn starts inside the joint bounds.
// Unknown frames, non-finite seeds and a seed of the wrong length are rejected before the solver runs. Failing to
// reach the desired pose is not an error: the best configuration found is returned with the solver's status. Nothing
// is retried.
func Solve(
	ctx context.Context,
	logger logging.Logger,
	model *referenceframe.Model[autodiff.Real],
	source, target string,
	desired spatialmath.Pose,
	q0 []float64,
	cfg *Config,
) (*Solution, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, errors.New("cannot solve for nil model")
	}
	if desired == nil {
		return nil, errors.New("cannot solve for nil pose")
	}
	if err := model.CheckFrames(source, target); err != nil {
		return nil, err
	}
	seed, err := wrapConfiguration(q0)
	if err != nil {
		return nil, err
	}
	vars, err := NewConfigurationVariables(len(model.DoF()), seed)
	if err != nil {
		return nil, err
	}

	problem := nlp.NewProblem()
	if err := problem.AddVariableSet(vars); err != nil {
		return nil, err
	}
	for _, c := range cfg.Constraints {
		if err := problem.AddConstraintSet(c); err != nil {
			return nil, err
		}
	}
	cost := NewPoseCost(model, source, target, desired, cfg.Weights, cfg.jacobianMode())
	if err := problem.AddCostSet(cost); err != nil {
		return nil, err
	}

	solver, err := nlp.NewSolver(logger.Sublogger("nlp"), cfg.solverOptions())
	if err != nil {
		return nil, err
	}
	logger.CDebugw(ctx, "solving inverse kinematics",
		"model", model.Name(),
		"source", source,
		"target", target,
		"seed", seed,
		"backend", cfg.Backend,
		"algorithm", cfg.Algorithm,
		"jacobian", cfg.JacobianMode,
	)
	res, err := solver.Solve(ctx, problem)
	if err != nil {
		return nil, errors.Wrap(err, "inverse kinematics solve failed")
	}
	problem.LogCurrent(logger)
	logResidual(ctx, logger, model, source, target, desired, res)

	return &Solution{
		Configuration: res.X,
		Cost:          res.Cost,
		Status:        res.Status,
		Evaluations:   res.Evaluations,
	}, nil
}

// wrapConfiguration returns q with every value mapped into [-π, π].
func wrapConfiguration(q []float64) ([]float64, error) {
	wrapped := make([]float64, len(q))
	for i, v := range q {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Errorf("seed value %d is not finite: %g", i, v)
		}
		wrapped[i] = math.Remainder(v, 2*math.Pi)
	}
	return wrapped, nil
}

// InverseKinematics solves with the default config and the global logger, returning only the configuration.
func InverseKinematics(
	model *referenceframe.Model[autodiff.Real],
	source, target string,
	desired spatialmath.Pose,
	q0 []float64,
) ([]float64, error) {
	sol, err := Solve(context.Background(), logging.Global(), model, source, target, desired, q0, nil)
	if err != nil {
		return nil, err
	}
	return sol.Configuration, nil
}

// logResidual logs where the solution left target, with roll/pitch/yaw of the reached and desired orientations.
func logResidual(
	ctx context.Context,
	logger logging.Logger,
	model *referenceframe.Model[autodiff.Real],
	source, target string,
	desired spatialmath.Pose,
	res *nlp.Result,
) {
	hst, err := referenceframe.ForwardKinematics(model, autodiff.LiftSlice[autodiff.Real](res.X), source, target)
	if err != nil {
		logger.CDebugw(ctx, "could not compute reached pose", "error", err)
		return
	}
	reached := hst.Pose()
	logger.CDebugw(ctx, "inverse kinematics finished",
		"status", res.Status,
		"cost", res.Cost,
		"evaluations", res.Evaluations,
		"position_error", reached.Point().Distance(desired.Point()),
		"rpy_reached", spatialmath.RotationMatrixToRPY(reached.Orientation().RotationMatrix()),
		"rpy_desired", spatialmath.RotationMatrixToRPY(desired.Orientation().RotationMatrix()),
	)
}
