// Package main is the ik-solve command, which loads a kinematic model and solves for a joint configuration that
// reaches a target pose.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/ikopt/autodiff"
	"go.viam.com/ikopt/logging"
	"go.viam.com/ikopt/motionplan/ik"
	"go.viam.com/ikopt/nlp"
	"go.viam.com/ikopt/referenceframe"
	"go.viam.com/ikopt/spatialmath"
	"go.viam.com/ikopt/utils"
)

const (
	// Flags.
	flagModel             = "model"
	flagName              = "name"
	flagSource            = "source"
	flagTarget            = "target"
	flagX                 = "x"
	flagY                 = "y"
	flagZ                 = "z"
	flagRoll              = "roll"
	flagPitch             = "pitch"
	flagYaw               = "yaw"
	flagSeed              = "seed"
	flagConfig            = "config"
	flagMaxEvaluations    = "max-evaluations"
	flagTolerance         = "tolerance"
	flagAlgorithm         = "algorithm"
	flagBackend           = "backend"
	flagJacobian          = "jacobian"
	flagMetric            = "orientation-metric"
	flagExampleConstraint = "example-constraint"
	flagDegrees           = "degrees"
	flagDebug             = "debug"

	maxEvaluationsEnvVar = "IK_MAX_EVALUATIONS"
)

type output struct {
	Model         string                   `json:"model"`
	Configuration []float64                `json:"configuration"`
	Cost          float64                  `json:"cost"`
	Status        string                   `json:"status"`
	Evaluations   int                      `json:"evaluations"`
	Position      r3.Vector                `json:"position"`
	RPY           *spatialmath.EulerAngles `json:"rpy"`
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logging.Global().Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var logger logging.Logger

	return &cli.App{
		Name:  "ik-solve",
		Usage: "solve inverse kinematics for a kinematic model",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagModel,
				Aliases: []string{"m"},
				Usage:   "load the kinematic model from JSON `FILE`",
			},
			&cli.StringFlag{
				Name:  flagName,
				Usage: "override the model name",
			},
			&cli.StringFlag{
				Name:  flagSource,
				Value: referenceframe.World,
				Usage: "frame the target pose is expressed in",
			},
			&cli.StringFlag{
				Name:  flagTarget,
				Usage: "frame to place at the target pose, defaults to the model's end effector",
			},
			&cli.Float64Flag{Name: flagX, Usage: "target x"},
			&cli.Float64Flag{Name: flagY, Usage: "target y"},
			&cli.Float64Flag{Name: flagZ, Usage: "target z"},
			&cli.Float64Flag{Name: flagRoll, Usage: "target roll"},
			&cli.Float64Flag{Name: flagPitch, Usage: "target pitch"},
			&cli.Float64Flag{Name: flagYaw, Usage: "target yaw"},
			&cli.BoolFlag{
				Name:  flagDegrees,
				Usage: "read and print roll, pitch and yaw in degrees instead of radians",
			},
			&cli.Float64SliceFlag{
				Name:  flagSeed,
				Usage: "initial joint configuration, zeros if omitted",
			},
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load solver configuration from JSON `FILE`",
			},
			&cli.IntFlag{
				Name:    flagMaxEvaluations,
				Aliases: []string{"max-iterations"},
				Usage:   "maximum cost evaluations, overrides " + maxEvaluationsEnvVar,
			},
			&cli.Float64Flag{Name: flagTolerance, Usage: "solver tolerance"},
			&cli.StringFlag{Name: flagAlgorithm, Usage: "one of slsqp, mma, ccsaq, lbfgs"},
			&cli.StringFlag{Name: flagBackend, Usage: "one of nlopt, native; native runs slsqp without cgo"},
			&cli.StringFlag{Name: flagJacobian, Usage: "one of exact, finite-difference"},
			&cli.StringFlag{Name: flagMetric, Usage: "one of trace, geodesic, skew"},
			&cli.BoolFlag{
				Name:  flagExampleConstraint,
				Usage: "add the q0^2 + q1 = 1 example constraint",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = logging.NewDebugLogger("ik-solve")
			} else {
				logger = logging.NewLogger("ik-solve")
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return solveAction(c, logger)
		},
		Commands: []*cli.Command{
			{
				Name:  "describe",
				Usage: "print the frames of the model given by --" + flagModel,
				Action: func(c *cli.Context) error {
					model, err := loadModel(c)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, model.String())
					return nil
				},
			},
			{
				Name:  "schema",
				Usage: "print the JSON schema of the --" + flagConfig + " file",
				Action: func(c *cli.Context) error {
					out, err := json.MarshalIndent(jsonschema.Reflect(&ik.Config{}), "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, string(out))
					return nil
				},
			},
		},
	}
}

func loadModel(c *cli.Context) (*referenceframe.Model[autodiff.Real], error) {
	path := c.String(flagModel)
	if path == "" {
		return nil, errors.Errorf("--%s is required", flagModel)
	}
	return referenceframe.ParseModelJSONFile(path, c.String(flagName))
}

func solveAction(c *cli.Context, logger logging.Logger) error {
	model, err := loadModel(c)
	if err != nil {
		return err
	}
	logger.Debugf("loaded model\n%s", model)
	cfg, err := configFromFlags(c, logger)
	if err != nil {
		return err
	}

	target := c.String(flagTarget)
	if target == "" {
		target = model.EndEffector()
		if target == "" {
			return errors.Errorf("model %q has more than one end effector, pass --%s", model.Name(), flagTarget)
		}
	}
	seed := c.Float64Slice(flagSeed)
	if len(seed) == 0 {
		seed = make([]float64, len(model.DoF()))
	}
	rpy := &spatialmath.EulerAngles{Roll: c.Float64(flagRoll), Pitch: c.Float64(flagPitch), Yaw: c.Float64(flagYaw)}
	if c.Bool(flagDegrees) {
		rpy = mapRPY(rpy, utils.DegToRad)
	}
	desired := spatialmath.NewPose(r3.Vector{X: c.Float64(flagX), Y: c.Float64(flagY), Z: c.Float64(flagZ)}, rpy)

	ctx := c.Context
	if c.Bool(flagDebug) {
		ctx = logging.EnableDebugMode(ctx, "")
	}
	sol, err := ik.Solve(ctx, logger, model, c.String(flagSource), target, desired, seed, cfg)
	if err != nil {
		return err
	}

	h, err := referenceframe.ForwardKinematics(
		model, autodiff.LiftSlice[autodiff.Real](sol.Configuration), c.String(flagSource), target)
	if err != nil {
		return err
	}
	reached := h.Pose()
	rpy = spatialmath.RotationMatrixToRPY(reached.Orientation().RotationMatrix())
	if c.Bool(flagDegrees) {
		rpy = mapRPY(rpy, utils.RadToDeg)
	}
	out := output{
		Model:         model.Name(),
		Configuration: sol.Configuration,
		Cost:          sol.Cost,
		Status:        sol.Status,
		Evaluations:   sol.Evaluations,
		Position:      reached.Point(),
		RPY:           rpy,
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func mapRPY(ea *spatialmath.EulerAngles, f func(float64) float64) *spatialmath.EulerAngles {
	return &spatialmath.EulerAngles{Roll: f(ea.Roll), Pitch: f(ea.Pitch), Yaw: f(ea.Yaw)}
}

// configFromFlags layers the config file, the environment and then explicit flags over the defaults.
func configFromFlags(c *cli.Context, logger logging.Logger) (*ik.Config, error) {
	cfg := ik.NewDefaultConfig()
	if path := c.String(flagConfig); path != "" {
		//nolint:gosec
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if cfg, err = ik.NewConfigFromJSON(data); err != nil {
			return nil, err
		}
	}
	cfg.MaxEvaluations = utils.GetenvInt(maxEvaluationsEnvVar, cfg.MaxEvaluations, logger)
	if c.IsSet(flagMaxEvaluations) {
		cfg.MaxEvaluations = c.Int(flagMaxEvaluations)
	}
	if c.IsSet(flagTolerance) {
		cfg.Tolerance = c.Float64(flagTolerance)
	}
	if c.IsSet(flagAlgorithm) {
		cfg.Algorithm = nlp.Algorithm(c.String(flagAlgorithm))
	}
	if c.IsSet(flagBackend) {
		cfg.Backend = nlp.Backend(c.String(flagBackend))
	}
	if c.IsSet(flagJacobian) {
		cfg.JacobianMode = ik.JacobianMode(c.String(flagJacobian))
	}
	if c.IsSet(flagMetric) {
		cfg.Weights.Metric = ik.OrientationMetric(c.String(flagMetric))
	}
	if c.Bool(flagExampleConstraint) {
		cfg.Constraints = append(cfg.Constraints, ik.NewExampleConstraint())
	}
	return cfg, cfg.Validate()
}
