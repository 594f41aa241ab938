package ik

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/ikopt/autodiff"
	"go.viam.com/ikopt/referenceframe"
	"go.viam.com/ikopt/spatialmath"
)

// OrientationMetric selects how the rotation R_v_r = R_desired · R_currentᵀ left over between the desired and current
// orientation is reduced to a scalar error e. All metrics are zero at R_v_r = I and behave like θ² for a small
// residual rotation by θ.
type OrientationMetric string

const (
	// TraceMetric is trace(I - R_v_r) = 2(1 - cos θ). It is smooth everywhere and has a vanishing gradient at θ = π.
	TraceMetric OrientationMetric = "trace"
	// GeodesicMetric is θ², the squared angle of R_v_r. The derivative of acos is unbounded at θ = 0 and θ = π.
	// Within 1e-9 of θ = 0 (in cos θ) the trace metric is used instead; the two agree to second order there. Within
	// 1e-9 of θ = π the angle is held at its value on that boundary, so the gradient there is zero like that of the
	// trace metric.
	GeodesicMetric OrientationMetric = "geodesic"
	// SkewMetric is sin²θ, the squared norm of the skew part of R_v_r. It cannot tell θ = π from θ = 0.
	SkewMetric OrientationMetric = "skew"
)

const geodesicCutoff = 1e-9

// Weights scale the terms of the pose error.
type Weights struct {
	// Diagonal of the position weight K.
	Position [3]float64 `json:"position"`

	// λ in qᵀ(λI)q.
	Regularization float64 `json:"regularization"`

	// γ in e·γ·e.
	Orientation float64 `json:"orientation"`

	Metric OrientationMetric `json:"orientation_metric"`
}

// NewDefaultWeights returns K = I, λ = 1e-6, γ = 50 and the trace metric.
func NewDefaultWeights() Weights {
	return Weights{
		Position:       [3]float64{1, 1, 1},
		Regularization: 1e-6,
		Orientation:    50,
		Metric:         TraceMetric,
	}
}

// UnmarshalJSON overlays the document onto w. A position weight must list all three axes.
func (w *Weights) UnmarshalJSON(data []byte) error {
	type weights Weights
	aux := struct {
		*weights
		Position []float64 `json:"position"`
	}{weights: (*weights)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Position == nil {
		return nil
	}
	if len(aux.Position) != len(w.Position) {
		return errors.Errorf("position weight needs %d values, got %d", len(w.Position), len(aux.Position))
	}
	copy(w.Position[:], aux.Position)
	return nil
}

func (m OrientationMetric) validate() error {
	switch OrientationMetric(strings.ToLower(string(m))) {
	case TraceMetric, GeodesicMetric, SkewMetric, "":
		return nil
	}
	return errors.Errorf("unsupported orientation metric %q", m)
}

// PoseError is the scalar cost of configuration q for placing target at desired relative to source:
//
//	(p - p_d)ᵀ K (p - p_d) + qᵀ(λI)q + e·γ·e
//
// where p is the position of target in source, p_d the desired position and e the orientation error of the
// configured metric. It evaluates identically for plain and dual scalars.
func PoseError[T autodiff.Scalar[T]](
	q []T,
	model *referenceframe.Model[T],
	source, target string,
	desired spatialmath.Pose,
	w Weights,
) (T, error) {
	zero := autodiff.Lift[T](0)
	hst, err := referenceframe.ForwardKinematics(model, q, source, target)
	if err != nil {
		return zero, err
	}
	hd := referenceframe.TransformFromPose[T](desired)
	rvr := referenceframe.MulRotation(hd.Rotation, referenceframe.Transpose(hst.Rotation))
	e := orientationError(w.Metric, rvr)

	translation := zero
	for i := 0; i < 3; i++ {
		d := hst.Translation[i].Sub(hd.Translation[i])
		translation = translation.Add(d.Mul(d).Mul(zero.Lift(w.Position[i])))
	}

	regularization := zero
	for _, qi := range q {
		regularization = regularization.Add(qi.Mul(qi))
	}
	regularization = regularization.Mul(zero.Lift(w.Regularization))

	orientation := e.Mul(zero.Lift(w.Orientation)).Mul(e)
	return translation.Add(regularization).Add(orientation), nil
}

func orientationError[T autodiff.Scalar[T]](metric OrientationMetric, r [3][3]T) T {
	one := autodiff.Lift[T](1)
	trace := r[0][0].Add(r[1][1]).Add(r[2][2])
	traceErr := one.Lift(3).Sub(trace)

	switch OrientationMetric(strings.ToLower(string(metric))) {
	case GeodesicMetric:
		c := trace.Sub(one).Mul(one.Lift(0.5))
		if c.Float() > 1-geodesicCutoff {
			return traceErr
		}
		if c.Float() < -1+geodesicCutoff {
			c = one.Lift(-1 + geodesicCutoff)
		}
		theta := c.Acos()
		return theta.Mul(theta)
	case SkewMetric:
		half := one.Lift(0.5)
		vx := r[2][1].Sub(r[1][2]).Mul(half)
		vy := r[0][2].Sub(r[2][0]).Mul(half)
		vz := r[1][0].Sub(r[0][1]).Mul(half)
		return vx.Mul(vx).Add(vy.Mul(vy)).Add(vz.Mul(vz))
	default:
		return traceErr
	}
}
