package spatialmath

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// OrientationType defines what orientation representations are known.
type OrientationType string

// The set of allowed representations for orientation.
const (
	NoOrientation      = OrientationType("")
	AxisAnglesType     = OrientationType("axis_angles")
	EulerAnglesType    = OrientationType("euler_angles")
	QuaternionType     = OrientationType("quaternion")
	RotationMatrixType = OrientationType("rotation_matrix")
)

// TranslationConfig is the json configuration of a translation.
type TranslationConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewTranslationConfig creates a TranslationConfig from an r3.Vector.
func NewTranslationConfig(pt r3.Vector) *TranslationConfig {
	return &TranslationConfig{X: pt.X, Y: pt.Y, Z: pt.Z}
}

// ParseConfig converts a TranslationConfig into an r3.Vector.
func (cfg *TranslationConfig) ParseConfig() r3.Vector {
	return r3.Vector{X: cfg.X, Y: cfg.Y, Z: cfg.Z}
}

// OrientationConfig holds the underlying type of orientation, and the value.
type OrientationConfig struct {
	Type  OrientationType `json:"type"`
	Value json.RawMessage `json:"value"`
}

type quaternionConfig struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type rotationMatrixConfig struct {
	Mat []float64 `json:"mat"`
}

// ParseConfig will use the Type in OrientationConfig and convert into the correct struct that implements Orientation.
// A nil config or an empty type is no rotation.
func (cfg *OrientationConfig) ParseConfig() (Orientation, error) {
	if cfg == nil || cfg.Type == NoOrientation {
		return NewZeroOrientation(), nil
	}
	switch cfg.Type {
	case EulerAnglesType:
		var ea EulerAngles
		if err := json.Unmarshal(cfg.Value, &ea); err != nil {
			return nil, errors.Wrap(err, "failed to parse euler angles")
		}
		return &ea, nil
	case AxisAnglesType:
		var aa R4AA
		if err := json.Unmarshal(cfg.Value, &aa); err != nil {
			return nil, errors.Wrap(err, "failed to parse axis angles")
		}
		return &aa, nil
	case QuaternionType:
		var qc quaternionConfig
		if err := json.Unmarshal(cfg.Value, &qc); err != nil {
			return nil, errors.Wrap(err, "failed to parse quaternion")
		}
		return NewQuaternion(quat.Number{Real: qc.W, Imag: qc.X, Jmag: qc.Y, Kmag: qc.Z}), nil
	case RotationMatrixType:
		var rc rotationMatrixConfig
		if err := json.Unmarshal(cfg.Value, &rc); err != nil {
			return nil, errors.Wrap(err, "failed to parse rotation matrix")
		}
		return NewRotationMatrix(rc.Mat)
	default:
		return nil, errors.Errorf("unknown orientation type %q", cfg.Type)
	}
}

// NewOrientationConfig encodes an orientation as euler angles.
func NewOrientationConfig(o Orientation) (*OrientationConfig, error) {
	bytes, err := json.Marshal(o.EulerAngles())
	if err != nil {
		return nil, err
	}
	return &OrientationConfig{Type: EulerAnglesType, Value: bytes}, nil
}

// AxisConfig represents the configuration format representing an axis.
type AxisConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewAxisConfig constructs a config from an r3.Vector.
func NewAxisConfig(axis r3.Vector) *AxisConfig {
	return &AxisConfig{X: axis.X, Y: axis.Y, Z: axis.Z}
}

// ParseConfig converts an AxisConfig into an r3.Vector.
func (a AxisConfig) ParseConfig() r3.Vector {
	return r3.Vector{X: a.X, Y: a.Y, Z: a.Z}
}
