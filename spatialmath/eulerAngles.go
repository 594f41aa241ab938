package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are three angles (in radians) used to represent the rotation of an object in 3D Euclidean space.
// The rotation is applied as yaw about Z, then pitch about Y, then roll about X, i.e. R = Rz(yaw)·Ry(pitch)·Rx(roll).
type EulerAngles struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// NewEulerAngles creates an empty EulerAngles struct.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{Roll: 0, Pitch: 0, Yaw: 0}
}

// EulerAngles returns orientation in Euler angle representation.
func (ea *EulerAngles) EulerAngles() *EulerAngles {
	return ea
}

// Quaternion returns orientation in quaternion representation.
func (ea *EulerAngles) Quaternion() quat.Number {
	qx := (&R4AA{Theta: ea.Roll, RX: 1}).ToQuat()
	qy := (&R4AA{Theta: ea.Pitch, RY: 1}).ToQuat()
	qz := (&R4AA{Theta: ea.Yaw, RZ: 1}).ToQuat()
	return quat.Mul(qz, quat.Mul(qy, qx))
}

// AxisAngles returns the orientation in axis angle representation.
func (ea *EulerAngles) AxisAngles() *R4AA {
	return QuatToR4AA(ea.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (ea *EulerAngles) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(ea.Quaternion())
}

// QuatToEulerAngles converts a quaternion to the euler angle representation.
func QuatToEulerAngles(q quat.Number) *EulerAngles {
	return RotationMatrixToRPY(QuatToRotationMatrix(q))
}

// RotationMatrixToRPY decomposes a rotation matrix into roll, pitch and yaw. The decomposition is singular when
// pitch is ±π/2 (gimbal lock); there roll is reported as zero and the whole rotation about Z is put in yaw.
func RotationMatrixToRPY(rm *RotationMatrix) *EulerAngles {
	cosPitch := math.Hypot(rm.At(0, 0), rm.At(1, 0))
	pitch := math.Atan2(-rm.At(2, 0), cosPitch)
	if cosPitch < 1e-9 {
		return &EulerAngles{Roll: 0, Pitch: pitch, Yaw: math.Atan2(-rm.At(0, 1), rm.At(1, 1))}
	}
	return &EulerAngles{
		Roll:  math.Atan2(rm.At(2, 1), rm.At(2, 2)),
		Pitch: pitch,
		Yaw:   math.Atan2(rm.At(1, 0), rm.At(0, 0)),
	}
}
