package referenceframe

import (
	"github.com/golang/geo/r3"

	"go.viam.com/ikopt/autodiff"
	"go.viam.com/ikopt/spatialmath"
)

// Transform is a rigid transform over scalar type T: a rotation matrix and a translation. Applied to a point x it
// yields Rotation·x + Translation.
type Transform[T autodiff.Scalar[T]] struct {
	Rotation    [3][3]T
	Translation [3]T
}

// IdentityTransform returns the transform that leaves every point in place.
func IdentityTransform[T autodiff.Scalar[T]]() Transform[T] {
	var t Transform[T]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				t.Rotation[i][j] = autodiff.Lift[T](1)
			} else {
				t.Rotation[i][j] = autodiff.Lift[T](0)
			}
		}
		t.Translation[i] = autodiff.Lift[T](0)
	}
	return t
}

// TransformFromPose lifts a real-valued pose into scalar type T. The result carries no derivative.
func TransformFromPose[T autodiff.Scalar[T]](p spatialmath.Pose) Transform[T] {
	var t Transform[T]
	rm := p.Orientation().RotationMatrix()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.Rotation[i][j] = autodiff.Lift[T](rm.At(i, j))
		}
	}
	pt := p.Point()
	t.Translation = [3]T{autodiff.Lift[T](pt.X), autodiff.Lift[T](pt.Y), autodiff.Lift[T](pt.Z)}
	return t
}

// Pose returns the real part of the transform as a pose.
func (t Transform[T]) Pose() spatialmath.Pose {
	m := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m = append(m, t.Rotation[i][j].Float())
		}
	}
	// the slice always has 9 elements
	rm, _ := spatialmath.NewRotationMatrix(m)
	return spatialmath.NewPose(t.Point(), rm)
}

// Point returns the real part of the translation.
func (t Transform[T]) Point() r3.Vector {
	return r3.Vector{X: t.Translation[0].Float(), Y: t.Translation[1].Float(), Z: t.Translation[2].Float()}
}

// Compose returns t·o, the transform that applies o first and then t.
func (t Transform[T]) Compose(o Transform[T]) Transform[T] {
	var out Transform[T]
	out.Rotation = MulRotation(t.Rotation, o.Rotation)
	for i := 0; i < 3; i++ {
		out.Translation[i] = t.Translation[i].Add(dot(t.Rotation[i], o.Translation))
	}
	return out
}

// Inverse returns the transform undoing t.
func (t Transform[T]) Inverse() Transform[T] {
	var out Transform[T]
	out.Rotation = Transpose(t.Rotation)
	for i := 0; i < 3; i++ {
		out.Translation[i] = dot(out.Rotation[i], t.Translation).Neg()
	}
	return out
}

// Transpose returns the transpose of a 3x3 matrix.
func Transpose[T autodiff.Scalar[T]](m [3][3]T) [3][3]T {
	var out [3][3]T
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// MulRotation returns the matrix product a·b.
func MulRotation[T autodiff.Scalar[T]](a, b [3][3]T) [3][3]T {
	var out [3][3]T
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][0].Mul(b[0][j]).Add(a[i][1].Mul(b[1][j])).Add(a[i][2].Mul(b[2][j]))
		}
	}
	return out
}

func dot[T autodiff.Scalar[T]](a, b [3]T) T {
	return a[0].Mul(b[0]).Add(a[1].Mul(b[1])).Add(a[2].Mul(b[2]))
}

// rotationAbout returns the rotation by theta about the unit axis, by Rodrigues' formula
// R = I + sin(θ)K + (1 - cos(θ))K².
func rotationAbout[T autodiff.Scalar[T]](axis [3]T, theta T) [3][3]T {
	one := theta.Lift(1)
	s, c := theta.Sin(), theta.Cos()
	v := one.Sub(c)
	x, y, z := axis[0], axis[1], axis[2]
	return [3][3]T{
		{c.Add(x.Mul(x).Mul(v)), x.Mul(y).Mul(v).Sub(z.Mul(s)), x.Mul(z).Mul(v).Add(y.Mul(s))},
		{y.Mul(x).Mul(v).Add(z.Mul(s)), c.Add(y.Mul(y).Mul(v)), y.Mul(z).Mul(v).Sub(x.Mul(s))},
		{z.Mul(x).Mul(v).Sub(y.Mul(s)), z.Mul(y).Mul(v).Add(x.Mul(s)), c.Add(z.Mul(z).Mul(v))},
	}
}
