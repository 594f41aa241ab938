package autodiff

import (
	"github.com/pkg/errors"
)

// Lift returns the constant v in scalar type T.
func Lift[T Scalar[T]](v float64) T {
	var zero T
	return zero.Lift(v)
}

// LiftSlice converts a slice of float64 into constants of scalar type T.
func LiftSlice[T Scalar[T]](vals []float64) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = Lift[T](v)
	}
	return out
}

// Floats returns the real parts of the given scalars.
func Floats[T Scalar[T]](vals []T) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v.Float()
	}
	return out
}

// Seed returns x as dual numbers with a unit derivative on component i and zero elsewhere.
// Passing an index outside x yields all zero derivatives.
func Seed(x []float64, i int) []Dual {
	out := make([]Dual, len(x))
	for j, v := range x {
		out[j] = Dual{Real: v}
	}
	if i >= 0 && i < len(x) {
		out[i].Emag = 1
	}
	return out
}

// Gradient evaluates the scalar function f at x and returns its value along with the exact
// gradient, using one forward sweep per component of x.
func Gradient(f func([]Dual) (Dual, error), x []float64) (float64, []float64, error) {
	grad := make([]float64, len(x))
	if len(x) == 0 {
		val, err := f(nil)
		if err != nil {
			return 0, nil, err
		}
		return val.Real, grad, nil
	}
	var value float64
	for i := range x {
		out, err := f(Seed(x, i))
		if err != nil {
			return 0, nil, errors.Wrapf(err, "gradient sweep %d", i)
		}
		value = out.Real
		grad[i] = out.Emag
	}
	return value, grad, nil
}
