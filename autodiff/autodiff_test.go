package autodiff

import (
	"math"
	"testing"

	"go.viam.com/test"
)

// f(x, y) = sin(x)*y + sqrt(x*x + y*y), written once over Scalar.
func sample[T Scalar[T]](v []T) T {
	x, y := v[0], v[1]
	return x.Sin().Mul(y).Add(x.Mul(x).Add(y.Mul(y)).Sqrt())
}

func TestRealAndDualAgree(t *testing.T) {
	x := []float64{0.3, -1.2}
	plain := sample(LiftSlice[Real](x))
	d := sample(LiftSlice[Dual](x))
	test.That(t, d.Float(), test.ShouldAlmostEqual, plain.Float())
	test.That(t, d.Derivative(), test.ShouldEqual, 0.)
}

func TestGradient(t *testing.T) {
	x := []float64{0.3, -1.2}
	val, grad, err := Gradient(func(v []Dual) (Dual, error) { return sample(v), nil }, x)
	test.That(t, err, test.ShouldBeNil)

	r := math.Hypot(x[0], x[1])
	test.That(t, val, test.ShouldAlmostEqual, math.Sin(x[0])*x[1]+r)
	test.That(t, grad[0], test.ShouldAlmostEqual, math.Cos(x[0])*x[1]+x[0]/r)
	test.That(t, grad[1], test.ShouldAlmostEqual, math.Sin(x[0])+x[1]/r)
}

func TestGradientEmpty(t *testing.T) {
	val, grad, err := Gradient(func(v []Dual) (Dual, error) { return Lift[Dual](2), nil }, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, val, test.ShouldEqual, 2.)
	test.That(t, grad, test.ShouldBeEmpty)
}

func TestDualOps(t *testing.T) {
	x := Dual{Real: 0.5, Emag: 1}
	test.That(t, x.Div(x.Lift(2)).Emag, test.ShouldAlmostEqual, 0.5)
	test.That(t, x.Lift(1).Div(x).Emag, test.ShouldAlmostEqual, -4)
	test.That(t, x.Neg().Emag, test.ShouldEqual, -1.)
	test.That(t, x.Sub(x).Emag, test.ShouldEqual, 0.)
	test.That(t, x.Acos().Emag, test.ShouldAlmostEqual, -1/math.Sqrt(1-0.25))
	test.That(t, x.Cos().Emag, test.ShouldAlmostEqual, -math.Sin(0.5))
}

func TestSeed(t *testing.T) {
	s := Seed([]float64{1, 2, 3}, 1)
	test.That(t, Floats(s), test.ShouldResemble, []float64{1, 2, 3})
	test.That(t, s[0].Emag, test.ShouldEqual, 0.)
	test.That(t, s[1].Emag, test.ShouldEqual, 1.)
	test.That(t, Seed([]float64{1}, 4)[0].Emag, test.ShouldEqual, 0.)
}
