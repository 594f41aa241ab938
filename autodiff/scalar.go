// Package autodiff defines the scalar types that kinematic and cost computations are written
// against. A function written once over Scalar can be evaluated with plain reals or with dual
// numbers, the latter carrying an exact directional derivative alongside the value.
package autodiff

import (
	"math"

	"gonum.org/v1/gonum/num/dual"
)

// Scalar is the arithmetic a computation needs from its number type. Methods never mutate the
// receiver.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Neg() T
	Sin() T
	Cos() T
	Sqrt() T
	Acos() T
	// Float returns the real part of the scalar.
	Float() float64
	// Lift returns the constant v in the receiver's scalar type.
	Lift(v float64) T
}

// Real is a plain float64 scalar.
type Real float64

// Add returns r+o.
func (r Real) Add(o Real) Real { return r + o }

// Sub returns r-o.
func (r Real) Sub(o Real) Real { return r - o }

// Mul returns r*o.
func (r Real) Mul(o Real) Real { return r * o }

// Div returns r/o.
func (r Real) Div(o Real) Real { return r / o }

// Neg returns -r.
func (r Real) Neg() Real { return -r }

// Sin returns sin(r).
func (r Real) Sin() Real { return Real(math.Sin(float64(r))) }

// Cos returns cos(r).
func (r Real) Cos() Real { return Real(math.Cos(float64(r))) }

// Sqrt returns the square root of r.
func (r Real) Sqrt() Real { return Real(math.Sqrt(float64(r))) }

// Acos returns arccos(r).
func (r Real) Acos() Real { return Real(math.Acos(float64(r))) }

// Float returns r as a float64.
func (r Real) Float() float64 { return float64(r) }

// Lift returns v as a Real.
func (r Real) Lift(v float64) Real { return Real(v) }

// Dual is a forward-mode dual number; Emag holds the derivative with respect to whichever input
// was seeded.
type Dual dual.Number

// Add returns d+o.
func (d Dual) Add(o Dual) Dual { return Dual{Real: d.Real + o.Real, Emag: d.Emag + o.Emag} }

// Sub returns d-o.
func (d Dual) Sub(o Dual) Dual { return Dual{Real: d.Real - o.Real, Emag: d.Emag - o.Emag} }

// Mul returns d*o.
func (d Dual) Mul(o Dual) Dual { return Dual(dual.Mul(dual.Number(d), dual.Number(o))) }

// Div returns d/o.
func (d Dual) Div(o Dual) Dual {
	return Dual(dual.Mul(dual.Number(d), dual.Inv(dual.Number(o))))
}

// Neg returns -d.
func (d Dual) Neg() Dual { return Dual(dual.Scale(-1, dual.Number(d))) }

// Sin returns sin(d).
func (d Dual) Sin() Dual { return Dual(dual.Sin(dual.Number(d))) }

// Cos returns cos(d).
func (d Dual) Cos() Dual { return Dual(dual.Cos(dual.Number(d))) }

// Sqrt returns the square root of d. The derivative is infinite at zero.
func (d Dual) Sqrt() Dual { return Dual(dual.Sqrt(dual.Number(d))) }

// Acos returns arccos(d). The derivative is infinite at ±1.
func (d Dual) Acos() Dual { return Dual(dual.Acos(dual.Number(d))) }

// Float returns the real part of d.
func (d Dual) Float() float64 { return d.Real }

// Lift returns v as a dual constant, i.e. with a zero derivative.
func (d Dual) Lift(v float64) Dual { return Dual{Real: v} }

// Derivative returns the derivative part of d.
func (d Dual) Derivative() float64 { return d.Emag }
