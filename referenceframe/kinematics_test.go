package referenceframe

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/ikopt/autodiff"
	"go.viam.com/ikopt/spatialmath"
)

func TestForwardKinematicsPlanar(t *testing.T) {
	m, err := NewModel("planar", planarFrames())
	test.That(t, err, test.ShouldBeNil)

	cases := []struct {
		q        []float64
		expected r3.Vector
	}{
		{[]float64{0, 0}, r3.Vector{X: 2}},
		{[]float64{math.Pi / 2, 0}, r3.Vector{Y: 2}},
		{[]float64{0, math.Pi / 2}, r3.Vector{X: 1, Y: 1}},
		{[]float64{math.Pi, math.Pi}, r3.Vector{X: 0}},
	}
	for _, c := range cases {
		h, err := ForwardKinematics(m, autodiff.LiftSlice[autodiff.Real](c.q), World, "link2")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spatialmath.R3VectorAlmostEqual(h.Point(), c.expected, 1e-9), test.ShouldBeTrue)
	}
}

func TestForwardKinematicsSourceTarget(t *testing.T) {
	m, err := NewModel("planar", planarFrames())
	test.That(t, err, test.ShouldBeNil)
	q := autodiff.LiftSlice[autodiff.Real]([]float64{0.7, -0.2})

	ws, err := ForwardKinematics(m, q, World, "link1")
	test.That(t, err, test.ShouldBeNil)
	wt, err := ForwardKinematics(m, q, World, "link2")
	test.That(t, err, test.ShouldBeNil)
	st, err := ForwardKinematics(m, q, "link1", "link2")
	test.That(t, err, test.ShouldBeNil)
	ts, err := ForwardKinematics(m, q, "link2", "link1")
	test.That(t, err, test.ShouldBeNil)

	test.That(t, spatialmath.PoseAlmostEqual(ws.Compose(st).Pose(), wt.Pose()), test.ShouldBeTrue)
	test.That(t, spatialmath.PoseAlmostEqual(st.Inverse().Pose(), ts.Pose()), test.ShouldBeTrue)

	same, err := ForwardKinematics(m, q, "link2", "link2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(same.Pose(), spatialmath.NewZeroPose()), test.ShouldBeTrue)
}

func TestForwardKinematicsErrors(t *testing.T) {
	m, err := NewModel("planar", planarFrames())
	test.That(t, err, test.ShouldBeNil)

	_, err = ForwardKinematics(m, []autodiff.Real{0}, World, "link2")
	test.That(t, err, test.ShouldBeError, NewIncorrectDoFError(1, 2))

	_, err = ForwardKinematics(m, []autodiff.Real{0, 0}, "nowhere", "link2")
	test.That(t, err, test.ShouldBeError, NewFrameMissingError("nowhere"))

	_, err = ForwardKinematics(m, []autodiff.Real{0, 0}, World, "nowhere")
	test.That(t, err, test.ShouldBeError, NewFrameMissingError("nowhere"))
}

func TestPrismatic(t *testing.T) {
	m, err := NewModel("slider", []FrameConfig{
		{Name: "rail", Type: PrismaticJoint, Axis: r3.Vector{X: 0, Y: 3}, Limit: Limit{Min: 0, Max: 2}},
		{Name: "carriage", Parent: "rail", Offset: spatialmath.NewPoseFromPoint(r3.Vector{Z: 1})},
	})
	test.That(t, err, test.ShouldBeNil)
	h, err := m.Transform([]autodiff.Real{1.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(h.Point(), r3.Vector{Y: 1.5, Z: 1}, 1e-9), test.ShouldBeTrue)
}
