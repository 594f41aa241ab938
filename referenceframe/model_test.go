package referenceframe

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/ikopt/autodiff"
	"go.viam.com/ikopt/spatialmath"
)

func planarFrames() []FrameConfig {
	return []FrameConfig{
		{Name: "base", Parent: World},
		{Name: "j1", Parent: "base", Type: RevoluteJoint, Axis: r3.Vector{Z: 1}, Limit: Limit{Min: -math.Pi, Max: math.Pi}},
		{Name: "link1", Parent: "j1", Offset: spatialmath.NewPoseFromPoint(r3.Vector{X: 1})},
		{Name: "j2", Parent: "link1", Type: RevoluteJoint, Axis: r3.Vector{Z: 2}, Limit: Limit{Min: -math.Pi, Max: math.Pi}},
		{Name: "link2", Parent: "j2", Offset: spatialmath.NewPoseFromPoint(r3.Vector{X: 1})},
	}
}

func TestNewModel(t *testing.T) {
	m, err := NewModel("planar", planarFrames())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name(), test.ShouldEqual, "planar")
	test.That(t, len(m.DoF()), test.ShouldEqual, 2)
	test.That(t, m.EndEffector(), test.ShouldEqual, "link2")
	test.That(t, m.FrameNames(), test.ShouldResemble, []string{"base", "j1", "link1", "j2", "link2"})
	test.That(t, m.HasFrame(World), test.ShouldBeTrue)
	test.That(t, m.HasFrame("elbow"), test.ShouldBeFalse)
	test.That(t, m.CheckFrames("base", "link2"), test.ShouldBeNil)
	test.That(t, m.CheckFrames("base", "elbow"), test.ShouldBeError, NewFrameMissingError("elbow"))

	// callers cannot mutate the model through returned slices
	m.DoF()[0].Min = 5
	test.That(t, m.DoF()[0].Min, test.ShouldEqual, -math.Pi)
}

func TestNewModelOrderIndependent(t *testing.T) {
	frames := planarFrames()
	reversed := make([]FrameConfig, 0, len(frames))
	for i := len(frames) - 1; i >= 0; i-- {
		reversed = append(reversed, frames[i])
	}
	a, err := NewModel("a", frames)
	test.That(t, err, test.ShouldBeNil)
	b, err := NewModel("b", reversed)
	test.That(t, err, test.ShouldBeNil)

	// inputs follow joint declaration order, so the reversed model takes j2 first
	q := []float64{0.3, -0.8}
	ta, err := a.Transform(autodiff.LiftSlice[autodiff.Real](q))
	test.That(t, err, test.ShouldBeNil)
	tb, err := b.Transform(autodiff.LiftSlice[autodiff.Real]([]float64{q[1], q[0]}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(ta.Pose(), tb.Pose()), test.ShouldBeTrue)
}

func TestNewModelErrors(t *testing.T) {
	joint := func(name, parent string) FrameConfig {
		return FrameConfig{Name: name, Parent: parent, Type: RevoluteJoint, Axis: r3.Vector{Z: 1}}
	}

	_, err := NewModel("m", []FrameConfig{{Name: ""}})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewModel("m", []FrameConfig{{Name: World}})
	test.That(t, err, test.ShouldBeError, NewReservedWordError("frame", World))

	_, err = NewModel("m", []FrameConfig{joint("a", World), joint("a", World)})
	test.That(t, err, test.ShouldBeError, NewDuplicateFrameError("a"))

	_, err = NewModel("m", []FrameConfig{joint("a", "b")})
	test.That(t, err, test.ShouldBeError, NewParentFrameMissingError("a", "b"))

	_, err = NewModel("m", []FrameConfig{joint("a", "a")})
	test.That(t, err, test.ShouldBeError, ErrCircularReference)

	_, err = NewModel("m", []FrameConfig{joint("a", "b"), joint("b", "a")})
	test.That(t, errors.Is(err, ErrCircularReference), test.ShouldBeTrue)

	_, err = NewModel("m", []FrameConfig{{Name: "a", Type: RevoluteJoint}})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewModel("m", []FrameConfig{{Name: "a", Type: PrismaticJoint, Axis: r3.Vector{X: 1}, Limit: Limit{Min: 1, Max: 0}}})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewModel("m", []FrameConfig{{Name: "a", Type: "ball"}})
	test.That(t, err, test.ShouldBeError, NewUnsupportedJointTypeError("ball"))
}

func TestBranchingModel(t *testing.T) {
	m, err := NewModel("tree", []FrameConfig{
		{Name: "j", Type: RevoluteJoint, Axis: r3.Vector{Z: 1}},
		{Name: "left", Parent: "j", Offset: spatialmath.NewPoseFromPoint(r3.Vector{Y: 1})},
		{Name: "right", Parent: "j", Offset: spatialmath.NewPoseFromPoint(r3.Vector{Y: -1})},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.EndEffector(), test.ShouldBeEmpty)

	_, err = m.Transform([]autodiff.Real{0})
	test.That(t, err, test.ShouldNotBeNil)

	// frames of a branching model are still reachable by name
	h, err := ForwardKinematics(m, []autodiff.Real{math.Pi / 2}, "left", "right")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(h.Point(), r3.Vector{Y: -2}, 1e-9), test.ShouldBeTrue)
}

func TestCast(t *testing.T) {
	m, err := NewModel("planar", planarFrames())
	test.That(t, err, test.ShouldBeNil)
	dm := Cast[autodiff.Dual](m)
	test.That(t, dm.Name(), test.ShouldEqual, m.Name())
	test.That(t, dm.DoF(), test.ShouldResemble, m.DoF())
	test.That(t, dm.EndEffector(), test.ShouldEqual, m.EndEffector())

	q := []float64{0, 0}
	plain, err := m.Transform(autodiff.LiftSlice[autodiff.Real](q))
	test.That(t, err, test.ShouldBeNil)

	// d(position)/dq1 is z × p for a rotation about z at the origin
	seeded, err := dm.Transform(autodiff.Seed(q, 0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(seeded.Pose(), plain.Pose()), test.ShouldBeTrue)
	test.That(t, seeded.Translation[0].Derivative(), test.ShouldAlmostEqual, 0)
	test.That(t, seeded.Translation[1].Derivative(), test.ShouldAlmostEqual, 2)
	test.That(t, seeded.Translation[2].Derivative(), test.ShouldAlmostEqual, 0)

	seeded, err = dm.Transform(autodiff.Seed(q, 1))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, seeded.Translation[1].Derivative(), test.ShouldAlmostEqual, 1)
}
