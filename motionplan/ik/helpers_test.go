package ik

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/ikopt/autodiff"
	"go.viam.com/ikopt/referenceframe"
	"go.viam.com/ikopt/spatialmath"
	"go.viam.com/ikopt/utils"
)

// planar2 is two unit links rotating about z.
func planar2(t *testing.T) *referenceframe.Model[autodiff.Real] {
	t.Helper()
	limit := referenceframe.Limit{Min: -math.Pi, Max: math.Pi}
	m, err := referenceframe.NewModel("planar2", []referenceframe.FrameConfig{
		{Name: "base"},
		{Name: "j1", Parent: "base", Type: referenceframe.RevoluteJoint, Axis: r3.Vector{Z: 1}, Limit: limit},
		{Name: "link1", Parent: "j1", Offset: spatialmath.NewPoseFromPoint(r3.Vector{X: 1})},
		{Name: "j2", Parent: "link1", Type: referenceframe.RevoluteJoint, Axis: r3.Vector{Z: 1}, Limit: limit},
		{Name: "link2", Parent: "j2", Offset: spatialmath.NewPoseFromPoint(r3.Vector{X: 1})},
	})
	test.That(t, err, test.ShouldBeNil)
	return m
}

func arm4(t *testing.T) *referenceframe.Model[autodiff.Real] {
	t.Helper()
	m, err := referenceframe.ParseModelJSONFile(utils.ResolveFile("referenceframe/testjson/arm4.json"), "")
	test.That(t, err, test.ShouldBeNil)
	return m
}

func poseAt(t *testing.T, m *referenceframe.Model[autodiff.Real], q []float64, source, target string) spatialmath.Pose {
	t.Helper()
	h, err := referenceframe.ForwardKinematics(m, autodiff.LiftSlice[autodiff.Real](q), source, target)
	test.That(t, err, test.ShouldBeNil)
	return h.Pose()
}
