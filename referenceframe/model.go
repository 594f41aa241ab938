// Package referenceframe defines kinematic models of articulated robots and computes the transforms between their
// frames. Models are generic over the scalar type so that the same kinematic computation can run on plain reals or on
// dual numbers when exact derivatives are needed.
package referenceframe

import (
	"slices"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"go.viam.com/ikopt/autodiff"
	"go.viam.com/ikopt/spatialmath"
)

// World is the name of the implicit root frame of every model.
const World = "world"

// Limit represents the limits of motion for a degree of freedom.
type Limit struct {
	Min float64
	Max float64
}

// JointType describes how a frame moves relative to its parent.
type JointType string

// The supported frame types. Fixed frames are rigid links; revolute and prismatic frames each consume one input.
const (
	FixedJoint     = JointType("fixed")
	RevoluteJoint  = JointType("revolute")
	PrismaticJoint = JointType("prismatic")
)

// FrameConfig describes a single frame of a model relative to its parent. Offset is used by fixed frames, Axis and
// Limit by revolute (radians) and prismatic frames.
type FrameConfig struct {
	Name   string
	Parent string
	Type   JointType
	Offset spatialmath.Pose
	Axis   r3.Vector
	Limit  Limit
}

type modelFrame[T autodiff.Scalar[T]] struct {
	name   string
	parent string
	kind   JointType
	offset Transform[T]
	axis   [3]T
	limit  Limit
	// index of the input driving this frame, -1 for fixed frames
	input int
}

// Model is an immutable tree of frames rooted at World. Inputs are consumed by joints in the order the joints were
// declared.
type Model[T autodiff.Scalar[T]] struct {
	name        string
	frames      map[string]*modelFrame[T]
	order       []string
	limits      []Limit
	endEffector string
}

// NewModel builds a real-valued model from frame descriptions. Frames may be given in any order; every parent must be
// World or another frame of the model, and the frames must form a tree.
func NewModel(name string, frames []FrameConfig) (*Model[autodiff.Real], error) {
	m := &Model[autodiff.Real]{name: name, frames: make(map[string]*modelFrame[autodiff.Real], len(frames))}

	g := simple.NewDirectedGraph()
	ids := map[string]int64{World: 0}
	names := map[int64]string{0: World}
	g.AddNode(simple.Node(0))
	for i, fc := range frames {
		if fc.Name == "" {
			return nil, errors.New("frame name cannot be empty")
		}
		if fc.Name == World {
			return nil, NewReservedWordError("frame", World)
		}
		if _, ok := ids[fc.Name]; ok {
			return nil, NewDuplicateFrameError(fc.Name)
		}
		id := int64(i + 1)
		ids[fc.Name] = id
		names[id] = fc.Name
		g.AddNode(simple.Node(id))
	}

	for _, fc := range frames {
		parent := fc.Parent
		if parent == "" {
			parent = World
		}
		pid, ok := ids[parent]
		if !ok {
			return nil, NewParentFrameMissingError(fc.Name, parent)
		}
		if parent == fc.Name {
			return nil, ErrCircularReference
		}
		g.SetEdge(g.NewEdge(g.Node(pid), g.Node(ids[fc.Name])))

		f := &modelFrame[autodiff.Real]{name: fc.Name, parent: parent, kind: fc.Type, input: -1}
		switch fc.Type {
		case FixedJoint, "":
			f.kind = FixedJoint
			offset := fc.Offset
			if offset == nil {
				offset = spatialmath.NewZeroPose()
			}
			f.offset = TransformFromPose[autodiff.Real](offset)
		case RevoluteJoint, PrismaticJoint:
			norm := fc.Axis.Norm()
			if norm == 0 {
				return nil, errors.Errorf("joint %q has a zero axis", fc.Name)
			}
			if fc.Limit.Min > fc.Limit.Max {
				return nil, errors.Errorf("joint %q has min limit %f greater than max limit %f", fc.Name, fc.Limit.Min, fc.Limit.Max)
			}
			axis := fc.Axis.Mul(1 / norm)
			f.axis = [3]autodiff.Real{autodiff.Real(axis.X), autodiff.Real(axis.Y), autodiff.Real(axis.Z)}
			f.limit = fc.Limit
			f.input = len(m.limits)
			m.limits = append(m.limits, fc.Limit)
		default:
			return nil, NewUnsupportedJointTypeError(string(fc.Type))
		}
		m.frames[fc.Name] = f
	}

	sorted, err := topo.Sort(g)
	if err != nil {
		return nil, errors.Wrap(ErrCircularReference, err.Error())
	}
	var leaves []string
	for _, n := range sorted {
		if n.ID() == 0 {
			continue
		}
		m.order = append(m.order, names[n.ID()])
		if g.From(n.ID()).Len() == 0 {
			leaves = append(leaves, names[n.ID()])
		}
	}
	if len(leaves) == 1 {
		m.endEffector = leaves[0]
	}
	return m, nil
}

// Cast reinstantiates a model over the scalar type S. The returned model shares no state with m.
func Cast[S autodiff.Scalar[S], T autodiff.Scalar[T]](m *Model[T]) *Model[S] {
	out := &Model[S]{
		name:        m.name,
		frames:      make(map[string]*modelFrame[S], len(m.frames)),
		order:       slices.Clone(m.order),
		limits:      slices.Clone(m.limits),
		endEffector: m.endEffector,
	}
	for name, f := range m.frames {
		out.frames[name] = &modelFrame[S]{
			name:   f.name,
			parent: f.parent,
			kind:   f.kind,
			offset: castTransform[S](f.offset),
			axis:   castVector[S](f.axis),
			limit:  f.limit,
			input:  f.input,
		}
	}
	return out
}

func castVector[S autodiff.Scalar[S], T autodiff.Scalar[T]](v [3]T) [3]S {
	return [3]S{autodiff.Lift[S](v[0].Float()), autodiff.Lift[S](v[1].Float()), autodiff.Lift[S](v[2].Float())}
}

func castTransform[S autodiff.Scalar[S], T autodiff.Scalar[T]](t Transform[T]) Transform[S] {
	var out Transform[S]
	for i := 0; i < 3; i++ {
		out.Rotation[i] = castVector[S](t.Rotation[i])
	}
	out.Translation = castVector[S](t.Translation)
	return out
}

// Name returns the name of the model.
func (m *Model[T]) Name() string {
	return m.name
}

// DoF returns the limits of each input of the model, in input order. Its length is the number of inputs.
func (m *Model[T]) DoF() []Limit {
	return slices.Clone(m.limits)
}

// FrameNames returns the names of all frames of the model, parents before children. World is not included.
func (m *Model[T]) FrameNames() []string {
	return slices.Clone(m.order)
}

// HasFrame reports whether name is World or a frame of the model.
func (m *Model[T]) HasFrame(name string) bool {
	if name == World {
		return true
	}
	_, ok := m.frames[name]
	return ok
}

// EndEffector returns the single leaf frame of the model, or the empty string when the model branches.
func (m *Model[T]) EndEffector() string {
	return m.endEffector
}

// CheckFrames returns an error naming the first of the given frames that is not part of the model.
func (m *Model[T]) CheckFrames(names ...string) error {
	for _, name := range names {
		if !m.HasFrame(name) {
			return NewFrameMissingError(name)
		}
	}
	return nil
}

// Transform returns the pose of the end effector relative to World for the given inputs.
func (m *Model[T]) Transform(inputs []T) (Transform[T], error) {
	if m.endEffector == "" {
		return Transform[T]{}, errors.Errorf("model %q does not have exactly one end effector", m.name)
	}
	return ForwardKinematics(m, inputs, World, m.endEffector)
}

func (f *modelFrame[T]) transform(inputs []T) Transform[T] {
	switch f.kind {
	case RevoluteJoint:
		return Transform[T]{Rotation: rotationAbout(f.axis, inputs[f.input]), Translation: IdentityTransform[T]().Translation}
	case PrismaticJoint:
		t := IdentityTransform[T]()
		q := inputs[f.input]
		t.Translation = [3]T{f.axis[0].Mul(q), f.axis[1].Mul(q), f.axis[2].Mul(q)}
		return t
	default:
		return f.offset
	}
}
