package referenceframe

import (
	"go.viam.com/ikopt/autodiff"
)

// ForwardKinematics returns the pose of the target frame expressed in the source frame for the given inputs, i.e.
// the transform H_st such that a point p in the target frame sits at H_st·p in the source frame. Either frame may be
// World. Unknown frame names and input vectors of the wrong length are errors; no identity transform is ever
// substituted.
func ForwardKinematics[T autodiff.Scalar[T]](m *Model[T], inputs []T, source, target string) (Transform[T], error) {
	if len(inputs) != len(m.limits) {
		return Transform[T]{}, NewIncorrectDoFError(len(inputs), len(m.limits))
	}
	if err := m.CheckFrames(source, target); err != nil {
		return Transform[T]{}, err
	}
	hws, err := m.worldTransform(source, inputs)
	if err != nil {
		return Transform[T]{}, err
	}
	hwt, err := m.worldTransform(target, inputs)
	if err != nil {
		return Transform[T]{}, err
	}
	return hws.Inverse().Compose(hwt), nil
}

// worldTransform composes the chain of frames from World down to name.
func (m *Model[T]) worldTransform(name string, inputs []T) (Transform[T], error) {
	var chain []*modelFrame[T]
	for curr := name; curr != World; {
		f, ok := m.frames[curr]
		if !ok {
			return Transform[T]{}, NewFrameMissingError(curr)
		}
		chain = append(chain, f)
		if len(chain) > len(m.frames) {
			return Transform[T]{}, ErrCircularReference
		}
		curr = f.parent
	}
	out := IdentityTransform[T]()
	for i := len(chain) - 1; i >= 0; i-- {
		out = out.Compose(chain[i].transform(inputs))
	}
	return out, nil
}
