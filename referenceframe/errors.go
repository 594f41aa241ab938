package referenceframe

import (
	"github.com/pkg/errors"
)

// ErrCircularReference is an error indicating that a circular path exists somewhere between the end effector and the world.
var ErrCircularReference = errors.New("infinite loop finding path from end effector to world")

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// NewFrameMissingError returns an error indicating that the given frame is missing from the model.
func NewFrameMissingError(frameName string) error {
	return errors.Errorf("frame with name %q not in model", frameName)
}

// NewParentFrameMissingError returns an error indicating that the parent of a frame is not defined in the model.
func NewParentFrameMissingError(frameName, parentName string) error {
	return errors.Errorf("parent frame %q of frame %q not in model", parentName, frameName)
}

// NewDuplicateFrameError returns an error indicating that a frame name is defined more than once.
func NewDuplicateFrameError(frameName string) error {
	return errors.Errorf("frame name %q defined more than once", frameName)
}

// NewIncorrectDoFError returns an error indicating that the number of inputs does not match the degrees of freedom.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewReservedWordError returns an error indicating that a reserved word was used as a frame name.
func NewReservedWordError(configType, reservedWord string) error {
	return errors.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}

// NewUnsupportedJointTypeError returns an error indicating that a given joint type is not supported.
func NewUnsupportedJointTypeError(jointType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}
