package nlp

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrDimensionMismatch is the sentinel wrapped by every DimensionMismatchError.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// DimensionMismatchError reports a vector or block whose length disagrees with the dimension of the component it
// belongs to.
type DimensionMismatchError struct {
	Component string
	Expected  int
	Actual    int
}

// NewDimensionMismatchError returns an error indicating that component received actual values where it holds
// expected.
func NewDimensionMismatchError(component string, expected, actual int) error {
	return &DimensionMismatchError{Component: component, Expected: expected, Actual: actual}
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: %q expected %d values but got %d", ErrDimensionMismatch, e.Component, e.Expected, e.Actual)
}

// Unwrap lets errors.Is match ErrDimensionMismatch.
func (e *DimensionMismatchError) Unwrap() error {
	return ErrDimensionMismatch
}

// NewDuplicateComponentError returns an error indicating that two components of the same kind share a name.
func NewDuplicateComponentError(kind, name string) error {
	return errors.Errorf("%s with name %q already added to problem", kind, name)
}

// NewVariableSetMissingError returns an error indicating that no variable set with the given name exists.
func NewVariableSetMissingError(name string) error {
	return errors.Errorf("variable set %q not in problem", name)
}
