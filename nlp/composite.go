package nlp

import (
	"github.com/pkg/errors"
)

// Composite stacks variable sets in the order they were added. Its vector is the concatenation of their values.
type Composite struct {
	sets  []VariableSet
	index map[string]int
}

// NewComposite returns an empty composite.
func NewComposite() *Composite {
	return &Composite{index: map[string]int{}}
}

// Add appends a variable set. Names must be unique.
func (c *Composite) Add(set VariableSet) error {
	if set == nil {
		return errors.New("cannot add nil variable set")
	}
	if _, ok := c.index[set.Name()]; ok {
		return NewDuplicateComponentError("variable set", set.Name())
	}
	c.index[set.Name()] = len(c.sets)
	c.sets = append(c.sets, set)
	return nil
}

// Component returns the variable set with the given name.
func (c *Composite) Component(name string) (VariableSet, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, NewVariableSetMissingError(name)
	}
	return c.sets[i], nil
}

// Components returns the variable sets in order.
func (c *Composite) Components() []VariableSet {
	return append([]VariableSet{}, c.sets...)
}

// Rows returns the total number of variables.
func (c *Composite) Rows() int {
	n := 0
	for _, s := range c.sets {
		n += s.Rows()
	}
	return n
}

// Values returns the concatenated values of all sets.
func (c *Composite) Values() []float64 {
	x := make([]float64, 0, c.Rows())
	for _, s := range c.sets {
		x = append(x, s.Values()...)
	}
	return x
}

// Bounds returns the concatenated bounds of all sets.
func (c *Composite) Bounds() []Bounds {
	b := make([]Bounds, 0, c.Rows())
	for _, s := range c.sets {
		b = append(b, s.Bounds()...)
	}
	return b
}

// SetVariables splits x across the sets in order. A wrong total length is rejected before any set is changed.
func (c *Composite) SetVariables(x []float64) error {
	if n := c.Rows(); len(x) != n {
		return NewDimensionMismatchError("variables", n, len(x))
	}
	offset := 0
	for _, s := range c.sets {
		rows := s.Rows()
		if err := s.SetVariables(x[offset : offset+rows]); err != nil {
			return errors.Wrapf(err, "setting variable set %q", s.Name())
		}
		offset += rows
	}
	return nil
}
