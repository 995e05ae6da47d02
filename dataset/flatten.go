package dataset

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Flat flattens and concatenates the columns of a dataset. In supervised
// mode the rightmost column is flattened but kept separate, treating it as
// the target.
type Flat struct {
	base       Dataset
	supervised bool
}

var _ Dataset = &Flat{}

// Flatten returns a dataset whose columns are flattened and concatenated
// together. Datasets that are already flat are passed through unchanged.
func Flatten(base Dataset, supervised bool) (Dataset, error) {
	if base.Len() == 0 {
		return base, nil
	}
	cols, err := base.At(0)
	if err != nil {
		return nil, err
	}
	if supervised && len(cols) < 2 {
		return nil, fmt.Errorf("supervised flattening requires at least 2 columns, got %d", len(cols))
	}

	if len(cols) >= 3 || (len(cols) == 2 && !supervised) {
		return &Flat{base: base, supervised: supervised}, nil
	}
	for _, col := range cols {
		if len(col.Shape()) != 1 {
			return &Flat{base: base, supervised: supervised}, nil
		}
	}
	// Already flat.
	return base, nil
}

func (f *Flat) Len() int {
	return f.base.Len()
}

func (f *Flat) At(i int) ([]*tensor.Dense, error) {
	cols, err := f.base.At(i)
	if err != nil {
		return nil, err
	}
	flat := make([]*tensor.Dense, len(cols))
	for j, col := range cols {
		flat[j], err = reshapeFlat(col)
		if err != nil {
			return nil, err
		}
	}

	if f.supervised {
		target := flat[len(flat)-1]
		inputs, err := concatFlat(flat[:len(flat)-1])
		if err != nil {
			return nil, err
		}
		return []*tensor.Dense{inputs, target}, nil
	}
	single, err := concatFlat(flat)
	if err != nil {
		return nil, err
	}
	return []*tensor.Dense{single}, nil
}

func reshapeFlat(t *tensor.Dense) (*tensor.Dense, error) {
	c := t.Clone().(*tensor.Dense)
	if err := c.Reshape(c.Shape().TotalSize()); err != nil {
		return nil, err
	}
	return c, nil
}

func concatFlat(ts []*tensor.Dense) (*tensor.Dense, error) {
	if len(ts) == 1 {
		return ts[0], nil
	}
	backing := make([]float64, 0)
	for _, t := range ts {
		data, ok := t.Data().([]float64)
		if !ok {
			return nil, fmt.Errorf("flattening requires float64 columns, got %v", t.Dtype())
		}
		backing = append(backing, data...)
	}
	return tensor.New(tensor.WithShape(len(backing)), tensor.WithBacking(backing)), nil
}
