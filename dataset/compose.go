package dataset

import (
	"fmt"

	"gorgonia.org/tensor"
)

// SubsetOf selects rows of a dataset by index.
type SubsetOf struct {
	base    Dataset
	indices []int
}

var _ Dataset = &SubsetOf{}

// Subset selects a subset of a dataset by row indices.
func Subset(base Dataset, indices []int) (*SubsetOf, error) {
	for _, i := range indices {
		if i < 0 || i >= base.Len() {
			return nil, fmt.Errorf("%w: %d of %d", ErrIndex, i, base.Len())
		}
	}
	return &SubsetOf{base: base, indices: indices}, nil
}

func (s *SubsetOf) Len() int {
	return len(s.indices)
}

func (s *SubsetOf) At(i int) ([]*tensor.Dense, error) {
	if i < 0 || i >= len(s.indices) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndex, i, len(s.indices))
	}
	return s.base.At(s.indices[i])
}

// Zipped combines the columns of same-length datasets into one.
type Zipped struct {
	datasets []Dataset
}

var _ Dataset = &Zipped{}

// Zip returns a dataset with all of the columns of the given datasets. A
// single dataset is passed through unchanged.
func Zip(datasets ...Dataset) (Dataset, error) {
	if len(datasets) == 0 {
		return nil, ErrEmpty
	}
	if len(datasets) == 1 {
		return datasets[0], nil
	}
	for _, d := range datasets {
		if d.Len() != datasets[0].Len() {
			return nil, fmt.Errorf("%w: %d vs %d", ErrLength, d.Len(), datasets[0].Len())
		}
	}
	return &Zipped{datasets: datasets}, nil
}

func (z *Zipped) Len() int {
	return z.datasets[0].Len()
}

func (z *Zipped) At(i int) ([]*tensor.Dense, error) {
	columns := make([]*tensor.Dense, 0)
	for _, d := range z.datasets {
		cols, err := d.At(i)
		if err != nil {
			return nil, err
		}
		columns = append(columns, cols...)
	}
	return columns, nil
}

// Concatenated combines the rows of many datasets into one.
type Concatenated struct {
	datasets []Dataset
	lens     []int
}

var _ Dataset = &Concatenated{}

// Concat returns a dataset with all of the rows of the given datasets. A
// single dataset is passed through unchanged.
func Concat(datasets ...Dataset) (Dataset, error) {
	if len(datasets) == 0 {
		return nil, ErrEmpty
	}
	if len(datasets) == 1 {
		return datasets[0], nil
	}
	lens := make([]int, len(datasets))
	for i, d := range datasets {
		lens[i] = d.Len()
	}
	return &Concatenated{datasets: datasets, lens: lens}, nil
}

func (c *Concatenated) Len() int {
	total := 0
	for _, n := range c.lens {
		total += n
	}
	return total
}

func (c *Concatenated) At(i int) ([]*tensor.Dense, error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrIndex, i)
	}
	for j, n := range c.lens {
		if i < n {
			return c.datasets[j].At(i)
		}
		i -= n
	}
	return nil, fmt.Errorf("%w: %d of %d", ErrIndex, i, c.Len())
}
