package dataset

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Iter walks a dataset in order, yielding fixed-size batches with each
// column stacked along a new leading axis. The final batch may be short.
type Iter struct {
	ds   Dataset
	size int
	next int
}

// Batches iterates over a dataset in batches. A non-positive size means one
// batch over the whole dataset.
func Batches(ds Dataset, size int) *Iter {
	if size <= 0 {
		size = ds.Len()
	}
	return &Iter{ds: ds, size: size}
}

// Next yields the next batch of stacked columns, or ok=false when the
// dataset is exhausted.
func (it *Iter) Next() (batch []*tensor.Dense, ok bool, err error) {
	n := it.ds.Len()
	if it.next >= n {
		return nil, false, nil
	}
	end := it.next + it.size
	if end > n {
		end = n
	}

	rows := make([][]*tensor.Dense, 0, end-it.next)
	for i := it.next; i < end; i++ {
		row, err := it.ds.At(i)
		if err != nil {
			return nil, false, err
		}
		rows = append(rows, row)
	}
	it.next = end

	batch = make([]*tensor.Dense, len(rows[0]))
	for j := range rows[0] {
		batch[j], err = stackColumn(rows, j)
		if err != nil {
			return nil, false, err
		}
	}
	return batch, true, nil
}

// stackColumn stacks column j of every row into one tensor with a new
// leading batch axis. All rows must agree on the column's shape and dtype.
func stackColumn(rows [][]*tensor.Dense, j int) (*tensor.Dense, error) {
	first := rows[0][j]
	shape := first.Shape()
	backing := make([]float64, 0, len(rows)*shape.TotalSize())
	for _, row := range rows {
		if len(row) <= j {
			return nil, fmt.Errorf("%w: ragged rows", ErrLength)
		}
		col := row[j]
		if !col.Shape().Eq(shape) {
			return nil, fmt.Errorf("cannot stack column %d: shapes %v and %v", j, shape, col.Shape())
		}
		data, ok := col.Data().([]float64)
		if !ok {
			return nil, fmt.Errorf("batching requires float64 columns, got %v", col.Dtype())
		}
		backing = append(backing, data...)
	}
	dims := append([]int{len(rows)}, shape...)
	return tensor.New(tensor.WithShape(dims...), tensor.WithBacking(backing)), nil
}
