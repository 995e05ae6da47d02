// Package dataset provides a small composition algebra over sequence-like
// datasets of tensor columns: subsetting, zipping, concatenation,
// flattening, shape inference, and batching.
package dataset

import (
	"errors"
	"fmt"

	"gorgonia.org/tensor"
)

var (
	// ErrEmpty reports a combinator invoked with no datasets.
	ErrEmpty = errors.New("at least one dataset is required")

	// ErrLength reports datasets whose lengths disagree where they must not.
	ErrLength = errors.New("dataset length mismatch")

	// ErrIndex reports a row index outside the dataset.
	ErrIndex = errors.New("index out of range")
)

// Dataset is a finite sequence of rows, each row a tuple of tensor columns.
type Dataset interface {
	Len() int
	At(i int) ([]*tensor.Dense, error)
}

// Rows is the basic in-memory dataset: an explicit slice of rows.
type Rows struct {
	rows [][]*tensor.Dense
}

var _ Dataset = &Rows{}

func FromRows(rows [][]*tensor.Dense) *Rows {
	return &Rows{rows: rows}
}

func (r *Rows) Len() int {
	return len(r.rows)
}

func (r *Rows) At(i int) ([]*tensor.Dense, error) {
	if i < 0 || i >= len(r.rows) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndex, i, len(r.rows))
	}
	return r.rows[i], nil
}
