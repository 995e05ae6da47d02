package dataset

import (
	"time"

	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// Shape infers the per-column shapes of a dataset by sampling up to four
// rows. Dimensions that vary between rows are reported as -1. The result is
// nil when the rows do not share a column structure at all, and for empty
// datasets.
func Shape(ds Dataset) ([]tensor.Shape, error) {
	n := ds.Len()
	if n == 0 {
		return nil, nil
	}

	// Small datasets are examined exhaustively; larger ones by sampling.
	indices := make([]int, 0, 4)
	if n <= 4 {
		for i := 0; i < n; i++ {
			indices = append(indices, i)
		}
	} else {
		rng := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
		for k := 0; k < 4; k++ {
			indices = append(indices, rng.Intn(n))
		}
	}

	shapes := make([][]tensor.Shape, 0, len(indices))
	for _, i := range indices {
		cols, err := ds.At(i)
		if err != nil {
			return nil, err
		}
		rowShapes := make([]tensor.Shape, len(cols))
		for j, col := range cols {
			rowShapes[j] = col.Shape()
		}
		shapes = append(shapes, rowShapes)
	}

	result := shapes[0]
	for _, row := range shapes[1:] {
		result = commonRowShape(result, row)
		if result == nil {
			return nil, nil
		}
	}
	return result, nil
}

func commonRowShape(a, b []tensor.Shape) []tensor.Shape {
	if a == nil || b == nil || len(a) != len(b) {
		return nil
	}
	out := make([]tensor.Shape, len(a))
	for j := range a {
		out[j] = commonShape(a[j], b[j])
		if out[j] == nil {
			return nil
		}
	}
	return out
}

func commonShape(a, b tensor.Shape) tensor.Shape {
	if len(a) != len(b) {
		return nil
	}
	out := make(tensor.Shape, len(a))
	for i := range a {
		if a[i] == b[i] {
			out[i] = a[i]
		} else {
			out[i] = -1
		}
	}
	return out
}
