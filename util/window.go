package util

import "github.com/gammazero/deque"

// MeanWindow keeps a running mean over the most recent values pushed into a
// bounded window.
type MeanWindow struct {
	values *deque.Deque[float64]
	size   int
	sum    float64
}

func NewMeanWindow(size int) *MeanWindow {
	if size <= 0 {
		size = 1
	}
	return &MeanWindow{
		values: deque.New[float64](size),
		size:   size,
	}
}

// Push adds a value, evicting the oldest one once the window is full.
func (w *MeanWindow) Push(v float64) {
	if w.values.Len() == w.size {
		w.sum -= w.values.PopFront()
	}
	w.values.PushBack(v)
	w.sum += v
}

// Mean of the values currently in the window, zero when empty.
func (w *MeanWindow) Mean() float64 {
	if w.values.Len() == 0 {
		return 0
	}
	return w.sum / float64(w.values.Len())
}

// Len is the number of values currently in the window.
func (w *MeanWindow) Len() int {
	return w.values.Len()
}
