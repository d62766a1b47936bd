// Copyright (c) 2024 redis-hnsw Contributors
//
// Permission is hereby granted, free of charge, to any person
// obtaining a copy of this software and associated documentation
// files (the "Software"), to deal in the Software without
// restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the
// Software is furnished to do so, subject to the following
// conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

// Package vector provides the fixed-dimension real vector type and the
// distance kernel the HNSW index builds on.
//
// # Distance convention
//
// Distance returns the *squared* Euclidean distance. Squared distance is
// monotonic with true Euclidean distance, so it never changes a
// nearest-neighbor ordering, and it lets every comparison in the search
// kernel skip a sqrt. The same convention is used everywhere a distance is
// computed, stored in a neighbor list, or reported to a caller — take Sqrt
// of the result if a true metric distance is needed for display.
package vector

import (
	"errors"
	"math"
)

// ErrDimensionMismatch is returned when two vectors (or a vector and an
// index's configured dimensionality) disagree in length.
var ErrDimensionMismatch = errors.New("vector: dimension mismatch")

// Vector is a fixed-dimension sequence of real components.
type Vector []float32

// Distance computes the squared Euclidean distance between a and b.
// Fails with ErrDimensionMismatch when the two vectors have different
// lengths.
func Distance(a, b Vector) (float32, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum, nil
}

// Sqrt converts a squared distance (as returned by Distance) to the true
// Euclidean distance. Only needed at the edges of the system, for display.
func Sqrt(squared float32) float32 {
	if squared < 0 {
		squared = 0
	}
	return float32(math.Sqrt(float64(squared)))
}

// Clone returns an independent copy of v, so the index never aliases a
// caller-owned slice.
func Clone(v Vector) Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}
