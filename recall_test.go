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

package hnsw

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zhao-lang/redis-hnsw/vector"
)

// bruteForceKNN returns the k nearest names to q by exhaustive scan, the
// ground truth recall is measured against.
func bruteForceKNN(vectors map[string]vector.Vector, k int, q vector.Vector) []string {
	type hit struct {
		name string
		dist float32
	}
	hits := make([]hit, 0, len(vectors))
	for name, v := range vectors {
		d, _ := vector.Distance(q, v)
		hits = append(hits, hit{name, d})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	if k > len(hits) {
		k = len(hits)
	}
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = hits[i].name
	}
	return out
}

func TestRecallAgainstBruteForce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping recall sanity check in short mode")
	}

	const (
		n   = 1000
		dim = 16
		k   = 10
		m   = 16
		efc = 200
	)

	src := rand.New(rand.NewSource(1))

	idx, err := New("recall", dim, WithM(m), WithEfConstruction(efc), WithSeed(2))
	require.NoError(t, err)

	vectors := make(map[string]vector.Vector, n)
	for i := 0; i < n; i++ {
		v := make(vector.Vector, dim)
		for d := range v {
			v[d] = src.Float32()*2 - 1
		}
		name := itoa(i)
		require.NoError(t, idx.NodeAdd(name, v))
		vectors[name] = v
	}

	var hits, total int
	for q := 0; q < 100; q++ {
		query := make(vector.Vector, dim)
		for d := range query {
			query[d] = src.Float32()*2 - 1
		}

		want := bruteForceKNN(vectors, k, query)
		got, err := idx.Search(k, query)
		require.NoError(t, err)

		wantSet := make(map[string]bool, len(want))
		for _, w := range want {
			wantSet[w] = true
		}
		for _, g := range got {
			if wantSet[g.Name] {
				hits++
			}
		}
		total += len(want)
	}

	recall := float64(hits) / float64(total)
	require.GreaterOrEqualf(t, recall, 0.9, "recall@%d over 100 queries was %.3f, want >= 0.9", k, recall)
}
