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
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/zhao-lang/redis-hnsw/vector"
)

// Index is a single named HNSW index, combining the graph's data model and
// its command-facing facade in one type. It owns every node inserted into it, carries
// its own concurrency guard, and is safe for concurrent use by multiple
// command-handling goroutines on the host side.
type Index struct {
	name           string
	dim            int
	m              int
	mMax           int
	mMax0          int
	efConstruction int
	levelMult      float64

	mu         sync.RWMutex
	store      *nodeStore
	maxLayer   int
	entryPoint *node
	rng        *rand.Rand
}

// New creates an empty index named name over dim-dimensional vectors.
// Returns ErrBadArg if dim <= 0 or the configured M < 2.
func New(name string, dim int, opts ...Option) (*Index, error) {
	if dim <= 0 {
		return nil, newError(KindBadArg, "dim must be positive, got %d", dim)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.m < 2 {
		return nil, newError(KindBadArg, "M must be >= 2, got %d", cfg.m)
	}
	if cfg.efConstruction < 1 {
		return nil, newError(KindBadArg, "EFCON must be >= 1, got %d", cfg.efConstruction)
	}

	rng := cfg.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	return &Index{
		name:           name,
		dim:            dim,
		m:              cfg.m,
		mMax:           cfg.m,
		mMax0:          cfg.m * 2,
		efConstruction: cfg.efConstruction,
		levelMult:      1 / math.Log(float64(cfg.m)),
		store:          newNodeStore(),
		maxLayer:       -1,
		rng:            rng,
	}, nil
}

// Close releases the index. The index is pure in-memory state, so there is
// nothing to flush or unlock; Close exists to give callers a symmetric
// lifecycle hook opposite New, the way a DB.Close() pairs with Open().
// After Close, further use of idx is undefined.
func (idx *Index) Close() error { return nil }

// Attributes holds the fields HNSW.GET reports about an index.
type Attributes struct {
	Name           string
	Dim            int
	M              int
	EfConstruction int
	MaxLayer       int
	EntryPoint     string // empty if the index has no nodes
	NodeCount      int
}

// Get returns the index's current configuration and graph summary.
func (idx *Index) Get() Attributes {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	a := Attributes{
		Name:           idx.name,
		Dim:            idx.dim,
		M:              idx.m,
		EfConstruction: idx.efConstruction,
		MaxLayer:       idx.maxLayer,
		NodeCount:      idx.store.len(),
	}
	if idx.entryPoint != nil {
		a.EntryPoint = idx.entryPoint.name
	}
	return a
}

// NodeAttributes holds the fields HNSW.NODE.GET reports about one node.
type NodeAttributes struct {
	Name      string
	Vector    vector.Vector
	Layer     int
	Neighbors [][]string // Neighbors[l] = neighbor names at layer l, ascending by distance
}

// NodeGet returns one node's vector, layer, and per-layer neighbor names.
// Fails with ErrNotFound if name is absent.
func (idx *Index) NodeGet(name string) (NodeAttributes, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n, err := idx.store.get(name)
	if err != nil {
		return NodeAttributes{}, err
	}

	neighbors := make([][]string, len(n.neighbors))
	for l, nl := range n.neighbors {
		names := make([]string, nl.len())
		for i, e := range nl.entries {
			names[i] = e.n.name
		}
		neighbors[l] = names
	}

	return NodeAttributes{
		Name:      n.name,
		Vector:    vector.Clone(n.vector),
		Layer:     n.level,
		Neighbors: neighbors,
	}, nil
}

// Len reports the number of nodes currently in the index.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.store.len()
}

// SearchResult is one ranked hit from Search: the node's name and its
// distance to the query, in the convention documented on the vector
// package (squared Euclidean).
type SearchResult struct {
	Name     string
	Distance float32
}

// Search returns the k nearest neighbors of q under squared Euclidean
// distance. Fails with ErrDimensionMismatch if q's length disagrees with
// the index's dimensionality, ErrBadArg if k < 1, and ErrEmpty if the index
// has no nodes.
func (idx *Index) Search(k int, q vector.Vector) ([]SearchResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if k < 1 {
		return nil, newError(KindBadArg, "k must be >= 1, got %d", k)
	}
	if len(q) != idx.dim {
		return nil, ErrDimensionMismatch
	}
	if idx.entryPoint == nil {
		return nil, ErrEmpty
	}

	ep := idx.greedyDescend(q, idx.entryPoint, idx.maxLayer, 0)

	ef := idx.efConstruction
	if k > ef {
		ef = k
	}
	w := idx.searchLayer(q, []*node{ep}, ef, 0)
	sort.Slice(w, func(i, j int) bool { return w[i].dist < w[j].dist })

	if k > len(w) {
		k = len(w)
	}
	out := make([]SearchResult, k)
	for i := 0; i < k; i++ {
		out[i] = SearchResult{Name: w[i].n.name, Distance: w[i].dist}
	}
	return out, nil
}
