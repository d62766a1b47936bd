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

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zhao-lang/redis-hnsw/vector"
)

// snapshotEdge is the wire form of one neighborEntry.
type snapshotEdge struct {
	Name string  `msgpack:"name"`
	Dist float32 `msgpack:"dist"`
}

// snapshotNode is the wire form of one node, including its neighbor lists
// at every layer it participates in.
type snapshotNode struct {
	Name      string         `msgpack:"name"`
	Vector    []float32      `msgpack:"vector"`
	Level     int            `msgpack:"level"`
	Neighbors [][]snapshotEdge `msgpack:"neighbors"`
}

// snapshot is the full wire form of an Index: its fixed configuration plus
// every node and edge in the graph.
type snapshot struct {
	Name           string         `msgpack:"name"`
	Dim            int            `msgpack:"dim"`
	M              int            `msgpack:"m"`
	EfConstruction int            `msgpack:"ef_construction"`
	MaxLayer       int            `msgpack:"max_layer"`
	EntryPoint     string         `msgpack:"entry_point"`
	Nodes          []snapshotNode `msgpack:"nodes"`
}

// Serialize encodes the index as a deterministic msgpack byte stream:
// config, every node's name/vector/level, and every neighbor list at every
// layer. Nodes are emitted sorted by name so that two calls against the
// same graph state always produce byte-identical output, independent of Go
// map iteration order.
func (idx *Index) Serialize() ([]byte, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	s := snapshot{
		Name:           idx.name,
		Dim:            idx.dim,
		M:              idx.m,
		EfConstruction: idx.efConstruction,
		MaxLayer:       idx.maxLayer,
		Nodes:          make([]snapshotNode, 0, idx.store.len()),
	}
	if idx.entryPoint != nil {
		s.EntryPoint = idx.entryPoint.name
	}

	idx.store.each(func(n *node) bool {
		sn := snapshotNode{
			Name:      n.name,
			Vector:    []float32(n.vector),
			Level:     n.level,
			Neighbors: make([][]snapshotEdge, len(n.neighbors)),
		}
		for l, nl := range n.neighbors {
			edges := make([]snapshotEdge, nl.len())
			for i, e := range nl.entries {
				edges[i] = snapshotEdge{Name: e.n.name, Dist: e.dist}
			}
			sn.Neighbors[l] = edges
		}
		s.Nodes = append(s.Nodes, sn)
		return true
	})

	sort.Slice(s.Nodes, func(i, j int) bool { return s.Nodes[i].Name < s.Nodes[j].Name })

	return msgpack.Marshal(&s)
}

// Deserialize reconstructs an Index from bytes produced by Serialize. The
// rebuilt index's random source is freshly seeded (level assignment
// already happened at the original insertion time and is part of the
// snapshot), but WithSeed may still be passed for deterministic future
// insertions.
func Deserialize(data []byte, opts ...Option) (*Index, error) {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, newError(KindInternal, "corrupt snapshot: %v", err)
	}

	cfg := defaultConfig()
	cfg.m = s.M
	cfg.efConstruction = s.EfConstruction
	for _, opt := range opts {
		opt(cfg)
	}
	rng := cfg.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	idx := &Index{
		name:           s.Name,
		dim:            s.Dim,
		m:              cfg.m,
		mMax:           cfg.m,
		mMax0:          cfg.m * 2,
		efConstruction: cfg.efConstruction,
		levelMult:      1 / math.Log(float64(cfg.m)),
		store:          newNodeStore(),
		maxLayer:       s.MaxLayer,
		rng:            rng,
	}

	// Pass 1: create every node, no edges yet.
	for _, sn := range s.Nodes {
		n, err := idx.store.create(sn.Name, vector.Vector(sn.Vector), sn.Level)
		if err != nil {
			return nil, newError(KindInternal, "duplicate node %q in snapshot", sn.Name)
		}
		_ = n
	}

	// Pass 2: wire up neighbor lists now that every *node exists. The
	// snapshot's per-layer edges were already sorted and capped when they
	// were serialized, so entries are trusted as-is rather than replayed
	// through insert/select again.
	for _, sn := range s.Nodes {
		n, err := idx.store.get(sn.Name)
		if err != nil {
			return nil, newError(KindInternal, "missing node %q while wiring snapshot", sn.Name)
		}
		for l, edges := range sn.Neighbors {
			if l >= len(n.neighbors) {
				continue
			}
			entries := make([]neighborEntry, 0, len(edges))
			for _, e := range edges {
				target, err := idx.store.get(e.Name)
				if err != nil {
					return nil, newError(KindInternal, "dangling neighbor %q -> %q in snapshot", sn.Name, e.Name)
				}
				entries = append(entries, neighborEntry{n: target, dist: e.Dist})
			}
			n.neighbors[l].entries = entries
		}
	}

	if s.EntryPoint != "" {
		ep, err := idx.store.get(s.EntryPoint)
		if err != nil {
			return nil, newError(KindInternal, "entry point %q not in snapshot", s.EntryPoint)
		}
		idx.entryPoint = ep
	}

	return idx, nil
}
