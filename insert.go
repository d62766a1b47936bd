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

import "github.com/zhao-lang/redis-hnsw/vector"

// NodeAdd inserts a new named vector into the index. It
// fails with ErrDuplicate if name already exists and ErrDimensionMismatch
// if v's length disagrees with the index's dimensionality; on any other
// error the index is left exactly as it was (all-or-nothing).
func (idx *Index) NodeAdd(name string, v vector.Vector) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.addLocked(name, v)
}

// addLocked implements the insertion driver. Caller must hold idx.mu for
// writing.
func (idx *Index) addLocked(name string, v vector.Vector) error {
	if len(v) != idx.dim {
		return ErrDimensionMismatch
	}
	if _, err := idx.store.get(name); err == nil {
		return ErrDuplicate
	}

	level := assignLevel(idx.rng, idx.levelMult)
	vv := vector.Clone(v)

	// Empty index: the new node becomes the sole entry point, no edges to
	// install.
	if idx.entryPoint == nil {
		newNode, err := idx.store.create(name, vv, level)
		if err != nil {
			return err
		}
		idx.entryPoint = newNode
		idx.maxLayer = level
		return nil
	}

	L := idx.maxLayer
	newNode, err := idx.store.create(name, vv, level)
	if err != nil {
		return err
	}

	// Greedy-descend from the current entry point to obtain the entry for
	// the highest layer the new node actually participates in.
	ep := idx.greedyDescend(vv, idx.entryPoint, L, level)

	top := level
	if L < top {
		top = L
	}

	entrySet := []*node{ep}
	for lc := top; lc >= 0; lc-- {
		w := idx.searchLayer(vv, entrySet, idx.efConstruction, lc)
		selected := selectNeighbors(vv, w, idx.m, lc, false, true)
		for _, sel := range selected {
			idx.connect(newNode, sel.n, sel.dist, lc)
		}
		entrySet = nodesOf(w)
	}

	if level > L {
		idx.entryPoint = newNode
		idx.maxLayer = level
	}

	return nil
}

// connect installs the symmetric edge pair (newNode, target) at layer
// during insertion. newNode's side is freshly built this call and can't
// exceed cap (selectNeighbors already bounded it to at most idx.m
// candidates), so a plain capped insert suffices there; target's side may
// already be near capacity, so it goes through linkWithRepair, which
// reselects by the heuristic and fixes up symmetry on overflow.
func (idx *Index) connect(newNode, target *node, dist float32, layer int) {
	newNode.neighbors[layer].insert(target, dist, idx.capAt(layer))
	idx.linkWithRepair(target, newNode, dist, layer)
}

// linkWithRepair adds the edge from->to. If that pushes from's list past
// its cap, it reruns the heuristic selector over from's full neighbor set
// rather than just trimming the largest-distance entry, since a naive
// largest-distance trim would silently desynchronize from's list from the
// target's reciprocal edge, and removes the symmetric edge on every node
// the reselection evicted.
func (idx *Index) linkWithRepair(from, to *node, dist float32, layer int) {
	cap := idx.capAt(layer)
	from.neighbors[layer].add(to, dist)
	if from.neighbors[layer].len() > cap {
		full := from.neighbors[layer].snapshot()
		reselected := selectNeighbors(from.vector, full, cap, layer, false, true)
		evicted := from.neighbors[layer].replaceAll(reselected)
		for _, e := range evicted {
			e.neighbors[layer].remove(from)
		}
	}
}

// capAt returns the neighbor-list cap for layer: Mmax0 at layer 0, Mmax
// everywhere else.
func (idx *Index) capAt(layer int) int {
	if layer == 0 {
		return idx.mMax0
	}
	return idx.mMax
}
