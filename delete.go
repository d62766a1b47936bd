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

// NodeDel removes a node by name: it excises the node from
// every layer, repairs the adjacency of its former neighbors, reassigns
// the entry point if necessary, and only then reclaims the node's storage.
// Fails with ErrNotFound if name does not exist.
func (idx *Index) NodeDel(name string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.removeLocked(name)
}

// removeLocked implements the deletion driver. Caller must hold idx.mu for
// writing.
func (idx *Index) removeLocked(name string) error {
	target, err := idx.store.get(name)
	if err != nil {
		return err
	}

	// Step 1: excise target from every ex-neighbor's adjacency, layer by
	// layer, collecting the survivor set S_l that needs repair.
	survivorsByLayer := make([][]*node, target.level+1)
	for lc := 0; lc <= target.level; lc++ {
		entries := target.neighbors[lc].snapshot()
		survivors := make([]*node, 0, len(entries))
		for _, e := range entries {
			e.n.neighbors[lc].remove(target)
			survivors = append(survivors, e.n)
		}
		survivorsByLayer[lc] = survivors
	}

	// Step 2: repair. Any survivor whose list dropped below M gets a fresh
	// neighbor set recomputed over the graph with target already excised.
	for lc := 0; lc <= target.level; lc++ {
		capLc := idx.capAt(lc)
		for _, m := range survivorsByLayer[lc] {
			if m.neighbors[lc].len() >= idx.m {
				continue
			}

			seeds := append([]*node{m}, survivorsByLayer[lc]...)
			w := idx.searchLayer(m.vector, seeds, idx.efConstruction, lc)

			candidates := make([]neighborEntry, 0, len(w))
			for _, e := range w {
				if e.n != m {
					candidates = append(candidates, e)
				}
			}

			reselected := selectNeighbors(m.vector, candidates, capLc, lc, false, true)
			evicted := m.neighbors[lc].replaceAll(reselected)
			for _, e := range evicted {
				e.neighbors[lc].remove(m)
			}
			for _, sel := range reselected {
				if !sel.n.neighbors[lc].contains(m) {
					idx.linkWithRepair(sel.n, m, sel.dist, lc)
				}
			}
		}
	}

	// Step 3: reassign the entry point if target held it.
	if idx.entryPoint == target {
		idx.entryPoint = nil
		idx.maxLayer = -1
		idx.store.each(func(n *node) bool {
			if n == target {
				return true
			}
			if idx.entryPoint == nil || n.level > idx.maxLayer {
				idx.entryPoint = n
				idx.maxLayer = n.level
			}
			return true
		})
	}

	// Step 4: reclaim storage last, once every inbound reference is gone.
	return idx.store.remove(name)
}
