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
	"container/heap"

	"github.com/zhao-lang/redis-hnsw/vector"
)

// minHeap is a min-heap of neighborEntry ordered by ascending distance —
// the search kernel's expansion frontier.
type minHeap []neighborEntry

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)         { *h = append(*h, x.(neighborEntry)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// maxHeap is a max-heap of neighborEntry ordered by descending distance —
// the search kernel's bounded result set, kept as a max-heap so the
// furthest member (the next to evict) is always the root.
type maxHeap []neighborEntry

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)         { *h = append(*h, x.(neighborEntry)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// searchLayer is the bounded best-first search shared by insertion and
// querying. It returns up to ef results, sorted ascending by distance to q.
func (idx *Index) searchLayer(q vector.Vector, entryPoints []*node, ef int, layer int) []neighborEntry {
	visited := make(map[*node]bool, ef*2)

	candidates := &minHeap{}
	w := &maxHeap{}

	for _, ep := range entryPoints {
		if visited[ep] {
			continue
		}
		visited[ep] = true
		d, _ := vector.Distance(q, ep.vector)
		heap.Push(candidates, neighborEntry{ep, d})
		heap.Push(w, neighborEntry{ep, d})
	}

	for candidates.Len() > 0 {
		c := heap.Pop(candidates).(neighborEntry)
		if w.Len() >= ef && c.dist > (*w)[0].dist {
			break
		}

		if layer >= len(c.n.neighbors) {
			continue
		}
		for _, e := range c.n.neighbors[layer].entries {
			if visited[e.n] {
				continue
			}
			visited[e.n] = true

			d, _ := vector.Distance(q, e.n.vector)
			if w.Len() < ef || d < (*w)[0].dist {
				heap.Push(candidates, neighborEntry{e.n, d})
				heap.Push(w, neighborEntry{e.n, d})
				if w.Len() > ef {
					heap.Pop(w)
				}
			}
		}
	}

	result := make([]neighborEntry, w.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(w).(neighborEntry)
	}
	return result
}

// greedyDescend walks from a single entry point down through layers
// fromLayer to toLayer+1 inclusive, i.e. (toLayer, fromLayer], using an
// ef=1 layer search at each step, landing on the single nearest node found
// at toLayer+1.
func (idx *Index) greedyDescend(q vector.Vector, from *node, fromLayer, toLayer int) *node {
	current := from
	for lc := fromLayer; lc > toLayer; lc-- {
		w := idx.searchLayer(q, []*node{current}, 1, lc)
		if len(w) > 0 {
			current = w[0].n
		}
	}
	return current
}

func nodesOf(entries []neighborEntry) []*node {
	out := make([]*node, len(entries))
	for i, e := range entries {
		out[i] = e.n
	}
	return out
}
