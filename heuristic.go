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
	"sort"

	"github.com/zhao-lang/redis-hnsw/vector"
)

// selectNeighbors implements Algorithm 4 of the HNSW paper: pick up to m
// neighbors for q out of candidates, preferring a diverse set
// over the m closest, by rejecting a candidate that sits closer to an
// already-chosen neighbor than to q itself. Pure: never mutates graph
// state, only reads candidate vectors and (if extendCandidates) their
// existing neighbor lists at layer.
func selectNeighbors(q vector.Vector, candidates []neighborEntry, m, layer int, extendCandidates, keepPruned bool) []neighborEntry {
	work := append([]neighborEntry(nil), candidates...)

	if extendCandidates {
		seen := make(map[*node]bool, len(work))
		for _, e := range work {
			seen[e.n] = true
		}
		var extra []neighborEntry
		for _, e := range candidates {
			if layer >= len(e.n.neighbors) {
				continue
			}
			for _, f := range e.n.neighbors[layer].entries {
				if seen[f.n] {
					continue
				}
				seen[f.n] = true
				d, _ := vector.Distance(q, f.n.vector)
				extra = append(extra, neighborEntry{f.n, d})
			}
		}
		work = append(work, extra...)
	}

	// Stable sort: ties keep their relative (insertion) order.
	sort.SliceStable(work, func(i, j int) bool { return work[i].dist < work[j].dist })

	var result, discarded []neighborEntry
	for len(work) > 0 && len(result) < m {
		e := work[0]
		work = work[1:]

		keep := len(result) == 0
		if !keep {
			keep = true
			for _, r := range result {
				d, _ := vector.Distance(e.n.vector, r.n.vector)
				if d <= e.dist {
					keep = false
					break
				}
			}
		}

		if keep {
			result = append(result, e)
		} else {
			discarded = append(discarded, e)
		}
	}

	if keepPruned {
		for len(result) < m && len(discarded) > 0 {
			result = append(result, discarded[0])
			discarded = discarded[1:]
		}
	}

	return result
}
