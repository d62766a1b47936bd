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
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/zhao-lang/redis-hnsw/vector"
)

const opsPerRun = 40
const propDim = 3

type op struct {
	Add    bool
	Node   int
	Vector []float32
}

// buildOps zips three independently generated slices (which kind of
// operation, which node name, and a jitter used to derive that node's
// vector) into a sequence of ops, so each property only needs to generate
// plain scalar slices and gopter can shrink each axis independently.
func buildOps(adds []bool, nodes []int, jitters []float32) []op {
	n := len(adds)
	ops := make([]op, n)
	for i := 0; i < n; i++ {
		v := make([]float32, propDim)
		for d := range v {
			v[d] = float32(nodes[i]) + jitters[i]
		}
		ops[i] = op{Add: adds[i], Node: nodes[i], Vector: v}
	}
	return ops
}

// applyOps replays ops against a fresh index, skipping operations that
// would be invalid (deleting an absent node, adding a name already
// present) rather than treating them as failures.
func applyOps(idx *Index, ops []op) {
	present := make(map[string]bool)
	for _, o := range ops {
		name := itoa(o.Node)
		if o.Add {
			if present[name] {
				continue
			}
			if err := idx.NodeAdd(name, vector.Vector(o.Vector)); err == nil {
				present[name] = true
			}
		} else {
			if !present[name] {
				continue
			}
			if err := idx.NodeDel(name); err == nil {
				delete(present, name)
			}
		}
	}
}

func TestGraphInvariantsHoldAfterRandomMutations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	addsGen := gen.SliceOfN(opsPerRun, gen.Bool())
	nodesGen := gen.SliceOfN(opsPerRun, gen.IntRange(0, 15))
	jittersGen := gen.SliceOfN(opsPerRun, gen.Float32Range(-0.5, 0.5))

	properties.Property("neighbor lists never exceed their layer cap", prop.ForAll(
		func(adds []bool, nodes []int, jitters []float32) bool {
			idx, err := New("p", propDim, WithM(4), WithSeed(1))
			if err != nil {
				return false
			}
			applyOps(idx, buildOps(adds, nodes, jitters))

			ok := true
			idx.store.each(func(n *node) bool {
				for l, nl := range n.neighbors {
					if nl.len() > idx.capAt(l) {
						ok = false
						return false
					}
				}
				return true
			})
			return ok
		},
		addsGen, nodesGen, jittersGen,
	))

	properties.Property("every edge is symmetric", prop.ForAll(
		func(adds []bool, nodes []int, jitters []float32) bool {
			idx, err := New("p", propDim, WithM(4), WithSeed(2))
			if err != nil {
				return false
			}
			applyOps(idx, buildOps(adds, nodes, jitters))

			ok := true
			idx.store.each(func(n *node) bool {
				for l, nl := range n.neighbors {
					for _, e := range nl.entries {
						if l >= len(e.n.neighbors) || !e.n.neighbors[l].contains(n) {
							ok = false
							return false
						}
					}
				}
				return ok
			})
			return ok
		},
		addsGen, nodesGen, jittersGen,
	))

	properties.Property("neighbor lists are sorted ascending with unique, non-self entries", prop.ForAll(
		func(adds []bool, nodes []int, jitters []float32) bool {
			idx, err := New("p", propDim, WithM(4), WithSeed(3))
			if err != nil {
				return false
			}
			applyOps(idx, buildOps(adds, nodes, jitters))

			ok := true
			idx.store.each(func(n *node) bool {
				for _, nl := range n.neighbors {
					seen := make(map[*node]bool)
					last := float32(-1)
					for _, e := range nl.entries {
						if e.n == n || seen[e.n] || e.dist < last {
							ok = false
							return false
						}
						seen[e.n] = true
						last = e.dist
					}
				}
				return true
			})
			return ok
		},
		addsGen, nodesGen, jittersGen,
	))

	properties.Property("entry point is always a live node at the graph's max layer", prop.ForAll(
		func(adds []bool, nodes []int, jitters []float32) bool {
			idx, err := New("p", propDim, WithM(4), WithSeed(4))
			if err != nil {
				return false
			}
			applyOps(idx, buildOps(adds, nodes, jitters))

			if idx.store.len() == 0 {
				return idx.entryPoint == nil
			}
			if idx.entryPoint == nil || idx.entryPoint.level != idx.maxLayer {
				return false
			}
			_, err = idx.store.get(idx.entryPoint.name)
			return err == nil
		},
		addsGen, nodesGen, jittersGen,
	))

	properties.Property("no node ever references a deleted name", prop.ForAll(
		func(adds []bool, nodes []int, jitters []float32) bool {
			idx, err := New("p", propDim, WithM(4), WithSeed(5))
			if err != nil {
				return false
			}
			applyOps(idx, buildOps(adds, nodes, jitters))

			ok := true
			idx.store.each(func(n *node) bool {
				for _, nl := range n.neighbors {
					for _, e := range nl.entries {
						if _, err := idx.store.get(e.n.name); err != nil {
							ok = false
							return false
						}
					}
				}
				return true
			})
			return ok
		},
		addsGen, nodesGen, jittersGen,
	))

	properties.TestingRun(t)
}
