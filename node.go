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

// node is a single graph vertex. Its neighbor lists are non-owning
// references to other nodes in the same index's store; the store is the
// only thing that creates or destroys *node values.
type node struct {
	name      string
	vector    vector.Vector
	level     int
	neighbors []neighborList // neighbors[l] is populated for l in [0, level]
}

// neighborEntry pairs a neighbor reference with its distance to the owning
// node, the unit every neighborList and search-kernel heap operates on.
type neighborEntry struct {
	n    *node
	dist float32
}

// neighborList is a distance-sorted, capped adjacency list for one node at
// one layer. Entries are kept sorted ascending by dist with
// unique targets and no self-loops; callers are responsible for never
// calling add/insert with the owning node itself.
type neighborList struct {
	entries []neighborEntry
}

func (nl *neighborList) len() int { return len(nl.entries) }

func (nl *neighborList) contains(n *node) bool {
	for _, e := range nl.entries {
		if e.n == n {
			return true
		}
	}
	return false
}

// add inserts (n, dist) in sorted position without enforcing any cap.
func (nl *neighborList) add(n *node, dist float32) {
	pos := sort.Search(len(nl.entries), func(i int) bool { return nl.entries[i].dist >= dist })
	nl.entries = append(nl.entries, neighborEntry{})
	copy(nl.entries[pos+1:], nl.entries[pos:])
	nl.entries[pos] = neighborEntry{n, dist}
}

// insert adds (n, dist) in sorted position and, if the list now exceeds
// cap, trims the largest-distance entries from the tail. It returns the
// nodes evicted that way so the caller can repair the symmetric edge on
// their side.
func (nl *neighborList) insert(n *node, dist float32, cap int) []*node {
	nl.add(n, dist)
	var evicted []*node
	for len(nl.entries) > cap {
		last := nl.entries[len(nl.entries)-1]
		evicted = append(evicted, last.n)
		nl.entries = nl.entries[:len(nl.entries)-1]
	}
	return evicted
}

// remove deletes the entry for n, if present. O(len(list)).
func (nl *neighborList) remove(n *node) {
	for i, e := range nl.entries {
		if e.n == n {
			nl.entries = append(nl.entries[:i], nl.entries[i+1:]...)
			return
		}
	}
}

// snapshot returns a copy of the current entries, safe for the caller to
// hold onto across further mutations of nl.
func (nl *neighborList) snapshot() []neighborEntry {
	out := make([]neighborEntry, len(nl.entries))
	copy(out, nl.entries)
	return out
}

// replaceAll overwrites the list with an already-selected entry set (the
// output of the heuristic selector), returning the nodes that were present
// before but are not in the new set, so the caller can remove the
// symmetric edge on their side.
func (nl *neighborList) replaceAll(entries []neighborEntry) []*node {
	old := nl.entries
	nl.entries = append([]neighborEntry(nil), entries...)

	var evicted []*node
outer:
	for _, e := range old {
		for _, k := range entries {
			if k.n == e.n {
				continue outer
			}
		}
		evicted = append(evicted, e.n)
	}
	return evicted
}

// nodeStore owns every node in an index by name. It is the
// sole creator/destroyer of node records; every other piece of the index
// only ever holds non-owning *node references obtained from it.
type nodeStore struct {
	byName map[string]*node
}

func newNodeStore() *nodeStore {
	return &nodeStore{byName: make(map[string]*node)}
}

func (s *nodeStore) create(name string, v vector.Vector, level int) (*node, error) {
	if _, exists := s.byName[name]; exists {
		return nil, ErrDuplicate
	}
	n := &node{
		name:      name,
		vector:    v,
		level:     level,
		neighbors: make([]neighborList, level+1),
	}
	s.byName[name] = n
	return n, nil
}

func (s *nodeStore) get(name string) (*node, error) {
	n, ok := s.byName[name]
	if !ok {
		return nil, ErrNotFound
	}
	return n, nil
}

func (s *nodeStore) remove(name string) error {
	if _, ok := s.byName[name]; !ok {
		return ErrNotFound
	}
	delete(s.byName, name)
	return nil
}

func (s *nodeStore) len() int { return len(s.byName) }

// each visits every node in an unspecified order, stopping early if fn
// returns false. It is the store's lazy-iteration primitive; a
// slice-returning variant would force materializing the whole node set even
// for callers that only need the first match.
func (s *nodeStore) each(fn func(*node) bool) {
	for _, n := range s.byName {
		if !fn(n) {
			return
		}
	}
}
