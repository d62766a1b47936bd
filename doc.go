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

// Package hnsw is an in-memory Hierarchical Navigable Small World
// approximate-nearest-neighbor index, meant to sit behind a key-value
// host's module interface: command dispatch, persistence, and the
// name->index registry all live on the host side.
//
// # Basic usage
//
//	idx, err := hnsw.New("products", 128, hnsw.WithM(16), hnsw.WithEfConstruction(200))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := idx.NodeAdd("sku:1", embedding); err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := idx.Search(10, queryVector)
//
// # Concurrency
//
// An *Index is safe for concurrent use. NodeAdd and NodeDel take an
// exclusive lock; NodeGet, Get, and Search take a shared lock. There are
// no suspension points inside any call — every operation either returns
// or runs the CPU-bound algorithm to completion.
//
// # Distance convention
//
// See the vector subpackage: all distances are squared Euclidean, and
// that convention holds from neighbor-list storage through to the
// Distance field of a SearchResult.
package hnsw
