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

import "math/rand"

// Default parameters used when no Option overrides them.
const (
	DefaultM              = 5
	DefaultEfConstruction = 200
)

// config collects the options New applies before deriving the rest of an
// Index's fixed parameters (Mmax, Mmax0, levelMult).
type config struct {
	m              int
	efConstruction int
	rng            *rand.Rand
}

// Option configures an Index at construction time.
type Option func(*config)

// WithM sets the target out-degree M. Mmax is set to M and Mmax0 to 2*M.
// Must be >= 2; New returns a BADARG error otherwise. Default: 5.
func WithM(m int) Option {
	return func(c *config) { c.m = m }
}

// WithEfConstruction sets the size of the dynamic candidate list used
// during insertion. Default: 200.
func WithEfConstruction(ef int) Option {
	return func(c *config) { c.efConstruction = ef }
}

// WithSeed makes level assignment deterministic, for reproducible tests.
func WithSeed(seed int64) Option {
	return func(c *config) { c.rng = rand.New(rand.NewSource(seed)) }
}

func defaultConfig() *config {
	return &config{m: DefaultM, efConstruction: DefaultEfConstruction}
}
