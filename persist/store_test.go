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

package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	blob := []byte{0x01, 0x02, 0x03}
	require.NoError(t, s.Save("products", blob))

	got, err := s.Load("products")
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteThenLoad(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save("products", []byte("x")))
	require.NoError(t, s.Delete("products"))

	_, err := s.Load("products")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNames(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save("a", []byte("1")))
	require.NoError(t, s.Save("b", []byte("2")))

	names, err := s.Names()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}
