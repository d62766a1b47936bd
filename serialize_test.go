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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhao-lang/redis-hnsw/vector"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	idx := buildLinearIndex(t, 4)

	blob, err := idx.Serialize()
	require.NoError(t, err)

	restored, err := Deserialize(blob)
	require.NoError(t, err)

	assert.Equal(t, idx.Get(), restored.Get())

	for i := 1; i <= 100; i++ {
		name := itoa(i)
		want, err := idx.NodeGet(name)
		require.NoError(t, err)
		got, err := restored.NodeGet(name)
		require.NoError(t, err)
		assert.Equal(t, want.Vector, got.Vector)
		assert.Equal(t, want.Layer, got.Layer)
		assert.Equal(t, want.Neighbors, got.Neighbors)
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	idx := buildLinearIndex(t, 4)

	a, err := idx.Serialize()
	require.NoError(t, err)
	b, err := idx.Serialize()
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSerializeEmptyIndex(t *testing.T) {
	idx, err := New("foo", 4)
	require.NoError(t, err)

	blob, err := idx.Serialize()
	require.NoError(t, err)

	restored, err := Deserialize(blob)
	require.NoError(t, err)
	assert.Equal(t, 0, restored.Len())

	_, err = restored.Search(1, vector.Vector{0, 0, 0, 0})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDeserializeRejectsCorruptData(t *testing.T) {
	_, err := Deserialize([]byte{0xff, 0x00, 0x01})
	assert.Error(t, err)
}

func TestDeserializeHonorsOverrideOptions(t *testing.T) {
	idx, err := New("foo", 4, WithM(5))
	require.NoError(t, err)
	require.NoError(t, idx.NodeAdd("a", vector.Vector{1, 2, 3, 4}))

	blob, err := idx.Serialize()
	require.NoError(t, err)

	restored, err := Deserialize(blob, WithSeed(1))
	require.NoError(t, err)
	require.NoError(t, restored.NodeAdd("b", vector.Vector{5, 6, 7, 8}))

	// The same seed must drive level assignment identically after a second
	// restore.
	again, err := Deserialize(blob, WithSeed(1))
	require.NoError(t, err)
	require.NoError(t, again.NodeAdd("b", vector.Vector{5, 6, 7, 8}))

	want, err := restored.NodeGet("b")
	require.NoError(t, err)
	got, err := again.NodeGet("b")
	require.NoError(t, err)
	assert.Equal(t, want.Layer, got.Layer)
	assert.Equal(t, restored.Get(), again.Get())
}
