//
// ChariotGo - UCI chess engine in GO
//
// MIT License
//
// Copyright (c) 2023-2024 Matthias Klemm
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package transpositiontable

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mklemm/ChariotGo/internal/board"
	"github.com/mklemm/ChariotGo/internal/config"
	. "github.com/mklemm/ChariotGo/internal/types"
)

func TestMain(m *testing.M) {
	config.Setup()
	os.Exit(m.Run())
}

func TestNewTtTable(t *testing.T) {
	tt := NewTtTable(4)
	assert.Equal(t, uint64(0), tt.Len())
	assert.Equal(t, 0, tt.Hashfull())
	assert.Nil(t, tt.Probe(board.Key(42)))
}

func TestPutProbe(t *testing.T) {
	tt := NewTtTable(4)
	tt.Put(board.Key(42), Value(1.5), 3)
	assert.Equal(t, uint64(1), tt.Len())

	e := tt.Probe(board.Key(42))
	assert.NotNil(t, e)
	assert.Equal(t, Value(1.5), e.Value)
	assert.Equal(t, int8(3), e.Depth)

	// update same key
	tt.Put(board.Key(42), Value(-2), 5)
	assert.Equal(t, uint64(1), tt.Len())
	e = tt.Probe(board.Key(42))
	assert.Equal(t, Value(-2), e.Value)
	assert.Equal(t, int8(5), e.Depth)
}

func TestCollisionOverwrites(t *testing.T) {
	tt := NewTtTable(1)
	maxEntries := tt.maxNumberOfEntries
	keyA := board.Key(7)
	keyB := board.Key(7 + maxEntries) // same slot, different key
	tt.Put(keyA, Value(1), 1)
	tt.Put(keyB, Value(2), 1)
	assert.Nil(t, tt.Probe(keyA))
	assert.NotNil(t, tt.Probe(keyB))
}

func TestClear(t *testing.T) {
	tt := NewTtTable(1)
	tt.Put(board.Key(42), Value(1), 1)
	tt.Clear()
	assert.Equal(t, uint64(0), tt.Len())
	assert.Nil(t, tt.Probe(board.Key(42)))
}

func TestZeroSize(t *testing.T) {
	tt := NewTtTable(0)
	tt.Put(board.Key(42), Value(1), 1)
	assert.Nil(t, tt.Probe(board.Key(42)))
	assert.Equal(t, 0, tt.Hashfull())
}
