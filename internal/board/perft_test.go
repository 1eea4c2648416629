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

package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ///////////////////////////////////////////////////////////////
// Perft tests from https://www.chessprogramming.org/Perft_Results
// ///////////////////////////////////////////////////////////////

func TestStandardPerft(t *testing.T) {
	var results = [6]uint64{1, 20, 400, 8_902, 197_281, 4_865_609}

	maxDepth := 4
	if !testing.Short() {
		maxDepth = 5
	}

	b := New()
	for depth := 1; depth <= maxDepth; depth++ {
		nodes := b.Perft(depth)
		assert.Equal(t, results[depth], nodes, "perft(%d)", depth)
	}
}

func TestKiwipetePerft(t *testing.T) {
	b, err := NewFen("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, uint64(48), b.Perft(1))
	assert.Equal(t, uint64(2_039), b.Perft(2))
	if !testing.Short() {
		assert.Equal(t, uint64(97_862), b.Perft(3))
	}
}

func TestEnPassantPerft(t *testing.T) {
	// position 3 from the chess programming wiki, rich in en passant
	// and pin themes
	b, err := NewFen("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, uint64(14), b.Perft(1))
	assert.Equal(t, uint64(191), b.Perft(2))
	assert.Equal(t, uint64(2_812), b.Perft(3))
	if !testing.Short() {
		assert.Equal(t, uint64(43_238), b.Perft(4))
	}
}
