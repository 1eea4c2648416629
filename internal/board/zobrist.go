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
	. "github.com/mklemm/ChariotGo/internal/types"
)

// Key is used for zobrist keys in chess positions.
// Zobrist keys need all 64 bits for distribution.
type Key uint64

// zobristSet holds the random base keys of one engine instance. The
// keys are owned by the board (shared between copies of the same board)
// and stable for its life time. Comparing keys across independently
// created zobrist sets is meaningless.
type zobristSet struct {
	pieces        [PieceLength][SqLength]Key
	castling      [4]Key // one key per independent castling right
	enPassantFile [8]Key
	nextPlayer    Key
}

// castlingFlags maps the castling key indexes to the rights
var castlingFlags = [4]CastlingRights{CastlingWhiteOO, CastlingWhiteOOO, CastlingBlackOO, CastlingBlackOOO}

func newZobristSet() *zobristSet {
	z := &zobristSet{}
	r := NewRandom(1070372)
	for pc := PieceNone; pc < PieceLength; pc++ {
		for sq := SqA1; sq <= SqH8; sq++ {
			z.pieces[pc][sq] = Key(r.Rand64())
		}
	}
	for i := range z.castling {
		z.castling[i] = Key(r.Rand64())
	}
	for f := FileA; f <= FileH; f++ {
		z.enPassantFile[f] = Key(r.Rand64())
	}
	z.nextPlayer = Key(r.Rand64())
	return z
}

// castlingKeys returns the XOR of the keys of all active rights
func (z *zobristSet) castlingKeys(cr CastlingRights) Key {
	var k Key
	for i, flag := range castlingFlags {
		if cr.Has(flag) {
			k ^= z.castling[i]
		}
	}
	return k
}
