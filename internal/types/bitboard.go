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

package types

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares encoded as a 64-bit word with one bit
// per square (bit 0 = a1, bit 63 = h8). It is used for the square sets
// of the attack index and for pre-computed geometry.
type Bitboard uint64

// BbNone is the empty bitboard
const BbNone Bitboard = 0

// BbAll is the full bitboard with all squares set
const BbAll Bitboard = 0xFFFF_FFFF_FFFF_FFFF

// Has tests if the square is part of the bitboard
func (b Bitboard) Has(sq Square) bool {
	return b&(Bitboard(1)<<sq) != 0
}

// PushSquare sets the corresponding bit of the bitboard for the square
func (b *Bitboard) PushSquare(sq Square) {
	*b |= Bitboard(1) << sq
}

// PopSquare removes the corresponding bit of the bitboard for the square
func (b *Bitboard) PopSquare(sq Square) {
	*b &^= Bitboard(1) << sq
}

// PopCount returns the number of squares in the bitboard
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// Lsb returns the least significant bit of the 64-bit bitboard as a
// square. This translates directly to the lowest indexed square.
// Returns SqNone if bitboard is empty.
func (b Bitboard) Lsb() Square {
	if b == 0 {
		return SqNone
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLsb returns the least significant bit of the bitboard and removes
// it from the bitboard.
// Returns SqNone if bitboard is empty.
func (b *Bitboard) PopLsb() Square {
	if *b == 0 {
		return SqNone
	}
	lsb := b.Lsb()
	*b &= *b - 1
	return lsb
}

// Squares returns the squares of the bitboard in ascending order
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.PopCount())
	for tmp := b; tmp != 0; {
		squares = append(squares, tmp.PopLsb())
	}
	return squares
}

// String returns a string listing the squares of the bitboard
func (b Bitboard) String() string {
	var os strings.Builder
	for tmp := b; tmp != 0; {
		os.WriteString(tmp.PopLsb().String())
		if tmp != 0 {
			os.WriteString(" ")
		}
	}
	return os.String()
}

// StringBoard returns a visual board matrix of the bitboard
func (b Bitboard) StringBoard() string {
	var os strings.Builder
	os.WriteString("+---+---+---+---+---+---+---+---+\n")
	for r := Rank1; r <= Rank8; r++ {
		for f := FileA; f <= FileH; f++ {
			if b.Has(SquareOf(f, Rank8-r)) {
				os.WriteString("| X ")
			} else {
				os.WriteString("|   ")
			}
		}
		os.WriteString("|\n+---+---+---+---+---+---+---+---+\n")
	}
	return os.String()
}
