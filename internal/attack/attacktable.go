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

package attack

import (
	"fmt"
	"strings"

	. "github.com/mklemm/ChariotGo/internal/types"
)

// Table is the per square inverted attack index: for each square, for
// each color, for each piece type, the set of origin squares of pieces
// currently attacking the square. Origin sets are bitboards; an empty
// bitboard is the deleted bucket, so IsAttackedBy only needs to check
// for non zero buckets.
// Create with NewTable().
type Table struct {
	attackers [SqLength][ColorLength][PtLength]Bitboard
}

// NewTable creates an empty attack table
func NewTable() *Table {
	return &Table{}
}

// AddAttacker records that the piece of the given color and type
// standing on origin attacks the square.
func (t *Table) AddAttacker(sq Square, c Color, pt PieceType, origin Square) {
	t.attackers[sq][c][pt].PushSquare(origin)
}

// RemoveAttacker removes the attack of the piece standing on origin
// from the square. Removing a non present origin is a corrupt state
// and fatal.
func (t *Table) RemoveAttacker(sq Square, c Color, pt PieceType, origin Square) {
	if !t.attackers[sq][c][pt].Has(origin) {
		panic(fmt.Sprintf("Table RemoveAttacker: no %s of %s from %s attacking %s",
			pt.String(), c.String(), origin.String(), sq.String()))
	}
	t.attackers[sq][c][pt].PopSquare(origin)
}

// Attackers returns the origins of all pieces of the given color and
// type attacking the square.
func (t *Table) Attackers(sq Square, c Color, pt PieceType) Bitboard {
	return t.attackers[sq][c][pt]
}

// AllAttackers returns the origins of all pieces of the given color
// attacking the square regardless of piece type.
func (t *Table) AllAttackers(sq Square, c Color) Bitboard {
	bb := BbNone
	for pt := King; pt <= Queen; pt++ {
		bb |= t.attackers[sq][c][pt]
	}
	return bb
}

// SliderAttackers returns the origins of all sliding pieces (bishop,
// rook, queen) of the given color attacking the square.
func (t *Table) SliderAttackers(sq Square, c Color) Bitboard {
	return t.attackers[sq][c][Bishop] | t.attackers[sq][c][Rook] | t.attackers[sq][c][Queen]
}

// IsAttackedBy reports whether any piece of the given color attacks
// the square.
func (t *Table) IsAttackedBy(c Color, sq Square) bool {
	for pt := King; pt <= Queen; pt++ {
		if t.attackers[sq][c][pt] != 0 {
			return true
		}
	}
	return false
}

// Clear empties the table
func (t *Table) Clear() {
	*t = Table{}
}

// String returns a dump of all non empty buckets, useful in the
// diagnostic output of corrupt state panics.
func (t *Table) String() string {
	var os strings.Builder
	for sq := SqA1; sq < SqNone; sq++ {
		for c := White; c <= Black; c++ {
			for pt := King; pt <= Queen; pt++ {
				if bb := t.attackers[sq][c][pt]; bb != 0 {
					os.WriteString(fmt.Sprintf("%s %s %s <- [%s]\n",
						sq.String(), c.String(), pt.String(), bb.String()))
				}
			}
		}
	}
	return os.String()
}
