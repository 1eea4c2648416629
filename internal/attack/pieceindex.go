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

	. "github.com/mklemm/ChariotGo/internal/types"
)

// PieceIndex maps each (piece type, color) pair to the squares occupied
// by such pieces and the ActionInfo of each of them. The union of all
// key sets equals the set of occupied squares of the board array.
// Create with NewPieceIndex().
type PieceIndex struct {
	entries [ColorLength][PtLength]map[Square]ActionInfo
	count   int
}

// NewPieceIndex creates an empty PieceIndex
func NewPieceIndex() *PieceIndex {
	pi := &PieceIndex{}
	for c := White; c <= Black; c++ {
		for pt := King; pt <= Queen; pt++ {
			pi.entries[c][pt] = make(map[Square]ActionInfo, 8)
		}
	}
	return pi
}

// Add inserts a piece with its action info at the given square.
// Adding to an already indexed square is a programming error.
func (pi *PieceIndex) Add(p Piece, sq Square, ai ActionInfo) {
	m := pi.entries[p.ColorOf()][p.TypeOf()]
	if _, ok := m[sq]; ok {
		panic(fmt.Sprintf("PieceIndex Add: %s already indexed on %s", p.TypeOf().String(), sq.String()))
	}
	m[sq] = ai
	pi.count++
}

// Update replaces the action info of a piece already present at the
// given square. Updating a piece which is not indexed is a programming
// error.
func (pi *PieceIndex) Update(p Piece, sq Square, ai ActionInfo) {
	m := pi.entries[p.ColorOf()][p.TypeOf()]
	if _, ok := m[sq]; !ok {
		panic(fmt.Sprintf("PieceIndex Update: no %s indexed on %s", p.TypeOf().String(), sq.String()))
	}
	m[sq] = ai
}

// Remove deletes the piece at the given square from the index.
// Removing a piece which is not indexed is a programming error.
func (pi *PieceIndex) Remove(p Piece, sq Square) {
	m := pi.entries[p.ColorOf()][p.TypeOf()]
	if _, ok := m[sq]; !ok {
		panic(fmt.Sprintf("PieceIndex Remove: no %s indexed on %s", p.TypeOf().String(), sq.String()))
	}
	delete(m, sq)
	pi.count--
}

// Get returns the action info of the piece at the given square and
// whether such a piece is indexed at all.
func (pi *PieceIndex) Get(p Piece, sq Square) (ActionInfo, bool) {
	ai, ok := pi.entries[p.ColorOf()][p.TypeOf()][sq]
	return ai, ok
}

// Locations returns the squares currently occupied by pieces of the
// given type and color.
func (pi *PieceIndex) Locations(pt PieceType, c Color) []Square {
	m := pi.entries[c][pt]
	squares := make([]Square, 0, len(m))
	for sq := range m {
		squares = append(squares, sq)
	}
	return squares
}

// CountOf returns the number of pieces of the given type and color.
func (pi *PieceIndex) CountOf(pt PieceType, c Color) int {
	return len(pi.entries[c][pt])
}

// Count returns the total number of live pieces in the index.
func (pi *PieceIndex) Count() int {
	return pi.count
}

// KingSquare returns the square of the king of the given color.
// The index holds exactly one king per color at all times after a
// completed reset, anything else is a corrupt state.
func (pi *PieceIndex) KingSquare(c Color) Square {
	m := pi.entries[c][King]
	if len(m) != 1 {
		panic(fmt.Sprintf("PieceIndex KingSquare: %d kings of color %s", len(m), c.String()))
	}
	for sq := range m {
		return sq
	}
	return SqNone // unreachable
}

// Clear empties the index
func (pi *PieceIndex) Clear() {
	for c := White; c <= Black; c++ {
		for pt := King; pt <= Queen; pt++ {
			pi.entries[c][pt] = make(map[Square]ActionInfo, 8)
		}
	}
	pi.count = 0
}
