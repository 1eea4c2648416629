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

// Package attack provides the two leaf data structures of the board's
// incrementally maintained attack index: the PieceIndex which maps each
// piece on the board to its current action footprint and the inverted
// attack Table which maps each square to the pieces attacking it.
package attack

import (
	"fmt"

	. "github.com/mklemm/ChariotGo/internal/types"
)

// ActionInfo holds the action footprint of a single piece standing on
// a single square with respect to the current occupancy of the board.
//
// ValidMoves are the squares the piece may occupy next ply, already
// filtered for friendly occupation, sliding blockage, pawn push
// blockage, pawn capture targets and castling legality. It is not yet
// filtered for exposure of the own king - that filter is applied at
// move enumeration time.
//
// Attacked are the squares the piece currently influences. For sliders
// a ray terminates at the first occupied square inclusive, so a blocker
// is listed regardless of its color. For pawns both diagonal squares
// are attacked unconditionally while pawn pushes are never part of the
// attacked set. For knights and kings this is the geometric reach.
type ActionInfo struct {
	ValidMoves Bitboard
	Attacked   Bitboard
}

func (ai ActionInfo) String() string {
	return fmt.Sprintf("valid: [%s] attacked: [%s]", ai.ValidMoves.String(), ai.Attacked.String())
}
