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
	"fmt"
	"strings"
)

// Move is a 16-bit unsigned int type for encoding chess moves
// as a primitive data type
//  BITMAP 16-bit
//  1 1 1 1 1 1 0 0 0 0 0 0 0 0 0 0
//  5 4 3 2 1 0 9 8 7 6 5 4 3 2 1 0
//  --------------------------------
//                      1 1 1 1 1 1  to
//          1 1 1 1 1 1              from
//    1 1 1                          promotion piece type (0 = none)
// Castling is encoded as the king's two square move, en passant as the
// capturing pawn's diagonal move to the empty target square.
type Move uint16

const (
	// MoveNone is an empty non valid move
	MoveNone Move = 0

	fromShift     = 6
	promTypeShift = 12
	toMask        = Move(0b111111)
	fromMask      = toMask << fromShift
	promTypeMask  = Move(0b111) << promTypeShift
)

// CreateMove returns an encoded Move instance.
// promType PtNone encodes a move without promotion.
func CreateMove(from Square, to Square, promType PieceType) Move {
	return Move(to) |
		Move(from)<<fromShift |
		Move(promType)<<promTypeShift
}

// To returns the to-Square of the move
func (m Move) To() Square {
	return Square(m & toMask)
}

// From returns the from-Square of the move
func (m Move) From() Square {
	return Square((m & fromMask) >> fromShift)
}

// PromotionType returns the piece type the move promotes to
// or PtNone when the move is not a promotion.
func (m Move) PromotionType() PieceType {
	return PieceType((m & promTypeMask) >> promTypeShift)
}

// IsValid checks if the move has valid squares, a valid promotion type
// and differing from and to squares. MoveNone is not a valid move.
func (m Move) IsValid() bool {
	if !m.From().IsValid() || !m.To().IsValid() || m.From() == m.To() {
		return false
	}
	switch m.PromotionType() {
	case PtNone, Queen, Rook, Bishop, Knight:
		return true
	default:
		return false
	}
}

// MoveFromUci parses a move in UCI long algebraic notation
// (e2e4, e7e8q). Returns MoveNone if the string is not well formed.
func MoveFromUci(s string) Move {
	if len(s) < 4 || len(s) > 5 {
		return MoveNone
	}
	from := MakeSquare(s[0:2])
	to := MakeSquare(s[2:4])
	if from == SqNone || to == SqNone || from == to {
		return MoveNone
	}
	promType := PtNone
	if len(s) == 5 {
		promType = PieceTypeFromChar(s[4])
		if promType == PtNone {
			return MoveNone
		}
	}
	return CreateMove(from, to, promType)
}

// StringUci returns the string representation of a move in UCI
// long algebraic notation
func (m Move) StringUci() string {
	if m == MoveNone {
		return "NoMove"
	}
	var os strings.Builder
	os.WriteString(m.From().String())
	os.WriteString(m.To().String())
	if pt := m.PromotionType(); pt != PtNone {
		os.WriteString(strings.ToLower(pt.Char()))
	}
	return os.String()
}

// String returns a detailed string representation of a move
func (m Move) String() string {
	if m == MoveNone {
		return "Move: { MoveNone }"
	}
	return fmt.Sprintf("Move: { %-5s prom:%s (%d) }", m.StringUci(), m.PromotionType().Char(), m)
}
