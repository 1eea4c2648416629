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
	"fmt"

	"github.com/mklemm/ChariotGo/internal/attack"
	. "github.com/mklemm/ChariotGo/internal/types"
)

// This file implements the local repair of the attack index. The two
// primitives are liftPiece and placePiece. Each fully repairs the
// index for the occupancy change of exactly one square:
//
//   - every piece whose sight passes through the square is found in
//     the attack table bucket of the square and has its action info
//     re-derived against the current occupancy
//   - pawn pushes are not part of any attacked set, therefore the
//     pawns directly and doubly behind the square are patched
//     separately
//   - en passant pseudo moves and castling moves depend on more state
//     than occupancy and are patched at make/unmake level
//     (refreshEnPassantPawns, refreshKings)
//
// Total work is proportional to the number of pieces attacking the
// touched squares, the board is never rescanned.

// computeActionInfo derives the action footprint of the piece standing
// on the square from the current board occupancy.
func (b *Board) computeActionInfo(p Piece, sq Square) attack.ActionInfo {
	var ai attack.ActionInfo
	c := p.ColorOf()

	switch pt := p.TypeOf(); pt {
	case Pawn:
		// both diagonals are attacked unconditionally, a diagonal is a
		// valid move only onto an enemy piece or the en passant target
		for _, to := range sq.PawnAttacks(c) {
			ai.Attacked.PushSquare(to)
			if tp := b.board[to]; tp != PieceNone {
				if tp.ColorOf() != c {
					ai.ValidMoves.PushSquare(to)
				}
			} else if to == b.enPassantSquare && b.epCaptureColor() == c {
				ai.ValidMoves.PushSquare(to)
			}
		}
		// pushes are valid moves but never attacks
		if one := sq.To(c.MoveDirection()); one != SqNone && b.board[one] == PieceNone {
			ai.ValidMoves.PushSquare(one)
			if sq.RankOf() == c.PawnStartRank() {
				if two := one.To(c.MoveDirection()); two != SqNone && b.board[two] == PieceNone {
					ai.ValidMoves.PushSquare(two)
				}
			}
		}

	case Knight:
		for _, to := range sq.KnightTargets() {
			ai.Attacked.PushSquare(to)
			if tp := b.board[to]; tp == PieceNone || tp.ColorOf() != c {
				ai.ValidMoves.PushSquare(to)
			}
		}

	case King:
		for _, to := range sq.KingTargets() {
			ai.Attacked.PushSquare(to)
			if tp := b.board[to]; tp == PieceNone || tp.ColorOf() != c {
				ai.ValidMoves.PushSquare(to)
			}
		}
		// castling: rights, empty path and no attack on any transit
		// square (start, middle, destination)
		if b.castlingRights.Has(KingSide(c)) && b.castlePathFree(c, true) {
			ai.ValidMoves.PushSquare(sq.To(East).To(East))
		}
		if b.castlingRights.Has(QueenSide(c)) && b.castlePathFree(c, false) {
			ai.ValidMoves.PushSquare(sq.To(West).To(West))
		}

	case Bishop, Rook, Queen:
		// a ray terminates at the first occupied square inclusive
		for _, d := range pt.SlideDirections() {
			for to := sq.To(d); to != SqNone; to = to.To(d) {
				ai.Attacked.PushSquare(to)
				tp := b.board[to]
				if tp == PieceNone {
					ai.ValidMoves.PushSquare(to)
					continue
				}
				if tp.ColorOf() != c {
					ai.ValidMoves.PushSquare(to)
				}
				break
			}
		}

	default:
		panic(fmt.Sprintf("Board computeActionInfo: invalid piece %d on %s", p, sq.String()))
	}
	return ai
}

// epCaptureColor returns the color which may capture onto the current
// en passant target square (derived from the target rank).
func (b *Board) epCaptureColor() Color {
	if b.enPassantSquare == SqNone {
		return Color(2) // never matches
	}
	if b.enPassantSquare.RankOf() == Rank3 {
		return Black
	}
	return White
}

// castlePathFree checks the non-rights part of castling legality:
// rook on its corner, empty squares between king and rook and no
// enemy attack on the king's transit squares.
func (b *Board) castlePathFree(c Color, kingSide bool) bool {
	them := c.Flip()
	rank := Rank1
	if c == Black {
		rank = Rank8
	}
	kingHome := SquareOf(FileE, rank)
	if b.board[kingHome] != MakePiece(c, King) {
		return false
	}
	if kingSide {
		rookHome := SquareOf(FileH, rank)
		if b.board[rookHome] != MakePiece(c, Rook) {
			return false
		}
		f1 := SquareOf(FileF, rank)
		g1 := SquareOf(FileG, rank)
		if b.board[f1] != PieceNone || b.board[g1] != PieceNone {
			return false
		}
		return !b.attacks.IsAttackedBy(them, kingHome) &&
			!b.attacks.IsAttackedBy(them, f1) &&
			!b.attacks.IsAttackedBy(them, g1)
	}
	rookHome := SquareOf(FileA, rank)
	if b.board[rookHome] != MakePiece(c, Rook) {
		return false
	}
	b1 := SquareOf(FileB, rank)
	c1 := SquareOf(FileC, rank)
	d1 := SquareOf(FileD, rank)
	if b.board[b1] != PieceNone || b.board[c1] != PieceNone || b.board[d1] != PieceNone {
		return false
	}
	return !b.attacks.IsAttackedBy(them, kingHome) &&
		!b.attacks.IsAttackedBy(them, d1) &&
		!b.attacks.IsAttackedBy(them, c1)
}

// addToIndex computes the action info of the piece and inserts it into
// the piece index and the attack table.
func (b *Board) addToIndex(p Piece, sq Square) {
	ai := b.computeActionInfo(p, sq)
	b.pieces.Add(p, sq, ai)
	c := p.ColorOf()
	pt := p.TypeOf()
	for bb := ai.Attacked; bb != 0; {
		b.attacks.AddAttacker(bb.PopLsb(), c, pt, sq)
	}
}

// removeFromIndex removes the piece and all its attack table entries.
func (b *Board) removeFromIndex(p Piece, sq Square) {
	ai, ok := b.pieces.Get(p, sq)
	if !ok {
		b.corrupt(fmt.Sprintf("removeFromIndex: %s not indexed on %s", p.String(), sq.String()))
	}
	c := p.ColorOf()
	pt := p.TypeOf()
	for bb := ai.Attacked; bb != 0; {
		b.attacks.RemoveAttacker(bb.PopLsb(), c, pt, sq)
	}
	b.pieces.Remove(p, sq)
}

// refreshPiece re-derives the action info of the piece standing on the
// square and folds the difference of the attacked sets into the attack
// table.
func (b *Board) refreshPiece(sq Square) {
	p := b.board[sq]
	if p == PieceNone {
		b.corrupt(fmt.Sprintf("refreshPiece: no piece on %s", sq.String()))
	}
	old, ok := b.pieces.Get(p, sq)
	if !ok {
		b.corrupt(fmt.Sprintf("refreshPiece: %s not indexed on %s", p.String(), sq.String()))
	}
	ai := b.computeActionInfo(p, sq)
	c := p.ColorOf()
	pt := p.TypeOf()
	for bb := old.Attacked &^ ai.Attacked; bb != 0; {
		b.attacks.RemoveAttacker(bb.PopLsb(), c, pt, sq)
	}
	for bb := ai.Attacked &^ old.Attacked; bb != 0; {
		b.attacks.AddAttacker(bb.PopLsb(), c, pt, sq)
	}
	b.pieces.Update(p, sq, ai)
}

// repairAround re-derives the action info of every piece currently
// attacking the square whose occupancy just changed. Sliders regain or
// lose sight past the square, leapers and pawns only flip the validity
// of moving onto it.
func (b *Board) repairAround(sq Square) {
	for c := White; c <= Black; c++ {
		for pt := King; pt <= Queen; pt++ {
			// snapshot - refreshing an attacker never removes it from
			// this bucket as rays terminate at blockers inclusive
			for bb := b.attacks.Attackers(sq, c, pt); bb != 0; {
				b.refreshPiece(bb.PopLsb())
			}
		}
	}
}

// pawnPushPatch repairs the push moves of pawns behind the square.
// Pawn pushes are not part of any attacked set so they cannot be found
// through the attack table.
func (b *Board) pawnPushPatch(sq Square) {
	for c := White; c <= Black; c++ {
		back := Direction(-int8(c.MoveDirection()))
		one := sq.To(back)
		if one == SqNone {
			continue
		}
		if b.board[one] == MakePiece(c, Pawn) {
			b.refreshPiece(one)
		}
		two := one.To(back)
		if two != SqNone && two.RankOf() == c.PawnStartRank() && b.board[two] == MakePiece(c, Pawn) {
			b.refreshPiece(two)
		}
	}
}

// placePiece puts a piece on an empty square and repairs the index
// locally: pieces seeing the square lose sight past it, the new piece
// is inserted with a freshly derived footprint.
func (b *Board) placePiece(p Piece, sq Square) {
	if b.board[sq] != PieceNone {
		b.corrupt(fmt.Sprintf("placePiece: %s occupied", sq.String()))
	}
	b.board[sq] = p
	b.zobristKey ^= b.zobrist.pieces[p][sq]
	b.repairAround(sq)
	b.addToIndex(p, sq)
	b.pawnPushPatch(sq)
}

// liftPiece removes the piece from the square and repairs the index
// locally: pieces seeing the square regain sight past it.
func (b *Board) liftPiece(sq Square) Piece {
	p := b.board[sq]
	if p == PieceNone {
		b.corrupt(fmt.Sprintf("liftPiece: %s empty", sq.String()))
	}
	b.removeFromIndex(p, sq)
	b.board[sq] = PieceNone
	b.zobristKey ^= b.zobrist.pieces[p][sq]
	b.repairAround(sq)
	b.pawnPushPatch(sq)
	return p
}

// refreshEnPassantPawns re-derives the pawns attacking an en passant
// target square that was created or expired.
func (b *Board) refreshEnPassantPawns(epSq Square) {
	if epSq == SqNone {
		return
	}
	for c := White; c <= Black; c++ {
		for bb := b.attacks.Attackers(epSq, c, Pawn); bb != 0; {
			b.refreshPiece(bb.PopLsb())
		}
	}
}

// refreshKings re-derives both kings. Castling legality depends on
// rights and on enemy attacks on the transit squares, both of which
// may change with any move.
func (b *Board) refreshKings() {
	b.refreshPiece(b.pieces.KingSquare(White))
	b.refreshPiece(b.pieces.KingSquare(Black))
}

// corrupt aborts with a diagnostic dump of the board and the attack
// table. Reaching this means invariant I1 or I2 has been violated.
func (b *Board) corrupt(msg string) {
	panic(fmt.Sprintf("Board corrupt state: %s\n%s\nAttack table:\n%s", msg, b.String(), b.attacks.String()))
}
