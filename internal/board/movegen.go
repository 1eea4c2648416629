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
	"github.com/mklemm/ChariotGo/internal/moveslice"
	. "github.com/mklemm/ChariotGo/internal/types"
)

var promotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

// enumerateLegal produces the legal moves of the given color from the
// piece index. The per piece valid move sets are already filtered for
// occupancy, blockage and castling legality; this adds the king safety
// filters: check evasion, pins and moving the king onto attacked or
// x-rayed squares.
func (b *Board) enumerateLegal(c Color) *moveslice.MoveSlice {
	moves := moveslice.NewMoveSlice(48)
	them := c.Flip()

	// giving check to the enemy king is an illegal pre-state, used by
	// terminal detection
	if b.attacks.IsAttackedBy(c, b.pieces.KingSquare(them)) {
		return moves
	}

	kingSq := b.pieces.KingSquare(c)
	checkers := b.attacks.AllAttackers(kingSq, them)
	numCheckers := checkers.PopCount()

	// with a single check only moves onto the check set (the attacker
	// square plus the squares between it and the king) can resolve it,
	// with a double check only the king may move
	checkSet := BbNone
	checkerSq := SqNone
	if numCheckers == 1 {
		checkerSq = checkers.Lsb()
		checkSet = Intermediate(kingSq, checkerSq)
		checkSet.PushSquare(checkerSq)
	}

	if numCheckers < 2 {
		for pt := Pawn; pt <= Queen; pt++ {
			for _, from := range b.pieces.Locations(pt, c) {
				ai, _ := b.pieces.Get(MakePiece(c, pt), from)
				allowed := b.pinRestriction(from, kingSq, c)
				for bb := ai.ValidMoves; bb != 0; {
					to := bb.PopLsb()
					if numCheckers == 1 && !checkSet.Has(to) {
						// an en passant capture may still remove the
						// checking pawn itself
						if !(pt == Pawn && to == b.enPassantSquare &&
							SquareOf(to.FileOf(), from.RankOf()) == checkerSq) {
							continue
						}
					}
					if !allowed.Has(to) {
						continue
					}
					if pt == Pawn && to == b.enPassantSquare && from.FileOf() != to.FileOf() &&
						b.epExposesKing(from, to, c) {
						continue
					}
					if pt == Pawn && to.RankOf() == c.PromotionRank() {
						for _, promPt := range promotionTypes {
							moves.PushBack(CreateMove(from, to, promPt))
						}
					} else {
						moves.PushBack(CreateMove(from, to, PtNone))
					}
				}
			}
		}
	}

	// king moves: reject attacked destinations and squares a checking
	// slider would still see through the vacated king square
	kingAi, _ := b.pieces.Get(MakePiece(c, King), kingSq)
	sliders := b.attacks.SliderAttackers(kingSq, them)
	for bb := kingAi.ValidMoves; bb != 0; {
		to := bb.PopLsb()
		if b.attacks.IsAttackedBy(them, to) {
			continue
		}
		if numCheckers > 0 && fileDistance(kingSq, to) == 2 {
			continue // no castling out of check (transit includes start)
		}
		xray := false
		for sbb := sliders; sbb != 0; {
			o := sbb.PopLsb()
			if d := DirectionOf(o, kingSq); d != 0 && kingSq.To(d) == to {
				xray = true
				break
			}
		}
		if xray {
			continue
		}
		moves.PushBack(CreateMove(kingSq, to, PtNone))
	}
	return moves
}

// pinRestriction returns the squares the piece on from may move to
// without exposing its own king, BbAll when the piece is not pinned.
// A piece is pinned when it shares a line with its king with nothing
// in between and an enemy slider of matching ray type lies further out
// on the same line. The candidate sliders are exactly the ones already
// attacking the piece, so only the attack table bucket of the piece's
// square is inspected.
func (b *Board) pinRestriction(from Square, kingSq Square, c Color) Bitboard {
	allowed := BbAll
	d := DirectionOf(kingSq, from)
	if d == 0 {
		return allowed
	}
	them := c.Flip()
	for bb := b.attacks.SliderAttackers(from, them); bb != 0; {
		o := bb.PopLsb()
		if DirectionOf(from, o) != d {
			continue
		}
		if !rayTypeMatches(d, b.board[o].TypeOf()) {
			continue
		}
		if b.anyPieceBetween(kingSq, from) {
			continue
		}
		// pinned - movement restricted to the king-slider line
		ray := Intermediate(kingSq, o)
		ray.PushSquare(o)
		allowed &= ray
	}
	return allowed
}

// rayTypeMatches reports whether a slider of the given type attacks
// along the given direction.
func rayTypeMatches(d Direction, pt PieceType) bool {
	switch d {
	case North, East, South, West:
		return pt == Rook || pt == Queen
	default:
		return pt == Bishop || pt == Queen
	}
}

// anyPieceBetween reports whether any piece stands strictly between
// the two squares.
func (b *Board) anyPieceBetween(a Square, c Square) bool {
	for bb := Intermediate(a, c); bb != 0; {
		if b.board[bb.PopLsb()] != PieceNone {
			return true
		}
	}
	return false
}

// epExposesKing detects the discovered checks unique to en passant:
// capturing pawn and victim leave their squares in one move, so a
// slider behind either of them may suddenly see the king. The rays
// from the king are rescanned with both squares treated as empty and
// the capture target as the new blocker.
func (b *Board) epExposesKing(from Square, to Square, c Color) bool {
	kingSq := b.pieces.KingSquare(c)
	victimSq := SquareOf(to.FileOf(), from.RankOf())
	for _, d := range Directions {
		for sq := kingSq.To(d); sq != SqNone; sq = sq.To(d) {
			if sq == from || sq == victimSq {
				continue
			}
			if sq == to {
				break // the capturing pawn blocks this ray now
			}
			pc := b.board[sq]
			if pc == PieceNone {
				continue
			}
			if pc.ColorOf() != c && rayTypeMatches(d, pc.TypeOf()) && pc.TypeOf().IsSliding() {
				return true
			}
			break
		}
	}
	return false
}

// GivesCheck reports whether the given pseudo legal move of the side
// to move would give check to the enemy king: after the move some
// line or jump from the target square lands on the enemy king with no
// blocker in between. Discovered checks are not considered.
func (b *Board) GivesCheck(m Move) bool {
	us := b.nextPlayer
	from := m.From()
	to := m.To()
	fromPc := b.board[from]
	if fromPc == PieceNone {
		return false
	}
	pt := fromPc.TypeOf()
	if promPt := m.PromotionType(); promPt != PtNone {
		pt = promPt
	}
	kingSq := b.pieces.KingSquare(us.Flip())

	switch pt {
	case Knight:
		for _, sq := range to.KnightTargets() {
			if sq == kingSq {
				return true
			}
		}
		return false
	case Pawn:
		for _, sq := range to.PawnAttacks(us) {
			if sq == kingSq {
				return true
			}
		}
		return false
	case King:
		return false
	default:
		d := DirectionOf(to, kingSq)
		if d == 0 || !rayTypeMatches(d, pt) {
			return false
		}
		epVictim := SqNone
		if fromPc.TypeOf() == Pawn && b.enPassantSquare != SqNone && to == b.enPassantSquare &&
			from.FileOf() != to.FileOf() {
			epVictim = SquareOf(to.FileOf(), from.RankOf())
		}
		for sq := to.To(d); sq != SqNone; sq = sq.To(d) {
			if sq == kingSq {
				return true
			}
			if sq == from || sq == epVictim {
				continue
			}
			if b.board[sq] != PieceNone {
				return false
			}
		}
		return false
	}
}
