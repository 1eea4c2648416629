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

	. "github.com/mklemm/ChariotGo/internal/types"
)

// miniBoard is an intentionally slow reference implementation of the
// chess rules, independent of the attack index. It regenerates
// everything from scratch and filters pseudo legal moves by applying
// them and testing "own king not attacked afterwards". Used to verify
// the incremental generator.
type miniBoard struct {
	sq       [SqLength]Piece
	stm      Color
	ep       Square
	castling CastlingRights
}

func miniFromBoard(b *Board) miniBoard {
	mb := miniBoard{
		stm:      b.NextPlayer(),
		ep:       b.EnPassantSquare(),
		castling: b.CastlingRights(),
	}
	for sq := SqA1; sq < SqNone; sq++ {
		mb.sq[sq] = b.GetPiece(sq)
	}
	return mb
}

func (mb *miniBoard) kingSquare(c Color) Square {
	for sq := SqA1; sq < SqNone; sq++ {
		if mb.sq[sq] == MakePiece(c, King) {
			return sq
		}
	}
	return SqNone
}

// attacked reports whether the given color attacks the square,
// derived from scratch.
func (mb *miniBoard) attacked(target Square, by Color) bool {
	for sq := SqA1; sq < SqNone; sq++ {
		pc := mb.sq[sq]
		if pc == PieceNone || pc.ColorOf() != by {
			continue
		}
		switch pc.TypeOf() {
		case Pawn:
			for _, to := range sq.PawnAttacks(by) {
				if to == target {
					return true
				}
			}
		case Knight:
			for _, to := range sq.KnightTargets() {
				if to == target {
					return true
				}
			}
		case King:
			for _, to := range sq.KingTargets() {
				if to == target {
					return true
				}
			}
		default:
			for _, d := range pc.TypeOf().SlideDirections() {
				for to := sq.To(d); to != SqNone; to = to.To(d) {
					if to == target {
						return true
					}
					if mb.sq[to] != PieceNone {
						break
					}
				}
			}
		}
	}
	return false
}

func (mb *miniBoard) pseudoMoves() []Move {
	var moves []Move
	us := mb.stm
	emit := func(from, to Square) {
		if mb.sq[from].TypeOf() == Pawn && to.RankOf() == us.PromotionRank() {
			for _, pt := range []PieceType{Queen, Rook, Bishop, Knight} {
				moves = append(moves, CreateMove(from, to, pt))
			}
			return
		}
		moves = append(moves, CreateMove(from, to, PtNone))
	}
	for from := SqA1; from < SqNone; from++ {
		pc := mb.sq[from]
		if pc == PieceNone || pc.ColorOf() != us {
			continue
		}
		switch pc.TypeOf() {
		case Pawn:
			if one := from.To(us.MoveDirection()); one != SqNone && mb.sq[one] == PieceNone {
				emit(from, one)
				if from.RankOf() == us.PawnStartRank() {
					if two := one.To(us.MoveDirection()); two != SqNone && mb.sq[two] == PieceNone {
						emit(from, two)
					}
				}
			}
			for _, to := range from.PawnAttacks(us) {
				if tp := mb.sq[to]; tp != PieceNone && tp.ColorOf() != us {
					emit(from, to)
				} else if to == mb.ep && mb.ep != SqNone {
					emit(from, to)
				}
			}
		case Knight:
			for _, to := range from.KnightTargets() {
				if tp := mb.sq[to]; tp == PieceNone || tp.ColorOf() != us {
					emit(from, to)
				}
			}
		case King:
			for _, to := range from.KingTargets() {
				if tp := mb.sq[to]; tp == PieceNone || tp.ColorOf() != us {
					emit(from, to)
				}
			}
			mb.pseudoCastling(from, &moves)
		default:
			for _, d := range pc.TypeOf().SlideDirections() {
				for to := from.To(d); to != SqNone; to = to.To(d) {
					tp := mb.sq[to]
					if tp == PieceNone {
						emit(from, to)
						continue
					}
					if tp.ColorOf() != us {
						emit(from, to)
					}
					break
				}
			}
		}
	}
	return moves
}

func (mb *miniBoard) pseudoCastling(from Square, moves *[]Move) {
	us := mb.stm
	them := us.Flip()
	rank := Rank1
	if us == Black {
		rank = Rank8
	}
	if from != SquareOf(FileE, rank) {
		return
	}
	if mb.castling.Has(KingSide(us)) &&
		mb.sq[SquareOf(FileH, rank)] == MakePiece(us, Rook) &&
		mb.sq[SquareOf(FileF, rank)] == PieceNone &&
		mb.sq[SquareOf(FileG, rank)] == PieceNone &&
		!mb.attacked(from, them) &&
		!mb.attacked(SquareOf(FileF, rank), them) &&
		!mb.attacked(SquareOf(FileG, rank), them) {
		*moves = append(*moves, CreateMove(from, SquareOf(FileG, rank), PtNone))
	}
	if mb.castling.Has(QueenSide(us)) &&
		mb.sq[SquareOf(FileA, rank)] == MakePiece(us, Rook) &&
		mb.sq[SquareOf(FileB, rank)] == PieceNone &&
		mb.sq[SquareOf(FileC, rank)] == PieceNone &&
		mb.sq[SquareOf(FileD, rank)] == PieceNone &&
		!mb.attacked(from, them) &&
		!mb.attacked(SquareOf(FileD, rank), them) &&
		!mb.attacked(SquareOf(FileC, rank), them) {
		*moves = append(*moves, CreateMove(from, SquareOf(FileC, rank), PtNone))
	}
}

// apply returns a copy of the miniBoard with the move made, without
// any legality check.
func (mb miniBoard) apply(m Move) miniBoard {
	us := mb.stm
	from := m.From()
	to := m.To()
	pc := mb.sq[from]

	if pc.TypeOf() == Pawn && to == mb.ep && mb.ep != SqNone && from.FileOf() != to.FileOf() {
		mb.sq[SquareOf(to.FileOf(), from.RankOf())] = PieceNone
	}
	mb.sq[from] = PieceNone
	if promPt := m.PromotionType(); promPt != PtNone {
		mb.sq[to] = MakePiece(us, promPt)
	} else {
		mb.sq[to] = pc
	}
	if pc.TypeOf() == King {
		if d := int(from.FileOf()) - int(to.FileOf()); d == 2 || d == -2 {
			rookFrom, rookTo := rookCastleSquares(to)
			mb.sq[rookTo] = mb.sq[rookFrom]
			mb.sq[rookFrom] = PieceNone
		}
		mb.castling.Remove(KingSide(us) | QueenSide(us))
	}
	for _, cl := range [2]struct {
		sq    Square
		right CastlingRights
	}{{SqA1, CastlingWhiteOOO}, {SqH1, CastlingWhiteOO}} {
		if from == cl.sq || to == cl.sq {
			mb.castling.Remove(cl.right)
		}
	}
	for _, cl := range [2]struct {
		sq    Square
		right CastlingRights
	}{{SqA8, CastlingBlackOOO}, {SqH8, CastlingBlackOO}} {
		if from == cl.sq || to == cl.sq {
			mb.castling.Remove(cl.right)
		}
	}
	mb.ep = SqNone
	if pc.TypeOf() == Pawn {
		fromRank := int(from.RankOf())
		toRank := int(to.RankOf())
		if fromRank-toRank == 2 || toRank-fromRank == 2 {
			mb.ep = SquareOf(from.FileOf(), Rank((fromRank+toRank)/2))
		}
	}
	mb.stm = us.Flip()
	return mb
}

// legalMoves filters the pseudo legal moves with make-test: the own
// king must not be attacked after the move.
func (mb *miniBoard) legalMoves() map[Move]bool {
	legal := make(map[Move]bool)
	for _, m := range mb.pseudoMoves() {
		next := mb.apply(m)
		if !next.attacked(next.kingSquare(mb.stm), next.stm) {
			legal[m] = true
		}
	}
	return legal
}

// compareWithBruteForce walks the legal move tree of the real board
// and compares the generated move set with the reference generator at
// every node.
func compareWithBruteForce(t *testing.T, b *Board, depth int) {
	t.Helper()
	mb := miniFromBoard(b)
	want := mb.legalMoves()
	got := b.LegalMoves(b.NextPlayer()).Clone()

	require.Equal(t, len(want), got.Len(),
		"move count differs on %s\nbrute force: %v\ngenerator: %s", b.StringFen(), want, got.StringUci())
	for _, m := range *got {
		assert.True(t, want[m], "generator move %s not found by brute force on %s", m.StringUci(), b.StringFen())
	}
	if depth <= 1 {
		return
	}
	for _, m := range *got {
		require.NoError(t, b.MakeMove(m))
		compareWithBruteForce(t, b, depth-1)
		b.UndoMove()
	}
}

func TestLegalMovesVsBruteForceStart(t *testing.T) {
	b := New()
	compareWithBruteForce(t, b, 3)
}

func TestLegalMovesVsBruteForcePositions(t *testing.T) {
	fens := []string{
		// kiwipete - castling, pins, en passant themes
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		// endgame with pins and pawn races
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		// promotion and underpromotion themes
		"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
		// in check positions
		"r3k2r/8/8/8/8/8/4q3/R3K2R w KQkq - 0 1",
		// en passant with discovered check potential
		"8/8/8/8/k2Pp2Q/8/8/4K3 b - d3 0 1",
		"8/8/3p4/1Pp4r/1K3p1k/8/4P1P1/1R6 w - c6 0 1",
		"7k/1b6/8/3pP3/8/5K2/8/8 w - d6 0 1",
	}
	depths := []int{2, 3, 2, 2, 2, 2, 2}
	for i, fen := range fens {
		b, err := NewFen(fen)
		require.NoError(t, err, "fen %s must parse", fen)
		compareWithBruteForce(t, b, depths[i])
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// knight on f6 and rook on e1 give double check, only king moves
	// resolve it
	b, err := NewFen("4k3/3q4/5N2/8/8/8/8/K3R3 b - - 0 1")
	require.NoError(t, err)
	assert.True(t, b.HasCheck(Black))
	for _, m := range *b.LegalMoves(Black) {
		assert.Equal(t, SqE8, m.From(), "double check allows only king moves, got %s", m.StringUci())
	}
}

func TestPinnedPieceMovesAlongRay(t *testing.T) {
	// the rook on e4 is pinned by the rook on e8 against the king on
	// e1: it may move along the e-file but never leave it
	b, err := NewFen("4rk2/8/8/8/4R3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	legal := b.LegalMoves(White)
	assert.True(t, legal.Contains(MoveFromUci("e4e5")))
	assert.True(t, legal.Contains(MoveFromUci("e4e8")))
	assert.True(t, legal.Contains(MoveFromUci("e4e2")))
	assert.False(t, legal.Contains(MoveFromUci("e4d4")))
	assert.False(t, legal.Contains(MoveFromUci("e4a4")))
}

func TestEnPassantDiscoveredCheckIsIllegal(t *testing.T) {
	// the bishop on b7 sees the king on f3 once both the victim on d5
	// and the capturing pawn on e5 leave the diagonal's neighborhood
	b, err := NewFen("7k/1b6/8/3pP3/8/5K2/8/8 w - d6 0 1")
	require.NoError(t, err)
	assert.False(t, b.LegalMoves(White).Contains(MoveFromUci("e5d6")))
	// the plain push does not open the diagonal
	assert.True(t, b.LegalMoves(White).Contains(MoveFromUci("e5e6")))
}

func TestKingCannotStepAlongCheckRay(t *testing.T) {
	// the rook checks along the rank, the king may not step away on
	// the same ray (x-ray through the vacated square)
	b, err := NewFen("4k3/8/8/8/8/8/8/r3K3 w - - 0 1")
	require.NoError(t, err)
	legal := b.LegalMoves(White)
	assert.False(t, legal.Contains(MoveFromUci("e1f1")))
	assert.True(t, legal.Contains(MoveFromUci("e1e2")))
	assert.True(t, legal.Contains(MoveFromUci("e1f2")))
}
