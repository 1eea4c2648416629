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

// Package board implements the chess board with its incrementally
// maintained attack index. The board holds an 8x8 piece array, the
// PieceIndex and attack Table of package attack, castling, en passant
// and clock state, an incrementally updated zobrist key, the previous
// move stack for undo and the position repetition table.
//
// The board does not regenerate piece actions from scratch after each
// ply. Instead every make and unmake repairs the action footprints of
// exactly the pieces whose sight passes through the squares a move
// touches (see repair.go).
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mklemm/ChariotGo/internal/attack"
	"github.com/mklemm/ChariotGo/internal/moveslice"
	. "github.com/mklemm/ChariotGo/internal/types"
)

// StartFen is the FEN of the chess start position
const StartFen string = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Errors of the board package
var (
	// ErrInvalidFen is returned when a FEN string violates the
	// structural rules of FEN import
	ErrInvalidFen = errors.New("invalid fen")
	// ErrIllegalMove is returned by MakeMove when the given move is
	// not part of the current legal move list. This is a programmer
	// facing error, board state is unchanged.
	ErrIllegalMove = errors.New("illegal move")
)

// Default limits for draw detection. Both can be disabled (0) or
// changed per board instance.
const (
	DefaultRepetitionLimit = 3
	DefaultHalfMoveLimit   = 100
)

// drawSentinel latches a draw condition on the zobrist key at which
// it fired
type drawSentinel struct {
	latched bool
	key     Key
}

// moveRecord holds everything needed to unmake a move
type moveRecord struct {
	move            Move
	fromPiece       Piece
	capturedPiece   Piece
	captureSquare   Square
	wasEnPassant    bool
	castlingRights  CastlingRights
	enPassantSquare Square
	halfMoveClock   int
	zobristKey      Key
	legalMoves      *moveslice.MoveSlice
	repDraw         drawSentinel
	halfMoveDraw    drawSentinel
}

// Board represents a chess position with its attack index.
// Create instances with New or NewFen. All mutation flows through
// MakeMove and UndoMove.
type Board struct {
	board           [SqLength]Piece
	nextPlayer      Color
	castlingRights  CastlingRights
	enPassantSquare Square
	halfMoveClock   int
	// half move number - the actual half move number to determine
	// the full move number
	nextHalfMoveNumber int

	pieces  *attack.PieceIndex
	attacks *attack.Table

	zobrist    *zobristSet
	zobristKey Key

	history    []moveRecord
	repetition map[Key]int

	repetitionLimit int
	halfMoveLimit   int
	repDraw         drawSentinel
	halfMoveDraw    drawSentinel

	// cached legal move lists per color, nil when invalid
	legalMoves [ColorLength]*moveslice.MoveSlice
}

// New creates a new board with the start position
func New() *Board {
	b, err := NewFen(StartFen)
	if err != nil {
		panic(fmt.Sprintf("Board New: start fen must be valid: %s", err))
	}
	return b
}

// NewFen creates a new board from the given FEN string. Returns an
// error wrapping ErrInvalidFen for any structural violation.
func NewFen(fen string) (*Board, error) {
	b := &Board{
		pieces:          attack.NewPieceIndex(),
		attacks:         attack.NewTable(),
		zobrist:         newZobristSet(),
		repetition:      make(map[Key]int, 64),
		repetitionLimit: DefaultRepetitionLimit,
		halfMoveLimit:   DefaultHalfMoveLimit,
	}
	if err := b.setupBoard(fen); err != nil {
		return nil, err
	}
	return b, nil
}

// Reset reconstructs the board from the given FEN, regenerates the
// piece index and attack table from scratch in one pass, computes the
// initial zobrist key, clears the repetition table and resets caches.
// The prior state is not modified when the FEN is invalid.
func (b *Board) Reset(fen string) error {
	fresh, err := NewFen(fen)
	if err != nil {
		return err
	}
	fresh.zobrist = b.zobrist
	fresh.zobristKey = fresh.computeZobristKey()
	fresh.repetition = map[Key]int{fresh.zobristKey: 1}
	fresh.repetitionLimit = b.repetitionLimit
	fresh.halfMoveLimit = b.halfMoveLimit
	*b = *fresh
	return nil
}

// SetDrawLimits configures the repetition and half move draw limits.
// A limit of 0 disables the corresponding detection.
func (b *Board) SetDrawLimits(repetitionLimit int, halfMoveLimit int) {
	b.repetitionLimit = repetitionLimit
	b.halfMoveLimit = halfMoveLimit
}

// MakeMove commits a move to the board. The move must be part of the
// current legal move list for the side to move, otherwise an error
// wrapping ErrIllegalMove is returned and the board stays unchanged.
func (b *Board) MakeMove(m Move) error {
	if !b.LegalMoves(b.nextPlayer).Contains(m) {
		return fmt.Errorf("%w: %s on %s", ErrIllegalMove, m.StringUci(), b.StringFen())
	}
	us := b.nextPlayer
	from := m.From()
	to := m.To()
	fromPc := b.board[from]

	rec := moveRecord{
		move:            m,
		fromPiece:       fromPc,
		castlingRights:  b.castlingRights,
		enPassantSquare: b.enPassantSquare,
		halfMoveClock:   b.halfMoveClock,
		zobristKey:      b.zobristKey,
		legalMoves:      b.legalMoves[us],
		repDraw:         b.repDraw,
		halfMoveDraw:    b.halfMoveDraw,
	}

	// determine capture including en passant
	oldEp := b.enPassantSquare
	capturedPc := b.board[to]
	capSq := to
	if fromPc.TypeOf() == Pawn && oldEp != SqNone && to == oldEp && from.FileOf() != to.FileOf() && capturedPc == PieceNone {
		rec.wasEnPassant = true
		capSq = SquareOf(to.FileOf(), from.RankOf())
		capturedPc = b.board[capSq]
	}
	rec.capturedPiece = capturedPc
	rec.captureSquare = capSq

	// expire the previous en passant target
	if oldEp != SqNone {
		b.zobristKey ^= b.zobrist.enPassantFile[oldEp.FileOf()]
		b.enPassantSquare = SqNone
	}

	// board array and attack index repair
	b.liftPiece(from)
	if capturedPc != PieceNone {
		b.liftPiece(capSq)
	}
	placed := fromPc
	if promPt := m.PromotionType(); promPt != PtNone {
		placed = MakePiece(us, promPt)
	}
	b.placePiece(placed, to)

	// castling is the king moving two files from its original square,
	// the rook transfer is part of the same move
	if fromPc.TypeOf() == King && fileDistance(from, to) == 2 {
		rookFrom, rookTo := rookCastleSquares(to)
		rook := b.liftPiece(rookFrom)
		b.placePiece(rook, rookTo)
	}

	// castling rights
	b.updateCastlingRights(from, to, capSq)

	// a two square pawn advance creates a new en passant target on
	// the crossed square
	if fromPc.TypeOf() == Pawn && rankDistance(from, to) == 2 {
		b.enPassantSquare = SquareOf(from.FileOf(), (from.RankOf()+to.RankOf())/2)
		b.zobristKey ^= b.zobrist.enPassantFile[b.enPassantSquare.FileOf()]
	}

	// pawns which saw the expired target or see the fresh one need
	// their pseudo move adjusted
	b.refreshEnPassantPawns(oldEp)
	b.refreshEnPassantPawns(b.enPassantSquare)

	// clocks
	if fromPc.TypeOf() == Pawn || capturedPc != PieceNone {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}
	b.nextHalfMoveNumber++
	b.nextPlayer = us.Flip()
	b.zobristKey ^= b.zobrist.nextPlayer

	// castling legality of both kings depends on the new attack state
	b.refreshKings()

	b.legalMoves[White] = nil
	b.legalMoves[Black] = nil
	b.history = append(b.history, rec)

	// repetition table and draw sentinels
	b.repetition[b.zobristKey]++
	if b.repetitionLimit > 0 && !b.repDraw.latched && b.repetition[b.zobristKey] >= b.repetitionLimit {
		b.repDraw = drawSentinel{latched: true, key: b.zobristKey}
	}
	if b.halfMoveLimit > 0 && !b.halfMoveDraw.latched && b.halfMoveClock >= b.halfMoveLimit {
		b.halfMoveDraw = drawSentinel{latched: true, key: b.zobristKey}
	}
	return nil
}

// UndoMove restores the state before the last move including the
// cached legal move list of the side that made the move. Undoing on
// an empty history is a programming error.
func (b *Board) UndoMove() {
	if len(b.history) == 0 {
		panic("Board UndoMove: no move to undo")
	}
	rec := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]

	// the outgoing position leaves the repetition table
	b.repetition[b.zobristKey]--
	if b.repetition[b.zobristKey] <= 0 {
		delete(b.repetition, b.zobristKey)
	}

	us := b.nextPlayer.Flip() // the side that made the move
	b.nextPlayer = us
	b.nextHalfMoveNumber--
	b.halfMoveClock = rec.halfMoveClock
	b.castlingRights = rec.castlingRights
	expiredEp := b.enPassantSquare
	b.enPassantSquare = rec.enPassantSquare

	m := rec.move
	from := m.From()
	to := m.To()

	// the restored victim goes back on its square first, then the
	// mover returns to its origin (a promotion reverts to the pawn)
	b.liftPiece(to)
	if rec.capturedPiece != PieceNone {
		b.placePiece(rec.capturedPiece, rec.captureSquare)
	}
	b.placePiece(rec.fromPiece, from)
	if rec.fromPiece.TypeOf() == King && fileDistance(from, to) == 2 {
		rookFrom, rookTo := rookCastleSquares(to)
		rook := b.liftPiece(rookTo)
		b.placePiece(rook, rookFrom)
	}

	b.refreshEnPassantPawns(expiredEp)
	b.refreshEnPassantPawns(b.enPassantSquare)
	b.refreshKings()

	// the zobrist key is restored from the record, the incremental
	// piece XORs of the repair above cancel against it
	b.zobristKey = rec.zobristKey

	b.legalMoves[us] = rec.legalMoves
	b.legalMoves[us.Flip()] = nil
	b.repDraw = rec.repDraw
	b.halfMoveDraw = rec.halfMoveDraw
}

// LegalMoves returns the legal moves of the given color. The result
// is cached until the next mutation and must not be modified by the
// caller.
func (b *Board) LegalMoves(c Color) *moveslice.MoveSlice {
	if b.legalMoves[c] == nil {
		b.legalMoves[c] = b.enumerateLegal(c)
	}
	return b.legalMoves[c]
}

// GameOver reports whether the side to move has no legal moves
// (checkmate or stalemate).
func (b *Board) GameOver() bool {
	return b.LegalMoves(b.nextPlayer).Len() == 0
}

// IsCheckMate reports whether the side to move is checkmated
func (b *Board) IsCheckMate() bool {
	return b.GameOver() && b.HasCheck(b.nextPlayer)
}

// IsStaleMate reports whether the side to move is stalemated
func (b *Board) IsStaleMate() bool {
	return b.GameOver() && !b.HasCheck(b.nextPlayer)
}

// HasCheck reports whether the king of the given color is attacked
// by the other color.
func (b *Board) HasCheck(c Color) bool {
	return b.attacks.IsAttackedBy(c.Flip(), b.pieces.KingSquare(c))
}

// IsAttacked reports whether the given color attacks the square
func (b *Board) IsAttacked(sq Square, byColor Color) bool {
	return b.attacks.IsAttackedBy(byColor, sq)
}

// AttackersOf returns the origins of all pieces of the given color
// attacking the square.
func (b *Board) AttackersOf(c Color, sq Square) Bitboard {
	return b.attacks.AllAttackers(sq, c)
}

// IsCapturingMove reports whether the move captures a piece,
// including en passant captures of the pawn beside the target square.
func (b *Board) IsCapturingMove(m Move) bool {
	if b.board[m.To()] != PieceNone {
		return true
	}
	return b.board[m.From()].TypeOf() == Pawn &&
		b.enPassantSquare != SqNone && m.To() == b.enPassantSquare &&
		m.From().FileOf() != m.To().FileOf()
}

// CheckRepetitions reports whether the current position occurred at
// least the given number of times.
func (b *Board) CheckRepetitions(n int) bool {
	return b.repetition[b.zobristKey] >= n
}

// RepeatedTimes returns how often the current position has occurred,
// at least 1 as the current position is on the board.
func (b *Board) RepeatedTimes() int {
	return b.repetition[b.zobristKey]
}

// HasDrawSentinel reports whether a repetition or half move draw has
// been latched.
func (b *Board) HasDrawSentinel() bool {
	return b.repDraw.latched || b.halfMoveDraw.latched
}

// HalfMoveClock returns the current half move clock
func (b *Board) HalfMoveClock() int {
	return b.halfMoveClock
}

// FullMoveNumber returns the current full move number
func (b *Board) FullMoveNumber() int {
	return (b.nextHalfMoveNumber + 1) / 2
}

// NextPlayer returns the side to move
func (b *Board) NextPlayer() Color {
	return b.nextPlayer
}

// GetPiece returns the piece on the given square
func (b *Board) GetPiece(sq Square) Piece {
	return b.board[sq]
}

// KingSquare returns the square of the king of the given color
func (b *Board) KingSquare(c Color) Square {
	return b.pieces.KingSquare(c)
}

// PieceSquares returns the squares occupied by pieces of the given
// type and color.
func (b *Board) PieceSquares(pt PieceType, c Color) []Square {
	return b.pieces.Locations(pt, c)
}

// PieceCount returns the total number of pieces on the board
func (b *Board) PieceCount() int {
	return b.pieces.Count()
}

// EnPassantSquare returns the current en passant target square or
// SqNone.
func (b *Board) EnPassantSquare() Square {
	return b.enPassantSquare
}

// CastlingRights returns the current castling rights
func (b *Board) CastlingRights() CastlingRights {
	return b.castlingRights
}

// ZobristKey returns the current zobrist key of the position
func (b *Board) ZobristKey() Key {
	return b.zobristKey
}

// LastMove returns the last move made or MoveNone on the initial
// position.
func (b *Board) LastMove() Move {
	if len(b.history) == 0 {
		return MoveNone
	}
	return b.history[len(b.history)-1].move
}

// Copy returns a deep copy of the board sharing the zobrist base keys
// so that hashes stay comparable between the copies.
func (b *Board) Copy() *Board {
	c := &Board{
		board:              b.board,
		nextPlayer:         b.nextPlayer,
		castlingRights:     b.castlingRights,
		enPassantSquare:    b.enPassantSquare,
		halfMoveClock:      b.halfMoveClock,
		nextHalfMoveNumber: b.nextHalfMoveNumber,
		pieces:             attack.NewPieceIndex(),
		attacks:            attack.NewTable(),
		zobrist:            b.zobrist,
		zobristKey:         b.zobristKey,
		repetition:         make(map[Key]int, len(b.repetition)),
		repetitionLimit:    b.repetitionLimit,
		halfMoveLimit:      b.halfMoveLimit,
		repDraw:            b.repDraw,
		halfMoveDraw:       b.halfMoveDraw,
	}
	for k, v := range b.repetition {
		c.repetition[k] = v
	}
	// rebuild index and attack table from the array, history is not
	// carried over (a copy cannot undo past its creation)
	for sq := SqA1; sq < SqNone; sq++ {
		if pc := c.board[sq]; pc != PieceNone {
			c.addToIndex(pc, sq)
		}
	}
	c.refreshKings()
	return c
}

// String returns a string representing the board instance including
// fen and a board matrix.
func (b *Board) String() string {
	var os strings.Builder
	os.WriteString(b.StringFen())
	os.WriteString("\n")
	os.WriteString(b.StringBoard())
	return os.String()
}

// StringBoard returns a visual matrix of the board and pieces
func (b *Board) StringBoard() string {
	var os strings.Builder
	os.WriteString("+---+---+---+---+---+---+---+---+\n")
	for r := Rank1; r <= Rank8; r++ {
		for f := FileA; f <= FileH; f++ {
			os.WriteString("| ")
			os.WriteString(b.board[SquareOf(f, Rank8-r)].String())
			os.WriteString(" ")
		}
		os.WriteString("|\n+---+---+---+---+---+---+---+---+\n")
	}
	return os.String()
}

// ///////////////////////////////////////
// helpers
// ///////////////////////////////////////

func fileDistance(a Square, b Square) int {
	d := int(a.FileOf()) - int(b.FileOf())
	if d < 0 {
		return -d
	}
	return d
}

func rankDistance(a Square, b Square) int {
	d := int(a.RankOf()) - int(b.RankOf())
	if d < 0 {
		return -d
	}
	return d
}

// rookCastleSquares returns the from and to square of the rook
// transfer for a castling move given the king's target square.
func rookCastleSquares(kingTo Square) (Square, Square) {
	switch kingTo {
	case SqG1:
		return SqH1, SqF1
	case SqC1:
		return SqA1, SqD1
	case SqG8:
		return SqH8, SqF8
	case SqC8:
		return SqA8, SqD8
	default:
		panic(fmt.Sprintf("Board rookCastleSquares: invalid castling target %s", kingTo.String()))
	}
}

// updateCastlingRights clears rights after king moves, rook moves from
// their corner and captures on a corner. The zobrist key is updated
// per lost right.
func (b *Board) updateCastlingRights(from Square, to Square, capSq Square) {
	if b.castlingRights == CastlingNone {
		return
	}
	lost := CastlingNone
	for _, sq := range [3]Square{from, to, capSq} {
		switch sq {
		case SqE1:
			lost.Add(CastlingWhite)
		case SqH1:
			lost.Add(CastlingWhiteOO)
		case SqA1:
			lost.Add(CastlingWhiteOOO)
		case SqE8:
			lost.Add(CastlingBlack)
		case SqH8:
			lost.Add(CastlingBlackOO)
		case SqA8:
			lost.Add(CastlingBlackOOO)
		}
	}
	lost &= b.castlingRights
	if lost == CastlingNone {
		return
	}
	b.zobristKey ^= b.zobrist.castlingKeys(lost)
	b.castlingRights.Remove(lost)
}

// computeZobristKey computes the key of the current position from
// scratch, used after reset and in consistency assertions.
func (b *Board) computeZobristKey() Key {
	var k Key
	for sq := SqA1; sq < SqNone; sq++ {
		if pc := b.board[sq]; pc != PieceNone {
			k ^= b.zobrist.pieces[pc][sq]
		}
	}
	if b.nextPlayer == Black {
		k ^= b.zobrist.nextPlayer
	}
	k ^= b.zobrist.castlingKeys(b.castlingRights)
	if b.enPassantSquare != SqNone {
		k ^= b.zobrist.enPassantFile[b.enPassantSquare.FileOf()]
	}
	return k
}

// HashAfter returns the zobrist key the position would have after the
// given pseudo legal move without mutating the board. Used by move
// ordering to find hash moves.
func (b *Board) HashAfter(m Move) Key {
	us := b.nextPlayer
	from := m.From()
	to := m.To()
	fromPc := b.board[from]
	if fromPc == PieceNone {
		return 0
	}
	k := b.zobristKey

	capturedPc := b.board[to]
	capSq := to
	if fromPc.TypeOf() == Pawn && b.enPassantSquare != SqNone && to == b.enPassantSquare &&
		from.FileOf() != to.FileOf() && capturedPc == PieceNone {
		capSq = SquareOf(to.FileOf(), from.RankOf())
		capturedPc = b.board[capSq]
	}

	k ^= b.zobrist.pieces[fromPc][from]
	if capturedPc != PieceNone {
		k ^= b.zobrist.pieces[capturedPc][capSq]
	}
	placed := fromPc
	if promPt := m.PromotionType(); promPt != PtNone {
		placed = MakePiece(us, promPt)
	}
	k ^= b.zobrist.pieces[placed][to]

	if fromPc.TypeOf() == King && fileDistance(from, to) == 2 {
		rookFrom, rookTo := rookCastleSquares(to)
		rook := b.board[rookFrom]
		k ^= b.zobrist.pieces[rook][rookFrom]
		k ^= b.zobrist.pieces[rook][rookTo]
	}

	// castling rights lost by this move
	lost := CastlingNone
	for _, sq := range [3]Square{from, to, capSq} {
		switch sq {
		case SqE1:
			lost.Add(CastlingWhite)
		case SqH1:
			lost.Add(CastlingWhiteOO)
		case SqA1:
			lost.Add(CastlingWhiteOOO)
		case SqE8:
			lost.Add(CastlingBlack)
		case SqH8:
			lost.Add(CastlingBlackOO)
		case SqA8:
			lost.Add(CastlingBlackOOO)
		}
	}
	lost &= b.castlingRights
	k ^= b.zobrist.castlingKeys(lost)

	// en passant file out and possibly in
	if b.enPassantSquare != SqNone {
		k ^= b.zobrist.enPassantFile[b.enPassantSquare.FileOf()]
	}
	if fromPc.TypeOf() == Pawn && rankDistance(from, to) == 2 {
		k ^= b.zobrist.enPassantFile[from.FileOf()]
	}

	k ^= b.zobrist.nextPlayer
	return k
}
