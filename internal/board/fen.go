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
	"regexp"
	"strconv"
	"strings"

	. "github.com/mklemm/ChariotGo/internal/types"
)

var (
	regexFenPieces    = regexp.MustCompile("^[0-8pPnNbBrRqQkK/]+$")
	regexFenPlayer    = regexp.MustCompile("^[wb]$")
	regexFenCastling  = regexp.MustCompile("^(K?Q?k?q?|-)$")
	regexFenEnPassant = regexp.MustCompile("^([a-h][36]|-)$")
)

// StringFen returns a string with the FEN of the current position.
// Empty square runs are maximally coalesced.
func (b *Board) StringFen() string {
	var fen strings.Builder
	// pieces - ranks top to bottom, files a to h
	for r := Rank1; r <= Rank8; r++ {
		emptySquares := 0
		for f := FileA; f <= FileH; f++ {
			pc := b.board[SquareOf(f, Rank8-r)]
			if pc == PieceNone {
				emptySquares++
			} else {
				if emptySquares > 0 {
					fen.WriteString(strconv.Itoa(emptySquares))
					emptySquares = 0
				}
				fen.WriteString(pc.String())
			}
		}
		if emptySquares > 0 {
			fen.WriteString(strconv.Itoa(emptySquares))
		}
		if r < Rank8 {
			fen.WriteString("/")
		}
	}
	fen.WriteString(" ")
	fen.WriteString(b.nextPlayer.String())
	fen.WriteString(" ")
	fen.WriteString(b.castlingRights.String())
	fen.WriteString(" ")
	fen.WriteString(b.enPassantSquare.String())
	fen.WriteString(" ")
	fen.WriteString(strconv.Itoa(b.halfMoveClock))
	fen.WriteString(" ")
	fen.WriteString(strconv.Itoa(b.FullMoveNumber()))
	return fen.String()
}

// setupBoard sets up the board from a FEN string. This is the only way
// to get a valid board instance. All structural violations of the FEN
// format are rejected with an error wrapping ErrInvalidFen and leave
// the instance untouched by the caller.
func (b *Board) setupBoard(fen string) error {
	fenParts := strings.Fields(strings.TrimSpace(fen))
	if len(fenParts) == 0 {
		return fmt.Errorf("%w: fen must not be empty", ErrInvalidFen)
	}

	// field 1: piece placement
	if !regexFenPieces.MatchString(fenParts[0]) {
		return fmt.Errorf("%w: position part contains invalid characters: %s", ErrInvalidFen, fenParts[0])
	}
	ranks := strings.Split(fenParts[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: position part must have 8 ranks: %s", ErrInvalidFen, fenParts[0])
	}
	kings := [ColorLength]int{}
	for i, rankStr := range ranks {
		rank := Rank8 - Rank(i)
		file := FileA
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += File(c - '0')
				continue
			}
			if !file.IsValid() {
				return fmt.Errorf("%w: rank %s overflows: %s", ErrInvalidFen, rank.String(), rankStr)
			}
			piece := PieceFromChar(string(c))
			if piece == PieceNone {
				return fmt.Errorf("%w: invalid piece character: %c", ErrInvalidFen, c)
			}
			if piece.TypeOf() == Pawn && (rank == Rank1 || rank == Rank8) {
				return fmt.Errorf("%w: pawn on rank %s", ErrInvalidFen, rank.String())
			}
			if piece.TypeOf() == King {
				kings[piece.ColorOf()]++
			}
			b.board[SquareOf(file, rank)] = piece
			file++
		}
		if file != FileNone {
			return fmt.Errorf("%w: rank %s does not sum to 8 squares: %s", ErrInvalidFen, rank.String(), rankStr)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fmt.Errorf("%w: need exactly one king per color (white %d, black %d)",
			ErrInvalidFen, kings[White], kings[Black])
	}

	// set defaults, everything below is optional
	b.nextPlayer = White
	b.enPassantSquare = SqNone
	b.castlingRights = CastlingNone
	b.halfMoveClock = 0
	b.nextHalfMoveNumber = 1

	// field 2: side to move
	if len(fenParts) >= 2 {
		if !regexFenPlayer.MatchString(fenParts[1]) {
			return fmt.Errorf("%w: side to move invalid: %s", ErrInvalidFen, fenParts[1])
		}
		if fenParts[1] == "b" {
			b.nextPlayer = Black
			b.nextHalfMoveNumber++
		}
	}

	// field 3: castling rights - a claimed right requires the king and
	// the relevant rook on their original squares
	if len(fenParts) >= 3 {
		if !regexFenCastling.MatchString(fenParts[2]) {
			return fmt.Errorf("%w: castling rights invalid: %s", ErrInvalidFen, fenParts[2])
		}
		if fenParts[2] != "-" {
			for _, c := range fenParts[2] {
				switch c {
				case 'K':
					if b.board[SqE1] != WhiteKing || b.board[SqH1] != WhiteRook {
						return fmt.Errorf("%w: castling right K without king on e1 and rook on h1", ErrInvalidFen)
					}
					b.castlingRights.Add(CastlingWhiteOO)
				case 'Q':
					if b.board[SqE1] != WhiteKing || b.board[SqA1] != WhiteRook {
						return fmt.Errorf("%w: castling right Q without king on e1 and rook on a1", ErrInvalidFen)
					}
					b.castlingRights.Add(CastlingWhiteOOO)
				case 'k':
					if b.board[SqE8] != BlackKing || b.board[SqH8] != BlackRook {
						return fmt.Errorf("%w: castling right k without king on e8 and rook on h8", ErrInvalidFen)
					}
					b.castlingRights.Add(CastlingBlackOO)
				case 'q':
					if b.board[SqE8] != BlackKing || b.board[SqA8] != BlackRook {
						return fmt.Errorf("%w: castling right q without king on e8 and rook on a8", ErrInvalidFen)
					}
					b.castlingRights.Add(CastlingBlackOOO)
				}
			}
		}
	}

	// field 4: en passant target - the square behind the pawn that
	// just advanced two squares
	if len(fenParts) >= 4 {
		if !regexFenEnPassant.MatchString(fenParts[3]) {
			return fmt.Errorf("%w: en passant square invalid: %s", ErrInvalidFen, fenParts[3])
		}
		if fenParts[3] != "-" {
			epSq := MakeSquare(fenParts[3])
			switch epSq.RankOf() {
			case Rank3: // white just advanced, black to move
				if b.nextPlayer != Black {
					return fmt.Errorf("%w: en passant on rank 3 but black not to move", ErrInvalidFen)
				}
				if b.board[SquareOf(epSq.FileOf(), Rank4)] != WhitePawn {
					return fmt.Errorf("%w: no white pawn behind en passant square %s", ErrInvalidFen, epSq.String())
				}
			case Rank6: // black just advanced, white to move
				if b.nextPlayer != White {
					return fmt.Errorf("%w: en passant on rank 6 but white not to move", ErrInvalidFen)
				}
				if b.board[SquareOf(epSq.FileOf(), Rank5)] != BlackPawn {
					return fmt.Errorf("%w: no black pawn behind en passant square %s", ErrInvalidFen, epSq.String())
				}
			}
			b.enPassantSquare = epSq
		}
	}

	// field 5: half move clock
	if len(fenParts) >= 5 {
		number, err := strconv.Atoi(fenParts[4])
		if err != nil || number < 0 {
			return fmt.Errorf("%w: half move clock invalid: %s", ErrInvalidFen, fenParts[4])
		}
		if number > 0 && b.enPassantSquare != SqNone {
			return fmt.Errorf("%w: half move clock must be 0 when an en passant target is set", ErrInvalidFen)
		}
		b.halfMoveClock = number
	}

	// field 6: full move counter
	if len(fenParts) >= 6 {
		moveNumber, err := strconv.Atoi(fenParts[5])
		if err != nil || moveNumber < 1 {
			return fmt.Errorf("%w: full move counter invalid: %s", ErrInvalidFen, fenParts[5])
		}
		b.nextHalfMoveNumber = 2*moveNumber - (1 - int(b.nextPlayer))
	}

	// build piece index and attack table in one pass, then derive the
	// kings again as their castling moves need the complete table
	for sq := SqA1; sq < SqNone; sq++ {
		if pc := b.board[sq]; pc != PieceNone {
			b.addToIndex(pc, sq)
		}
	}
	b.refreshKings()

	// initial zobrist key and repetition entry
	b.zobristKey = b.computeZobristKey()
	b.repetition[b.zobristKey] = 1
	return nil
}
