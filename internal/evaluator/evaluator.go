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

// Package evaluator computes the static evaluation of a board
// position in white-positive convention (positive favors White).
// The terms are material, pawn structure, mobility and attack
// pressure on unprotected pieces, weighted per configuration.
package evaluator

import (
	"github.com/mklemm/ChariotGo/internal/board"
	"github.com/mklemm/ChariotGo/internal/config"
	. "github.com/mklemm/ChariotGo/internal/types"
)

// maxPieceValueModifier is the fraction of the side to move's highest
// valued hanging piece that stays in the attack pressure score. The
// piece can most likely move out of attack so 95% is discounted.
const maxPieceValueModifier = 0.05

// Evaluator evaluates board positions.
// Create with NewEvaluator().
type Evaluator struct{}

// NewEvaluator creates a new Evaluator instance
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate returns the static evaluation of the position in pawn
// units, white-positive. Terminal positions return the checkmate
// score against the mated side or 0 for stalemate.
func (e *Evaluator) Evaluate(b *board.Board) Value {
	if b.GameOver() {
		if b.HasCheck(b.NextPlayer()) {
			if b.NextPlayer() == White {
				return -ValueCheckMate
			}
			return ValueCheckMate
		}
		return ValueDraw // stalemate
	}

	eval := e.material(b)
	if config.Settings.Eval.UsePawnStructure {
		eval -= Value(config.Settings.Eval.PawnWeight) * e.pawnStructure(b)
	}
	if config.Settings.Eval.UseAttackPressure {
		eval -= Value(config.Settings.Eval.AttackWeight) * e.attackPressure(b)
	}
	if config.Settings.Eval.UseMobility {
		eval += Value(config.Settings.Eval.MobilityWeight) * e.mobility(b)
	}
	return eval
}

// material returns the material balance white minus black
func (e *Evaluator) material(b *board.Board) Value {
	var v Value
	for pt := King; pt <= Queen; pt++ {
		v += pt.ValueOf() * Value(len(b.PieceSquares(pt, White))-len(b.PieceSquares(pt, Black)))
	}
	return v
}

// mobility returns the difference of the legal move counts
func (e *Evaluator) mobility(b *board.Board) Value {
	return Value(b.LegalMoves(White).Len() - b.LegalMoves(Black).Len())
}

// pawnStructure counts doubled, isolated and blocked pawns (bad) and
// passed pawns (good, therefore subtracted), each white minus black.
func (e *Evaluator) pawnStructure(b *board.Board) Value {
	var wCols, bCols [8]int
	whitePawns := b.PieceSquares(Pawn, White)
	blackPawns := b.PieceSquares(Pawn, Black)
	for _, sq := range whitePawns {
		wCols[sq.FileOf()]++
	}
	for _, sq := range blackPawns {
		bCols[sq.FileOf()]++
	}

	doubled := 0
	for i := 0; i < 8; i++ {
		if wCols[i] > 1 {
			doubled += wCols[i] - 1
		}
		if bCols[i] > 1 {
			doubled -= bCols[i] - 1
		}
	}

	isolated := isolatedPawns(wCols) - isolatedPawns(bCols)

	blocked := 0
	for _, sq := range whitePawns {
		if b.GetPiece(sq.To(North)) != PieceNone {
			blocked++
		}
	}
	for _, sq := range blackPawns {
		if b.GetPiece(sq.To(South)) != PieceNone {
			blocked--
		}
	}

	passed := 0
	for i := 0; i < 8; i++ {
		if wCols[i] > 0 && bCols[i] == 0 && adjacentColumnsEmpty(bCols, i) {
			passed++
		} else if bCols[i] > 0 && wCols[i] == 0 && adjacentColumnsEmpty(wCols, i) {
			passed--
		}
	}

	return Value(doubled + isolated + blocked - passed)
}

// isolatedPawns counts pawns in files with no same color pawn in an
// adjacent file.
func isolatedPawns(cols [8]int) int {
	isolated := 0
	for i := 0; i < 8; i++ {
		if cols[i] >= 1 && adjacentColumnsEmpty(cols, i) {
			isolated += cols[i]
		}
	}
	return isolated
}

func adjacentColumnsEmpty(cols [8]int, i int) bool {
	switch i {
	case 0:
		return cols[1] == 0
	case 7:
		return cols[6] == 0
	default:
		return cols[i-1] == 0 && cols[i+1] == 0
	}
}

// attackPressure returns the value of pieces under attack and not
// defended, white minus black. Each enemy attacker is assigned to at
// most one victim so one attacker threatening several targets is not
// counted multiple times. The side to move's single highest valued
// hanging piece is discounted as it can likely move out of attack;
// the king is ignored for this term entirely.
func (e *Evaluator) attackPressure(b *board.Board) Value {
	return e.attackPressureFor(b, White) - e.attackPressureFor(b, Black)
}

func (e *Evaluator) attackPressureFor(b *board.Board, us Color) Value {
	them := us.Flip()
	var score Value
	var maxUnprotected Value

	// per attacker origin the value of the victim it is assigned to
	assigned := make(map[Square]Value)

	for pt := King; pt <= Queen; pt++ {
		for _, sq := range b.PieceSquares(pt, us) {
			if b.AttackersOf(them, sq) == 0 || b.AttackersOf(us, sq) != 0 {
				continue // not attacked or defended
			}
			if pt == King {
				// the king cannot be captured, it has to move out of
				// check anyway
				continue
			}
			pieceValue := pt.ValueOf()

			// greedy assignment: find a free attacker, otherwise
			// reassign the attacker holding the smallest victim
			attackers := b.AttackersOf(them, sq).Squares()
			added := false
			minVal := pieceValue
			minOrigin := SqNone
			for _, origin := range attackers {
				if val, ok := assigned[origin]; ok {
					if val < minVal {
						minVal = val
						minOrigin = origin
					}
					continue
				}
				assigned[origin] = pieceValue
				score += pieceValue
				added = true
				break
			}
			if !added && minOrigin != SqNone && minVal < pieceValue {
				assigned[minOrigin] = pieceValue
				score += pieceValue - minVal
			}

			if b.NextPlayer() == us && pieceValue > maxUnprotected {
				maxUnprotected = pieceValue
			}
		}
	}

	return score - (1-maxPieceValueModifier)*maxUnprotected
}
