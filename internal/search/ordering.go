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

package search

import (
	"sort"

	"github.com/mklemm/ChariotGo/internal/board"
	"github.com/mklemm/ChariotGo/internal/moveslice"
	. "github.com/mklemm/ChariotGo/internal/types"
)

// scoredMove pairs a move with its ordering score within a bucket
type scoredMove struct {
	move  Move
	score Value
}

// orderMoves splits the legal moves into buckets, orders each bucket
// by score and concatenates:
//  1. hash moves - the resulting position is already in the
//     transposition table, scored by the stored value
//  2. checks - capture checks before quiet checks
//  3. MVV/LVA captures - most valuable victim first, least valuable
//     attacker as tie break, promotion value added
//  4. promotions without capture - scored by the promoted piece
//  5. quiet moves - unordered
//
// With tacticalOnly (quiescence) only captures and checks are kept,
// ordered in buckets 1-3.
func (s *Search) orderMoves(p *board.Board, moves *moveslice.MoveSlice, tacticalOnly bool) []Move {
	var hashMoves, checks, captures, promotions []scoredMove
	var quiet []Move

	for _, m := range *moves {
		isCapture := p.IsCapturingMove(m)

		// hash moves
		if s.tt != nil && (!tacticalOnly || isCapture || p.GivesCheck(m)) {
			if entry := s.tt.Probe(p.HashAfter(m)); entry != nil {
				hashMoves = append(hashMoves, scoredMove{m, entry.Value})
				continue
			}
		}

		// checks, capture checks first
		if p.GivesCheck(m) {
			if isCapture {
				checks = append(checks, scoredMove{m, 10})
			} else {
				checks = append(checks, scoredMove{m, 0})
			}
			continue
		}

		// MVV/LVA captures
		if isCapture {
			victim := p.GetPiece(m.To())
			if victim == PieceNone { // en passant
				victim = MakePiece(p.NextPlayer().Flip(), Pawn)
			}
			score := 10*victim.ValueOf() - p.GetPiece(m.From()).ValueOf()
			if promPt := m.PromotionType(); promPt != PtNone {
				score += promPt.ValueOf()
			}
			captures = append(captures, scoredMove{m, score})
			continue
		}

		if tacticalOnly {
			continue
		}

		if promPt := m.PromotionType(); promPt != PtNone {
			promotions = append(promotions, scoredMove{m, promPt.ValueOf()})
			continue
		}

		quiet = append(quiet, m)
	}

	sortBucket(hashMoves)
	sortBucket(checks)
	sortBucket(captures)
	sortBucket(promotions)

	ordered := make([]Move, 0, moves.Len())
	for _, bucket := range [][]scoredMove{hashMoves, checks, captures, promotions} {
		for _, sm := range bucket {
			ordered = append(ordered, sm.move)
		}
	}
	ordered = append(ordered, quiet...)
	return ordered
}

func sortBucket(bucket []scoredMove) {
	sort.SliceStable(bucket, func(i, j int) bool {
		return bucket[i].score > bucket[j].score
	})
}
