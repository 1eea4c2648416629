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
	"github.com/mklemm/ChariotGo/internal/board"
	"github.com/mklemm/ChariotGo/internal/config"
	"github.com/mklemm/ChariotGo/internal/moveslice"
	"github.com/mklemm/ChariotGo/internal/tablebase"
	. "github.com/mklemm/ChariotGo/internal/types"
)

// deltaMargin is the largest possible material swing of a single
// capture (queen value), used for delta pruning in quiescence
const deltaMargin Value = 9

// rootSearch searches all root moves at the given depth and stores
// their values for the sorting of the next iteration. The best move
// of the iteration ends up in pv[0].
func (s *Search) rootSearch(p *board.Board, depth int) {
	alpha := ValueMin
	beta := ValueMax
	bestValue := ValueNA

	for i, m := range s.rootMoves {
		s.statistics.CurrentRootMove = m
		s.statistics.CurrentRootMoveIndex = i

		s.mustMake(p, m)
		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(m)

		var value Value
		if p.HasDrawSentinel() {
			s.statistics.DrawScores++
			s.pv[1].Clear()
			value = ValueDraw
		} else {
			value = -s.search(p, depth-1, 1, -beta, -alpha)
		}

		s.statistics.CurrentVariation.PopBack()
		p.UndoMove()

		// a stopped subtree returns no usable value - the results of
		// the finished root moves are kept
		if s.stopConditions() {
			return
		}

		s.rootValues[i] = value

		if value > bestValue {
			bestValue = value
			alpha = value
			savePV(m, s.pv[1], s.pv[0])
		}
		s.sendSearchUpdateToUci()
	}
}

// search is the regular alpha beta search below the root. Values are
// side to move relative (negamax), the static evaluation is flipped
// at the leaves accordingly.
//
// Order of termination checks: node limit, draw sentinel, tablebase,
// depth limit (quiescence), transposition table, descend.
func (s *Search) search(p *board.Board, depth int, ply int, alpha Value, beta Value) Value {
	if s.stopConditions() {
		return ValueNA
	}
	// every leaf return below must leave an empty pv for this ply so
	// the parent never picks up moves of a sibling line
	s.pv[ply].Clear()

	// positions on a latched draw are scored 0 and never stored in
	// the transposition table as the score is path dependent
	if p.HasDrawSentinel() {
		s.statistics.DrawScores++
		return ValueDraw
	}

	// tablebase probe for positions with less than 6 pieces
	if value, ok := s.probeTablebase(p); ok {
		return value
	}

	if depth <= 0 || ply >= MaxDepth {
		return s.qsearch(p, ply, config.Settings.Search.QDepth, alpha, beta)
	}

	// transposition table: a stored result of at least the remaining
	// depth is reused, the subtree is skipped
	if s.tt != nil {
		if entry := s.tt.Probe(p.ZobristKey()); entry != nil {
			s.statistics.TTHit++
			if int(entry.Depth) >= depth {
				s.statistics.TTCuts++
				return entry.Value
			}
		} else {
			s.statistics.TTMiss++
		}
	}

	legal := p.LegalMoves(p.NextPlayer())
	if legal.Len() == 0 {
		return s.terminalValue(p, ply)
	}

	bestValue := ValueNA
	movesSearched := 0

	for _, m := range s.orderMoves(p, legal, false) {
		s.mustMake(p, m)
		s.nodesVisited++
		movesSearched++
		s.statistics.CurrentVariation.PushBack(m)
		s.sendSearchUpdateToUci()

		var value Value
		if p.HasDrawSentinel() {
			s.statistics.DrawScores++
			s.pv[ply+1].Clear()
			value = ValueDraw
		} else {
			value = -s.search(p, depth-1, ply+1, -beta, -alpha)
		}

		s.statistics.CurrentVariation.PopBack()
		p.UndoMove()

		if s.stopConditions() {
			return ValueNA
		}

		if value > bestValue {
			bestValue = value
			if value > alpha {
				savePV(m, s.pv[ply+1], s.pv[ply])
				if value >= beta {
					s.statistics.BetaCuts++
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					break
				}
				alpha = value
			}
		}
	}

	if s.tt != nil && bestValue != ValueNA {
		s.tt.Put(p.ZobristKey(), bestValue, int8(depth))
	}
	return bestValue
}

// qsearch extends the search past the nominal depth over captures and
// check giving moves only, to avoid the horizon effect. Fail-hard
// alpha beta with a stand pat lower bound and delta pruning.
func (s *Search) qsearch(p *board.Board, ply int, qDepth int, alpha Value, beta Value) Value {
	if s.stopConditions() {
		return ValueNA
	}
	s.pv[ply].Clear()
	if s.statistics.CurrentExtraSearchDepth < ply {
		s.statistics.CurrentExtraSearchDepth = ply
	}

	if p.HasDrawSentinel() {
		s.statistics.DrawScores++
		return ValueDraw
	}

	if value, ok := s.probeTablebase(p); ok {
		return value
	}

	legal := p.LegalMoves(p.NextPlayer())
	if legal.Len() == 0 {
		return s.terminalValue(p, ply)
	}

	// the stand pat is the value of doing nothing, a lower bound as
	// the side to move has at least the option of not capturing
	standPat := s.evaluateSide(p)
	if !config.Settings.Search.UseQuiescence || qDepth <= 0 || ply >= MaxDepth {
		return standPat
	}
	if standPat >= beta {
		s.statistics.StandpatCuts++
		return beta
	}
	// delta pruning: even winning a queen cannot raise alpha
	if standPat+deltaMargin <= alpha {
		s.statistics.DeltaCuts++
		return alpha
	}
	if standPat > alpha {
		alpha = standPat
	}

	for _, m := range s.orderMoves(p, legal, true) {
		s.mustMake(p, m)
		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(m)

		var value Value
		if p.HasDrawSentinel() {
			s.statistics.DrawScores++
			s.pv[ply+1].Clear()
			value = ValueDraw
		} else {
			value = -s.qsearch(p, ply+1, qDepth-1, -beta, -alpha)
		}

		s.statistics.CurrentVariation.PopBack()
		p.UndoMove()

		if s.stopConditions() {
			return ValueNA
		}

		if value > alpha {
			savePV(m, s.pv[ply+1], s.pv[ply])
			if value >= beta {
				s.statistics.BetaCuts++
				return beta
			}
			alpha = value
		}
	}
	return alpha
}

// terminalValue scores a position without legal moves: checkmate
// against the side to move or stalemate. Shorter mates score strictly
// better through the ply adjustment.
func (s *Search) terminalValue(p *board.Board, ply int) Value {
	if p.HasCheck(p.NextPlayer()) {
		s.statistics.Checkmates++
		return -ValueCheckMate + Value(ply)
	}
	s.statistics.Stalemates++
	return ValueDraw
}

// evaluateSide returns the static evaluation relative to the side to
// move.
func (s *Search) evaluateSide(p *board.Board) Value {
	s.statistics.Evaluations++
	value := s.eval.Evaluate(p)
	if p.NextPlayer() == Black {
		return -value
	}
	return value
}

// probeTablebase consults the tablebase for positions with less than
// 6 pieces. A draw claim is scored as "at least as good as the draw"
// using the board evaluation, decisive claims are shaped so they
// dominate any heuristic score. Probe failures abstain and the search
// falls back to evaluation.
func (s *Search) probeTablebase(p *board.Board) (Value, bool) {
	if s.prober == nil || p.PieceCount() >= tablebase.MaxPieces {
		return 0, false
	}
	wdl, dtz, err := s.prober.Probe(p.StringFen())
	if err != nil {
		return 0, false
	}
	s.tbHits++
	s.statistics.TbHits++
	if wdl == 0 {
		// the draw is secured, but try to improve over the board
		// evaluation
		if value := s.evaluateSide(p); value > 0 {
			return value, true
		}
		return ValueDraw, true
	}
	return tablebase.Score(wdl, dtz, p.HalfMoveClock(), p.RepeatedTimes()), true
}

// mustMake commits a move generated from the current legal move list.
// A rejection means the move generator and the board disagree which is
// a corrupt state.
func (s *Search) mustMake(p *board.Board, m Move) {
	if err := p.MakeMove(m); err != nil {
		panic(err)
	}
}

// savePV adds the given move as first move to a cleared dest and then
// appends all src moves to dest.
func savePV(move Move, src *moveslice.MoveSlice, dest *moveslice.MoveSlice) {
	dest.Clear()
	dest.PushBack(move)
	*dest = append(*dest, *src...)
}
