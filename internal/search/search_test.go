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
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklemm/ChariotGo/internal/board"
	"github.com/mklemm/ChariotGo/internal/config"
	"github.com/mklemm/ChariotGo/internal/evaluator"
	"github.com/mklemm/ChariotGo/internal/tablebase"
	. "github.com/mklemm/ChariotGo/internal/types"
)

func TestMain(m *testing.M) {
	config.Setup()
	config.Settings.Search.UseBook = false
	os.Exit(m.Run())
}

// runSearch starts a search with the given limits and waits for it
func runSearch(t *testing.T, fen string, limits Limits) Result {
	t.Helper()
	b, err := board.NewFen(fen)
	require.NoError(t, err)
	s := NewSearch()
	s.StartSearch(b, limits)
	s.WaitWhileSearching()
	require.True(t, s.HasResult())
	return s.LastSearchResult()
}

func TestMateInOne(t *testing.T) {
	defer func(tt bool) { config.Settings.Search.UseTT = tt }(config.Settings.Search.UseTT)
	config.Settings.Search.UseTT = false

	result := runSearch(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", Limits{Depth: 2})
	assert.Equal(t, "a1a8", result.BestMove.StringUci())
	assert.True(t, result.BestValue.IsCheckMateValue())
	assert.Equal(t, 1, result.BestValue.PliesToMate())
	assert.Equal(t, 1, result.BestValue.MateIn())
	assert.Equal(t, 1, result.Pv.Len())
}

func TestMateInTwo(t *testing.T) {
	defer func(tt bool) { config.Settings.Search.UseTT = tt }(config.Settings.Search.UseTT)
	config.Settings.Search.UseTT = false

	// 1. Kb6 Kb8 2. Rh8# - a forced mate in 3 plies
	result := runSearch(t, "k7/8/8/1K6/8/8/8/7R w - - 0 1", Limits{Depth: 4})
	assert.True(t, result.BestValue.IsCheckMateValue())
	assert.Equal(t, 3, result.BestValue.PliesToMate())
	assert.Equal(t, 2, result.BestValue.MateIn())
	assert.Equal(t, 3, result.Pv.Len(), "pv %s", result.Pv.StringUci())
	assert.Equal(t, 3, result.MateDepth)

	// replaying the pv must end in checkmate
	b, err := board.NewFen("k7/8/8/1K6/8/8/8/7R w - - 0 1")
	require.NoError(t, err)
	for _, m := range result.Pv {
		require.NoError(t, b.MakeMove(m))
	}
	assert.True(t, b.IsCheckMate())
}

// naive full width minimax with the same leaf evaluation and terminal
// scoring as the alpha beta search, used as a reference for the
// principal value
func minimax(b *board.Board, e *evaluator.Evaluator, depth int, ply int) Value {
	if b.HasDrawSentinel() {
		return ValueDraw
	}
	legal := b.LegalMoves(b.NextPlayer())
	if legal.Len() == 0 {
		if b.HasCheck(b.NextPlayer()) {
			return -ValueCheckMate + Value(ply)
		}
		return ValueDraw
	}
	if depth == 0 {
		value := e.Evaluate(b)
		if b.NextPlayer() == Black {
			return -value
		}
		return value
	}
	best := ValueMin
	for _, m := range *legal.Clone() {
		if err := b.MakeMove(m); err != nil {
			panic(err)
		}
		value := -minimax(b, e, depth-1, ply+1)
		b.UndoMove()
		if value > best {
			best = value
		}
	}
	return best
}

func TestAlphaBetaEqualsMinimax(t *testing.T) {
	defer func(tt, q bool) {
		config.Settings.Search.UseTT = tt
		config.Settings.Search.UseQuiescence = q
	}(config.Settings.Search.UseTT, config.Settings.Search.UseQuiescence)
	config.Settings.Search.UseTT = false
	config.Settings.Search.UseQuiescence = false

	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		for depth := 1; depth <= 2; depth++ {
			b, err := board.NewFen(fen)
			require.NoError(t, err)
			want := minimax(b, evaluator.NewEvaluator(), depth, 0)

			result := runSearch(t, fen, Limits{Depth: depth})
			assert.InDelta(t, float64(want), float64(result.BestValue), 1e-9,
				"alpha beta value differs from minimax on %s depth %d", fen, depth)
		}
	}
}

func TestSearchOnStalematePosition(t *testing.T) {
	result := runSearch(t, "7k/5K2/6Q1/8/8/8/8/8 b - - 0 1", Limits{Depth: 3})
	assert.Equal(t, MoveNone, result.BestMove)
	assert.Equal(t, ValueDraw, result.BestValue)
}

func TestSearchOnMatePosition(t *testing.T) {
	result := runSearch(t, "R5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1", Limits{Depth: 3})
	assert.Equal(t, MoveNone, result.BestMove)
	assert.Equal(t, -ValueCheckMate, result.BestValue)
}

func TestNodeLimit(t *testing.T) {
	b, err := board.NewFen(board.StartFen)
	require.NoError(t, err)
	s := NewSearch()
	s.StartSearch(b, Limits{Depth: 20, Nodes: 500})
	s.WaitWhileSearching()
	result := s.LastSearchResult()
	assert.NotEqual(t, MoveNone, result.BestMove, "even a stopped search reports a best move")
	assert.LessOrEqual(t, s.NodesVisited(), uint64(600))
}

func TestStopBeforeFirstRootMoveCompletes(t *testing.T) {
	// a node limit of 1 trips inside the very first root move's
	// subtree - the result must still carry a usable value and no
	// bogus mate depth next to the fallback move
	b, err := board.NewFen(board.StartFen)
	require.NoError(t, err)
	s := NewSearch()
	s.StartSearch(b, Limits{Depth: 5, Nodes: 1})
	s.WaitWhileSearching()
	result := s.LastSearchResult()
	assert.NotEqual(t, MoveNone, result.BestMove)
	assert.NotEqual(t, ValueNA, result.BestValue)
	assert.False(t, result.BestValue.IsCheckMateValue())
	assert.Equal(t, 0, result.MateDepth)
}

func TestStopSearch(t *testing.T) {
	b, err := board.NewFen(board.StartFen)
	require.NoError(t, err)
	s := NewSearch()
	s.StartSearch(b, Limits{Infinite: true})
	time.Sleep(100 * time.Millisecond)
	assert.True(t, s.IsSearching())
	s.StopSearch()
	assert.False(t, s.IsSearching())
	result := s.LastSearchResult()
	assert.True(t, result.WasStopped)
	assert.NotEqual(t, MoveNone, result.BestMove)
}

func TestMoveTimeLimit(t *testing.T) {
	b, err := board.NewFen(board.StartFen)
	require.NoError(t, err)
	s := NewSearch()
	start := time.Now()
	s.StartSearch(b, Limits{MoveTime: 300 * time.Millisecond, TimeControl: true, Depth: 99})
	s.WaitWhileSearching()
	elapsed := time.Since(start)
	assert.Less(t, elapsed, 3*time.Second, "search must respect the move time")
	assert.NotEqual(t, MoveNone, s.LastSearchResult().BestMove)
}

func TestSearchMovesRestriction(t *testing.T) {
	b, err := board.NewFen(board.StartFen)
	require.NoError(t, err)
	s := NewSearch()
	limits := Limits{Depth: 2}
	limits.Moves.PushBack(MoveFromUci("a2a3"))
	limits.Moves.PushBack(MoveFromUci("h2h3"))
	s.StartSearch(b, limits)
	s.WaitWhileSearching()
	best := s.LastSearchResult().BestMove.StringUci()
	assert.Contains(t, []string{"a2a3", "h2h3"}, best)
}

func TestTablebaseIsConsulted(t *testing.T) {
	defer func(tt bool) { config.Settings.Search.UseTT = tt }(config.Settings.Search.UseTT)
	config.Settings.Search.UseTT = false

	b, err := board.NewFen("8/8/8/4k3/8/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)
	s := NewSearch()
	// wdl is from the perspective of the side to move: white wins
	s.SetProber(tablebase.ProbeFunc(func(fen string) (int, int, error) {
		if strings.Contains(fen, " b ") {
			return -2, -10, nil
		}
		return 2, 10, nil
	}))
	s.StartSearch(b, Limits{Depth: 2})
	s.WaitWhileSearching()
	assert.Greater(t, s.TbHits(), uint64(0))
	// the claimed win dominates any heuristic score
	assert.Greater(t, float64(s.LastSearchResult().BestValue), 500.0)
}

func TestTablebaseAbstainsOnError(t *testing.T) {
	b, err := board.NewFen("8/8/8/4k3/8/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)
	s := NewSearch()
	s.SetProber(tablebase.NopProber{})
	s.StartSearch(b, Limits{Depth: 2})
	s.WaitWhileSearching()
	assert.Equal(t, uint64(0), s.TbHits())
	assert.NotEqual(t, MoveNone, s.LastSearchResult().BestMove)
}

func TestDrawPositionScoresZero(t *testing.T) {
	// a threefold repetition latched before the search starts scores 0
	b := board.New()
	shuffle := []string{"b1c3", "b8c6", "c3b1", "c6b8"}
	for i := 0; i < 2; i++ {
		for _, uci := range shuffle {
			require.NoError(t, b.MakeMove(MoveFromUci(uci)))
		}
	}
	require.True(t, b.HasDrawSentinel())

	s := NewSearch()
	s.StartSearch(b, Limits{Depth: 2})
	s.WaitWhileSearching()
	assert.Equal(t, ValueDraw, s.LastSearchResult().BestValue)
}
