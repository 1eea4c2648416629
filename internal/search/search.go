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

// Package search implements the alpha beta search of the engine with
// quiescence, move ordering, transposition memoization, tablebase
// probing and time, depth and node governance.
//
// The search runs on a single worker goroutine with strictly nested
// make/unmake pairs. A controller thread may set the stop flag at any
// time, it is polled at every node entry and the pending recursion
// unwinds through the normal alpha beta return path producing the
// best move found so far.
package search

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/op/go-logging"

	"github.com/mklemm/ChariotGo/internal/board"
	"github.com/mklemm/ChariotGo/internal/config"
	"github.com/mklemm/ChariotGo/internal/evaluator"
	myLogging "github.com/mklemm/ChariotGo/internal/logging"
	"github.com/mklemm/ChariotGo/internal/moveslice"
	"github.com/mklemm/ChariotGo/internal/openingbook"
	"github.com/mklemm/ChariotGo/internal/tablebase"
	"github.com/mklemm/ChariotGo/internal/transpositiontable"
	. "github.com/mklemm/ChariotGo/internal/types"
	"github.com/mklemm/ChariotGo/internal/uciInterface"
	"github.com/mklemm/ChariotGo/internal/util"
)

var out = message.NewPrinter(language.English)

// timePadding is subtracted from computed time budgets to account for
// the runtime of the surrounding code
const timePadding = 50 * time.Millisecond

// minTimeBudget is the floor for any computed time budget
const minTimeBudget = 100 * time.Millisecond

// Search represents the data structure for a chess engine search.
// Create a new instance with NewSearch().
type Search struct {
	log *logging.Logger

	uciHandlerPtr uciInterface.UciDriver
	initSemaphore *semaphore.Weighted
	isRunning     *semaphore.Weighted

	book   *openingbook.Book
	tt     *transpositiontable.TtTable
	eval   *evaluator.Evaluator
	prober tablebase.Prober

	// previous search
	lastSearchResult *Result
	hadDrawSentinel  bool

	// current search state
	stopFlag        *util.Bool
	ponderHit       *util.Bool
	startTime       time.Time
	hasResult       bool
	currentPosition *board.Board
	searchLimits    *Limits
	timeLimit       time.Duration
	nodesVisited    uint64
	tbHits          uint64
	rootMoves       moveslice.MoveSlice
	rootValues      []Value
	pv              []*moveslice.MoveSlice
	lastUciUpdate   time.Time
	statistics      Statistics
}

// NewSearch creates a new Search instance. If no uci handler is set
// all output will be sent to the log.
func NewSearch() *Search {
	return &Search{
		log:           myLogging.GetSearchLog(),
		initSemaphore: semaphore.NewWeighted(1),
		isRunning:     semaphore.NewWeighted(1),
		eval:          evaluator.NewEvaluator(),
		stopFlag:      util.NewBool(false),
		ponderHit:     util.NewBool(false),
	}
}

// NewGame stops any running search and resets the search state to be
// ready for a different game. Caches are cleared.
func (s *Search) NewGame() {
	s.StopSearch()
	if s.tt != nil {
		s.tt.Clear()
	}
	s.lastSearchResult = nil
	s.hasResult = false
	s.hadDrawSentinel = false
}

// SetProber sets the endgame tablebase prober consulted for positions
// with less than 6 pieces.
func (s *Search) SetProber(p tablebase.Prober) {
	s.prober = p
}

// SetUciHandler sets the UCI handler to communicate with the
// UCI user interface. If not set output will be sent to the log.
func (s *Search) SetUciHandler(uciHandler uciInterface.UciDriver) {
	s.uciHandlerPtr = uciHandler
}

// IsReady initializes the search (book, transposition table) and
// signals the uciHandler with "readyok".
func (s *Search) IsReady() {
	s.initialize()
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendReadyOk()
	} else {
		s.log.Debug("uci >> readyok")
	}
}

// StartSearch starts the search on the given position with the given
// search limits in a separate goroutine. Search can be stopped with
// StopSearch. This takes a copy of the position.
func (s *Search) StartSearch(p *board.Board, sl Limits) {
	_ = s.initSemaphore.Acquire(context.TODO(), 1)
	s.currentPosition = p.Copy()
	s.searchLimits = &sl
	go s.run(s.currentPosition, &sl)
	// wait until the search is running and initialization is done
	// before returning to the caller
	_ = s.initSemaphore.Acquire(context.TODO(), 1)
	s.initSemaphore.Release(1)
}

// StopSearch stops a running search as quickly as possible. The
// search stops gracefully and a result will be sent to UCI. Stop is
// idempotent. This waits for the search to be finished.
func (s *Search) StopSearch() {
	s.stopFlag.Store(true)
	s.WaitWhileSearching()
}

// PonderHit transitions a pondering search to a normally timed
// search without interrupting it.
func (s *Search) PonderHit() {
	if s.IsSearching() && s.searchLimits.Ponder {
		s.log.Debug("Ponderhit during search - activating time control")
		s.ponderHit.Store(true)
		return
	}
	s.log.Warning("Ponderhit received while not pondering")
}

// IsSearching checks if the search is running
func (s *Search) IsSearching() bool {
	if !s.isRunning.TryAcquire(1) {
		return true
	}
	s.isRunning.Release(1)
	return false
}

// WaitWhileSearching blocks until a running search has stopped
func (s *Search) WaitWhileSearching() {
	_ = s.isRunning.Acquire(context.TODO(), 1)
	s.isRunning.Release(1)
}

// LastSearchResult returns a copy of the last search result
func (s *Search) LastSearchResult() Result {
	if s.lastSearchResult == nil {
		return Result{}
	}
	return *s.lastSearchResult
}

// HasResult returns whether a search has completed and produced a
// result since the last NewGame.
func (s *Search) HasResult() bool {
	return s.hasResult
}

// NodesVisited returns the number of visited nodes in the last search
func (s *Search) NodesVisited() uint64 {
	return s.nodesVisited
}

// TbHits returns the number of tablebase probes which returned a
// result in the last search.
func (s *Search) TbHits() uint64 {
	return s.tbHits
}

// Statistics returns a pointer to the search statistics
func (s *Search) Statistics() *Statistics {
	return &s.statistics
}

// ClearHash clears the transposition table.
// Is ignored with a warning while searching.
func (s *Search) ClearHash() {
	if s.IsSearching() {
		msg := "Can't clear hash while searching."
		s.sendInfoStringToUci(msg)
		s.log.Warning(msg)
		return
	}
	if s.tt != nil {
		s.tt.Clear()
		s.sendInfoStringToUci("Hash cleared")
	}
}

// ResizeCache resizes and clears the transposition table.
// Is ignored with a warning while searching.
func (s *Search) ResizeCache() {
	if s.IsSearching() {
		msg := "Can't resize hash while searching."
		s.sendInfoStringToUci(msg)
		s.log.Warning(msg)
		return
	}
	s.tt = nil
	s.initialize()
	s.log.Debug(util.GcWithStats())
}

// //////////////////////////////////////////////////////
// // Private
// //////////////////////////////////////////////////////

// run is called by StartSearch in a separate goroutine. It runs the
// actual search until a search limit is reached or the search has
// been stopped.
func (s *Search) run(p *board.Board, sl *Limits) {
	if !s.isRunning.TryAcquire(1) {
		s.log.Error("Search already running")
		return
	}
	defer s.isRunning.Release(1)

	s.startTime = time.Now()
	s.log.Infof("Searching: %s", p.StringFen())

	// init new search run
	s.stopFlag.Store(false)
	s.ponderHit.Store(false)
	s.hasResult = false
	s.timeLimit = 0
	s.nodesVisited = 0
	s.tbHits = 0
	s.statistics = Statistics{}
	s.lastUciUpdate = s.startTime
	s.initialize()

	// the transposition table must not survive into a search which
	// straddles a draw sentinel: a position that was not drawn in the
	// previous search may be drawn now after repetition increments
	if s.tt != nil && (s.hadDrawSentinel || p.HasDrawSentinel()) {
		s.log.Debug("Draw sentinel straddled - clearing transposition table")
		s.tt.Clear()
	}
	s.hadDrawSentinel = p.HasDrawSentinel()

	s.setupSearchLimits(p, sl)
	if sl.TimeControl && !sl.Ponder {
		s.startTimer()
	}

	// check for an opening book move when in a time controlled game
	bookMove := MoveNone
	if s.book != nil && sl.TimeControl && sl.Moves.Len() == 0 {
		bookMove = s.book.BestMove(p.StringFen())
		if bookMove != MoveNone && !p.LegalMoves(p.NextPlayer()).Contains(bookMove) {
			bookMove = MoveNone
		}
	}

	// release the init phase lock to signal the calling goroutine
	// waiting in StartSearch to return
	s.initSemaphore.Release(1)

	var result *Result
	if bookMove != MoveNone {
		s.log.Debugf("Opening book: playing book move %s", bookMove.StringUci())
		result = &Result{BestMove: bookMove, BookMove: true}
	} else {
		result = s.iterativeDeepening(p, sl)
	}

	// in ponder or infinite mode the result is only sent after an
	// external stop or a ponderhit
	if (sl.Ponder || sl.Infinite) && !s.stopFlag.Load() && !s.ponderHit.Load() {
		s.log.Debug("Search finished before stop or ponderhit - waiting")
		for !s.stopFlag.Load() && !s.ponderHit.Load() {
			time.Sleep(5 * time.Millisecond)
		}
	}

	result.SearchTime = time.Since(s.startTime)
	result.WasStopped = s.stopFlag.Load()

	s.lastSearchResult = result
	s.hasResult = true
	s.hadDrawSentinel = s.hadDrawSentinel || p.HasDrawSentinel()

	// make sure the timer goroutine terminates
	s.stopFlag.Store(true)

	s.log.Info(out.Sprintf("Search finished after %s: depth %d(%d) nodes %d nps %d tbhits %d",
		result.SearchTime, result.SearchDepth, result.ExtraDepth, s.nodesVisited,
		util.Nps(s.nodesVisited, result.SearchTime), s.tbHits))
	s.log.Infof("Search result: %s", result.String())

	s.sendResult(result)
}

// iterativeDeepening runs depth iterations upward until the depth
// limit or a stop condition is reached, always retaining the best
// result across depths: if the deepest search was terminated early
// and produced a worse score than a prior iteration, the prior result
// wins.
func (s *Search) iterativeDeepening(p *board.Board, sl *Limits) *Result {
	// generate root moves, possibly restricted by searchmoves
	legal := p.LegalMoves(p.NextPlayer())
	s.rootMoves = nil
	for _, m := range *legal {
		if sl.Moves.Len() == 0 || sl.Moves.Contains(m) {
			s.rootMoves = append(s.rootMoves, m)
		}
	}

	if len(s.rootMoves) == 0 {
		if p.HasCheck(p.NextPlayer()) {
			s.statistics.Checkmates++
			s.sendInfoStringToUci("Search called on a mate position")
			return &Result{BestValue: -ValueCheckMate}
		}
		s.statistics.Stalemates++
		s.sendInfoStringToUci("Search called on a stalemate position")
		return &Result{BestValue: ValueDraw}
	}

	s.rootValues = make([]Value, len(s.rootMoves))
	for i := range s.rootValues {
		s.rootValues[i] = ValueNA
	}

	// pv lists per ply
	s.pv = make([]*moveslice.MoveSlice, MaxDepth+2)
	for i := range s.pv {
		s.pv[i] = moveslice.NewMoveSlice(MaxDepth + 1)
	}

	maxDepth := config.Settings.Search.MaxDepth
	if sl.Depth > 0 {
		maxDepth = sl.Depth
	}
	if sl.Infinite || sl.Ponder {
		maxDepth = MaxDepth
	}

	result := &Result{BestValue: ValueNA}

	for depth := 1; depth <= maxDepth; depth++ {
		s.statistics.CurrentIterationDepth = depth
		if s.statistics.CurrentExtraSearchDepth < depth {
			s.statistics.CurrentExtraSearchDepth = depth
		}

		s.rootSearch(p, depth)
		// the line of the iteration is complete, publish the depth
		// only afterwards so info readers never see a line deeper
		// than the published depth
		s.statistics.CurrentSearchDepth = depth

		completed := !s.stopConditions()
		value := ValueNA
		if s.pv[0].Len() > 0 {
			s.statistics.CurrentBestRootMove = s.pv[0].At(0)
			for i, m := range s.rootMoves {
				if m == s.pv[0].At(0) {
					value = s.rootValues[i]
					break
				}
			}
		}

		// retain the best result across depths
		if s.pv[0].Len() > 0 && (completed || value > result.BestValue || result.BestMove == MoveNone) {
			result.BestMove = s.pv[0].At(0)
			result.BestValue = value
			result.SearchDepth = depth
			result.ExtraDepth = s.statistics.CurrentExtraSearchDepth
			result.Pv = *s.pv[0].Clone()
			if s.pv[0].Len() > 1 {
				result.PonderMove = s.pv[0].At(1)
			}
			s.statistics.CurrentBestRootMoveValue = value
		}

		if s.stopConditions() {
			break
		}

		s.sendIterationEndInfoToUci()

		// mate limit: a forced mate within the requested depth
		// terminates the search early
		if sl.Mate > 0 && result.BestValue.IsCheckMateValue() {
			if plies := result.BestValue.PliesToMate(); plies > 0 && plies <= 2*sl.Mate {
				result.MateDepth = plies
				s.log.Debugf("Found mate in %d plies - stopping early", plies)
				break
			}
		}

		// a ponderhit ends the iteration loop after the running depth
		// and applies a regular time budget for the remainder
		if s.ponderHit.Load() && s.searchLimits.Ponder {
			s.searchLimits.Ponder = false
			s.setupTimeControl(p, s.searchLimits)
			if s.searchLimits.TimeControl {
				s.startTimer()
			}
		}

		// only one legal move - no point in searching deeper
		if len(s.rootMoves) == 1 && sl.TimeControl {
			break
		}

		// sort root moves by the values of this iteration for the
		// next iteration
		s.sortRootMoves()
	}

	if result.BestMove == MoveNone && len(s.rootMoves) > 0 {
		// stopped before the first root move finished - report the
		// first root move with the static evaluation so the result
		// never carries an unset value next to a real move
		result.BestMove = s.rootMoves[0]
		result.BestValue = s.evaluateSide(p)
	}
	if result.BestValue != ValueNA && result.BestValue.IsCheckMateValue() {
		if plies := result.BestValue.PliesToMate(); plies > 0 {
			result.MateDepth = plies
		}
	}
	return result
}

// sortRootMoves sorts rootMoves and rootValues in descending value
// order (stable to keep the generation order of equal moves).
func (s *Search) sortRootMoves() {
	idx := make([]int, len(s.rootMoves))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.rootValues[idx[a]] > s.rootValues[idx[b]]
	})
	moves := make(moveslice.MoveSlice, len(s.rootMoves))
	values := make([]Value, len(s.rootValues))
	for i, j := range idx {
		moves[i] = s.rootMoves[j]
		values[i] = s.rootValues[j]
	}
	s.rootMoves = moves
	s.rootValues = values
}

// initialize sets up the opening book and the transposition table.
// Can be called several times without doing the initialization again.
func (s *Search) initialize() {
	if config.Settings.Search.UseBook && s.book == nil {
		book, err := openingbook.Open(config.Settings.Search.BookDb)
		if err != nil {
			s.log.Warningf("Opening book could not be opened: %s", err)
		} else {
			s.book = book
		}
	}
	if config.Settings.Search.UseTT {
		if s.tt == nil {
			sizeInMByte := config.Settings.Search.TTSize
			if sizeInMByte == 0 {
				sizeInMByte = 64
			}
			s.tt = transpositiontable.NewTtTable(sizeInMByte)
		}
	} else {
		s.tt = nil
	}
	if config.Settings.Search.UseTB && s.prober == nil {
		s.prober = tablebase.NopProber{}
	}
}

// stopConditions checks the stop flag and the node limit
func (s *Search) stopConditions() bool {
	if s.stopFlag.Load() {
		return true
	}
	if s.searchLimits.Nodes > 0 && s.nodesVisited >= s.searchLimits.Nodes {
		s.stopFlag.Store(true)
	}
	return s.stopFlag.Load()
}

// setupSearchLimits reports the search limits to the log and sets up
// time control.
func (s *Search) setupSearchLimits(p *board.Board, sl *Limits) {
	if sl.Infinite {
		s.log.Info("Search mode: Infinite")
	}
	if sl.Ponder {
		s.log.Info("Search mode: Ponder")
	}
	if sl.Mate > 0 {
		s.log.Infof("Search mode: Search for mate in %d", sl.Mate)
	}
	if sl.TimeControl {
		s.setupTimeControl(p, sl)
		if sl.MoveTime > 0 {
			s.log.Infof("Search mode: Time controlled: Time per move %s", sl.MoveTime)
		} else {
			s.log.Info(out.Sprintf("Search mode: Time controlled: White = %s (inc %s) Black = %s (inc %s) Moves to go: %d",
				sl.WhiteTime, sl.WhiteInc, sl.BlackTime, sl.BlackInc, sl.MovesToGo))
			s.log.Info(out.Sprintf("Search mode: Time limit: %s", s.timeLimit))
		}
	} else {
		s.log.Info("Search mode: No time control")
	}
	if sl.Depth > 0 {
		s.log.Debugf("Search mode: Depth limited: %d", sl.Depth)
	}
	if sl.Nodes > 0 {
		s.log.Infof(out.Sprintf("Search mode: Nodes limited: %d", sl.Nodes))
	}
	if sl.Moves.Len() > 0 {
		s.log.Infof(out.Sprintf("Search mode: Moves limited: %s", sl.Moves.StringUci()))
	}
}

// setupTimeControl computes the time budget for the search: an
// explicit move time is used as is (minus padding), otherwise the
// remaining time is divided over the expected number of moves plus
// increments. The budget never falls below the minimum.
func (s *Search) setupTimeControl(p *board.Board, sl *Limits) {
	if sl.MoveTime > 0 {
		sl.TimeControl = true
		s.timeLimit = sl.MoveTime - timePadding
		if s.timeLimit < minTimeBudget {
			s.timeLimit = minTimeBudget
		}
		return
	}
	var sideTime, sideInc time.Duration
	switch p.NextPlayer() {
	case White:
		sideTime, sideInc = sl.WhiteTime, sl.WhiteInc
	case Black:
		sideTime, sideInc = sl.BlackTime, sl.BlackInc
	}
	if sideTime == 0 {
		sl.TimeControl = false
		return
	}
	divider := int64(sl.MovesToGo)
	if divider == 0 {
		divider = 40 // estimated moves until game end
	}
	budget := time.Duration((sideTime.Nanoseconds() + divider*sideInc.Nanoseconds()) / divider)
	budget -= timePadding
	if budget < minTimeBudget {
		budget = minTimeBudget
	}
	sl.TimeControl = true
	s.timeLimit = budget
}

// startTimer starts a goroutine which checks the elapsed time against
// the time limit and sets the stop flag when it is reached.
func (s *Search) startTimer() {
	go func() {
		timerStart := time.Now()
		s.log.Debugf("Timer started with time limit of %s", s.timeLimit)
		for time.Since(timerStart) < s.timeLimit && !s.stopFlag.Load() {
			time.Sleep(5 * time.Millisecond)
		}
		if !s.stopFlag.Load() {
			s.log.Debugf("Timer stops search after %s", time.Since(timerStart))
			s.stopFlag.Store(true)
		}
	}()
}

// sendResult sends the search result to the uci handler if available.
// The callback is invoked exactly once per search.
func (s *Search) sendResult(result *Result) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendResult(result.BestMove, result.PonderMove)
	}
}

func (s *Search) sendInfoStringToUci(msg string) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendInfoString(msg)
	}
}

// sendSearchUpdateToUci sends a periodic info update, at most once a
// second.
func (s *Search) sendSearchUpdateToUci() {
	if time.Since(s.lastUciUpdate) < time.Second {
		return
	}
	s.lastUciUpdate = time.Now()
	hashfull := 0
	if s.tt != nil {
		hashfull = s.tt.Hashfull()
	}
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendSearchUpdate(
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime),
			hashfull)
		s.uciHandlerPtr.SendCurrentRootMove(s.statistics.CurrentRootMove, s.statistics.CurrentRootMoveIndex)
		s.uciHandlerPtr.SendCurrentLine(s.statistics.CurrentVariation)
	}
}

// sendIterationEndInfoToUci sends info after each completed depth
// iteration.
func (s *Search) sendIterationEndInfoToUci() {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendIterationEndInfo(
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.statistics.CurrentBestRootMoveValue,
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime),
			s.tbHits,
			*s.pv[0])
	} else {
		s.log.Info(out.Sprintf("depth %d seldepth %d value %s nodes %d nps %d time %d pv %s",
			s.statistics.CurrentSearchDepth,
			s.statistics.CurrentExtraSearchDepth,
			s.statistics.CurrentBestRootMoveValue.String(),
			s.nodesVisited,
			s.getNps(),
			time.Since(s.startTime).Milliseconds(),
			s.pv[0].StringUci()))
	}
}

// getNps calculates the current nodes per second relative to the
// start time, limited to a sane value for very short times.
func (s *Search) getNps() uint64 {
	nps := util.Nps(s.nodesVisited, time.Since(s.startTime)+100)
	if nps > 15_000_000 {
		nps = 0
	}
	return nps
}
