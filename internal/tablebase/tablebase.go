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

// Package tablebase defines the endgame tablebase surface the search
// consumes: a prober delivering win-draw-loss and distance-to-zeroing
// values for positions with less than 6 pieces and the translation of
// those values into search scores.
//
// The prober is an oracle that may abstain: any probe error makes the
// search fall back to the static evaluation.
package tablebase

import (
	"errors"

	. "github.com/mklemm/ChariotGo/internal/types"
)

// ErrNotAvailable is returned when no tablebase data exists for the
// position.
var ErrNotAvailable = errors.New("tablebase: position not available")

// MaxPieces is the exclusive piece count bound for probing: only
// positions with fewer pieces are tablebase eligible.
const MaxPieces = 6

// Prober delivers wdl in -2..2 (side to move perspective) and dtz for
// a position given as FEN.
type Prober interface {
	Probe(fen string) (wdl int, dtz int, err error)
}

// ProbeFunc adapts a plain function to the Prober interface.
type ProbeFunc func(fen string) (int, int, error)

// Probe implements Prober
func (f ProbeFunc) Probe(fen string) (int, int, error) {
	return f(fen)
}

// NopProber abstains on every probe.
type NopProber struct{}

// Probe implements Prober
func (NopProber) Probe(string) (int, int, error) {
	return 0, 0, ErrNotAvailable
}

// Score translates tablebase values into a side to move relative
// search score comparable to heuristic evaluations of positions with
// 6 or more pieces.
//
// The 1000 offset lifts decisive tablebase scores above any possible
// material evaluation. The winning side prefers a smaller absolute
// dtz (nudging toward the zeroing move and mate), the losing side a
// larger one (nudging toward the 50 move rule). Repetitions of the
// current position push the score toward the draw outcome via the
// repeat adjustment.
//
// wdl == 0 is not handled here: a tablebase draw is scored by the
// search as "at least as good as the claim" using the board
// evaluation.
func Score(wdl int, dtz int, halfMoveClock int, repetitions int) Value {
	// moves already played against the 50 move rule count against the
	// distance to the zeroing move
	if dtz > 0 {
		dtz += halfMoveClock
	} else {
		dtz -= halfMoveClock
	}

	repeatAdjust := 30 * repetitions
	if dtz < 0 {
		repeatAdjust = -repeatAdjust
	}

	switch {
	case wdl == 1 || wdl == -1: // cursed win / blessed loss
		return Value(wdl)*1000 + 99900/Value(dtz+repeatAdjust)
	case wdl == 2 || wdl == -2: // clean win / loss
		return Value(wdl)*1000 + 990/Value(dtz+repeatAdjust)
	default:
		return ValueDraw
	}
}
