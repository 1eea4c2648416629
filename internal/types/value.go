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

package types

import (
	"fmt"
	"math"
	"strconv"
)

// Value represents the evaluation of a chess position in pawn units
// from the perspective defined by the caller (white-positive for the
// static evaluation, side-to-move relative within the search).
// Evaluation weights and tablebase score shaping are fractional which
// is why this is a floating point type.
type Value float64

// Constants for values
const (
	ValueDraw      Value = 0
	ValueCheckMate Value = 1_000_000
	// ValueCheckMateThreshold separates mate scores (checkmate score
	// plus/minus the depth perturbation) from heuristic scores
	ValueCheckMateThreshold Value = ValueCheckMate / 2
	// ValueNA marks an unset value
	ValueNA Value = -9e18
	// MaxDepth is the maximum search depth supported
	MaxDepth int = 128
)

// ValueMin is the lower bound of the alpha beta window
var ValueMin = Value(math.Inf(-1))

// ValueMax is the upper bound of the alpha beta window
var ValueMax = Value(math.Inf(1))

// IsCheckMateValue returns true if the value encodes a forced mate.
// ValueNA only means "unset" and is never a mate value.
func (v Value) IsCheckMateValue() bool {
	if v == ValueNA {
		return false
	}
	a := v
	if a < 0 {
		a = -a
	}
	return a >= ValueCheckMateThreshold && !math.IsInf(float64(v), 0)
}

// String returns the value as a UCI score string, either
// "cp <centipawns>" or "mate <moves>" for mate scores.
func (v Value) String() string {
	if v == ValueNA {
		return "N/A"
	}
	if v.IsCheckMateValue() {
		return fmt.Sprintf("mate %d", v.MateIn())
	}
	return "cp " + strconv.Itoa(int(math.Round(float64(v)*100)))
}

// MateIn returns the number of moves (not plies) until mate for a
// mate value. Negative when the side to move is getting mated.
func (v Value) MateIn() int {
	plies := v.PliesToMate()
	if plies < 0 {
		return -((-plies + 1) / 2)
	}
	return (plies + 1) / 2
}

// PliesToMate returns the number of plies until mate encoded in a
// mate value. Negative when the side to move is getting mated.
func (v Value) PliesToMate() int {
	if v > 0 {
		return int(math.Round(float64(ValueCheckMate - v)))
	}
	return -int(math.Round(float64(ValueCheckMate + v)))
}
