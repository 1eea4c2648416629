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
	"github.com/mklemm/ChariotGo/internal/moveslice"
	. "github.com/mklemm/ChariotGo/internal/types"
)

// Statistics are extra data and stats not essential for a functioning
// search. The Current* fields feed the UCI info snapshots: depth is
// published after the line mutation completes so a reader never sees
// a line deeper than the published depth.
type Statistics struct {
	BetaCuts     uint64
	BetaCuts1st  uint64
	StandpatCuts uint64
	DeltaCuts    uint64

	Evaluations uint64
	TTHit       uint64
	TTMiss      uint64
	TTCuts      uint64
	TbHits      uint64

	Checkmates uint64
	Stalemates uint64
	DrawScores uint64

	CurrentIterationDepth    int
	CurrentSearchDepth       int
	CurrentExtraSearchDepth  int
	CurrentVariation         moveslice.MoveSlice
	CurrentRootMoveIndex     int
	CurrentRootMove          Move
	CurrentBestRootMove      Move
	CurrentBestRootMoveValue Value
}

func (s *Statistics) String() string {
	return out.Sprintf("%+v", *s)
}
