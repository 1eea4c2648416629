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

package tablebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreDominatesMaterial(t *testing.T) {
	// any decisive tablebase score must be larger than any possible
	// material evaluation (bounded by roughly 103 pawn units)
	assert.Greater(t, float64(Score(2, 10, 0, 1)), 200.0)
	assert.Less(t, float64(Score(-2, -10, 0, 1)), -200.0)
	assert.Greater(t, float64(Score(1, 150, 0, 1)), 200.0)
	assert.Less(t, float64(Score(-1, -150, 0, 1)), -200.0)
}

func TestScorePrefersFasterWin(t *testing.T) {
	// the winning side prefers smaller distance to the zeroing move
	assert.Greater(t, float64(Score(2, 4, 0, 1)), float64(Score(2, 20, 0, 1)))
	assert.Greater(t, float64(Score(1, 110, 0, 1)), float64(Score(1, 180, 0, 1)))
}

func TestScorePrefersSlowerLoss(t *testing.T) {
	// the losing side prefers larger distance (more chances for the
	// 50 move rule)
	assert.Greater(t, float64(Score(-2, -20, 0, 1)), float64(Score(-2, -4, 0, 1)))
}

func TestScoreCleanWinBeatsCursedWin(t *testing.T) {
	assert.Greater(t, float64(Score(2, 50, 0, 1)), float64(Score(1, 110, 0, 1)))
}

func TestScoreHalfMoveClockCountsAgainstWin(t *testing.T) {
	// moves already played against the 50 move rule reduce the win
	// score
	assert.Greater(t, float64(Score(2, 10, 0, 1)), float64(Score(2, 10, 40, 1)))
}

func TestScoreRepetitionsPushTowardDraw(t *testing.T) {
	assert.Greater(t, float64(Score(2, 10, 0, 1)), float64(Score(2, 10, 0, 2)))
}

func TestScoreDraw(t *testing.T) {
	assert.Equal(t, 0.0, float64(Score(0, 0, 0, 1)))
}

func TestNopProberAbstains(t *testing.T) {
	_, _, err := NopProber{}.Probe("8/8/8/8/8/8/8/K6k w - - 0 1")
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestProbeFunc(t *testing.T) {
	p := ProbeFunc(func(fen string) (int, int, error) {
		return 2, 12, nil
	})
	wdl, dtz, err := p.Probe("any")
	assert.NoError(t, err)
	assert.Equal(t, 2, wdl)
	assert.Equal(t, 12, dtz)
}
