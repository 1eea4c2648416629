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

package evaluator

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklemm/ChariotGo/internal/board"
	"github.com/mklemm/ChariotGo/internal/config"
	. "github.com/mklemm/ChariotGo/internal/types"
)

func TestMain(m *testing.M) {
	config.Setup()
	os.Exit(m.Run())
}

func TestStartPositionIsBalanced(t *testing.T) {
	e := NewEvaluator()
	b := board.New()
	assert.Equal(t, Value(0), e.Evaluate(b))
}

func TestMaterial(t *testing.T) {
	e := NewEvaluator()
	// white has an extra queen
	b, err := board.NewFen("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, Value(9), e.material(b))

	// black has rook and pawn for a knight
	b, err = board.NewFen("r3k3/p7/8/8/8/8/8/1N2K3 w - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, Value(3-5-1), e.material(b))
}

func TestPawnStructureDoubledAndIsolated(t *testing.T) {
	e := NewEvaluator()
	// white: doubled pawns on c-file, both isolated; black: healthy
	// connected pawns on f7 g7
	b, err := board.NewFen("4k3/5pp1/8/8/8/2P5/2P5/4K3 w - - 0 1")
	require.NoError(t, err)
	// doubled: +1, isolated: +2, blocked: +1 (c2 pawn blocked by c3),
	// passed: +1 white (the c-file counts once per file), -2 black (the
	// f/g pawns are passed too, no white pawns on e-h)
	// doubled(1) + isolated(2) + blocked(1) - passed(1-2=-1) = 5
	assert.Equal(t, Value(5), e.pawnStructure(b))
}

func TestCheckmateEvaluation(t *testing.T) {
	e := NewEvaluator()
	// back rank mate - black is mated, white positive maximum
	b, err := board.NewFen("R5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1")
	require.NoError(t, err)
	assert.True(t, b.IsCheckMate())
	assert.Equal(t, ValueCheckMate, e.Evaluate(b))
}

func TestStalemateEvaluation(t *testing.T) {
	e := NewEvaluator()
	b, err := board.NewFen("7k/5K2/6Q1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	assert.True(t, b.IsStaleMate())
	assert.Equal(t, Value(0), e.Evaluate(b))
}

func TestAttackPressureHangingPiece(t *testing.T) {
	e := NewEvaluator()
	// the black knight on d5 is attacked by the rook d1 and not
	// defended; black to move discounts 95% of its highest hanging
	// piece so the penalty nearly vanishes for the side to move
	b, err := board.NewFen("4k3/8/8/3n4/8/8/8/3RK3 b - - 0 1")
	require.NoError(t, err)
	black := e.attackPressureFor(b, Black)
	assert.InDelta(t, 3-0.95*3, float64(black), 1e-9)

	// same position with white to move: black's knight counts fully
	b2, err := board.NewFen("4k3/8/8/3n4/8/8/8/3RK3 w - - 0 1")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, float64(e.attackPressureFor(b2, Black)), 1e-9)
	assert.InDelta(t, 0.0, float64(e.attackPressureFor(b2, White)), 1e-9)
}

func TestEvaluationIsWhitePositive(t *testing.T) {
	e := NewEvaluator()
	// white up a rook in a quiet position
	b, err := board.NewFen("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)
	assert.Greater(t, float64(e.Evaluate(b)), 0.0)

	// mirrored for black
	b, err = board.NewFen("r3k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.Less(t, float64(e.Evaluate(b)), 0.0)
}
