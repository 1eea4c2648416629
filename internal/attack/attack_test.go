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

package attack

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/mklemm/ChariotGo/internal/types"
)

func TestTableAddRemoveAttacker(t *testing.T) {
	table := NewTable()
	assert.False(t, table.IsAttackedBy(White, SqE4))

	table.AddAttacker(SqE4, White, Rook, SqE1)
	table.AddAttacker(SqE4, White, Knight, SqD2)
	assert.True(t, table.IsAttackedBy(White, SqE4))
	assert.False(t, table.IsAttackedBy(Black, SqE4))
	assert.Equal(t, 2, table.AllAttackers(SqE4, White).PopCount())
	assert.True(t, table.Attackers(SqE4, White, Rook).Has(SqE1))

	table.RemoveAttacker(SqE4, White, Rook, SqE1)
	assert.True(t, table.IsAttackedBy(White, SqE4))
	table.RemoveAttacker(SqE4, White, Knight, SqD2)

	// empty buckets must yield a correct negative
	assert.False(t, table.IsAttackedBy(White, SqE4))
	assert.Equal(t, BbNone, table.AllAttackers(SqE4, White))
}

func TestTableRemoveMissingAttackerPanics(t *testing.T) {
	table := NewTable()
	assert.Panics(t, func() {
		table.RemoveAttacker(SqE4, White, Rook, SqE1)
	})
}

func TestTableSliderAttackers(t *testing.T) {
	table := NewTable()
	table.AddAttacker(SqE4, Black, Bishop, SqH7)
	table.AddAttacker(SqE4, Black, Queen, SqE8)
	table.AddAttacker(SqE4, Black, Knight, SqF6)
	sliders := table.SliderAttackers(SqE4, Black)
	assert.Equal(t, 2, sliders.PopCount())
	assert.True(t, sliders.Has(SqH7))
	assert.True(t, sliders.Has(SqE8))
	assert.False(t, sliders.Has(SqF6))
}

func TestPieceIndexAddUpdateRemove(t *testing.T) {
	pi := NewPieceIndex()
	ai := ActionInfo{}
	ai.Attacked.PushSquare(SqE4)

	pi.Add(WhiteRook, SqE1, ai)
	assert.Equal(t, 1, pi.Count())
	assert.Equal(t, 1, pi.CountOf(Rook, White))

	got, ok := pi.Get(WhiteRook, SqE1)
	assert.True(t, ok)
	assert.True(t, got.Attacked.Has(SqE4))

	ai2 := ActionInfo{}
	ai2.ValidMoves.PushSquare(SqE2)
	pi.Update(WhiteRook, SqE1, ai2)
	got, _ = pi.Get(WhiteRook, SqE1)
	assert.True(t, got.ValidMoves.Has(SqE2))
	assert.False(t, got.Attacked.Has(SqE4))

	pi.Remove(WhiteRook, SqE1)
	assert.Equal(t, 0, pi.Count())
	_, ok = pi.Get(WhiteRook, SqE1)
	assert.False(t, ok)
}

func TestPieceIndexProgrammingErrors(t *testing.T) {
	pi := NewPieceIndex()
	pi.Add(WhiteRook, SqE1, ActionInfo{})
	assert.Panics(t, func() { pi.Add(WhiteRook, SqE1, ActionInfo{}) })
	assert.Panics(t, func() { pi.Update(WhiteRook, SqE2, ActionInfo{}) })
	assert.Panics(t, func() { pi.Remove(WhiteRook, SqE2) })
}

func TestPieceIndexKingSquare(t *testing.T) {
	pi := NewPieceIndex()
	pi.Add(WhiteKing, SqE1, ActionInfo{})
	pi.Add(BlackKing, SqE8, ActionInfo{})
	assert.Equal(t, SqE1, pi.KingSquare(White))
	assert.Equal(t, SqE8, pi.KingSquare(Black))

	pi.Add(WhiteKing, SqD1, ActionInfo{})
	assert.Panics(t, func() { pi.KingSquare(White) })
}

func TestPieceIndexLocations(t *testing.T) {
	pi := NewPieceIndex()
	pi.Add(WhitePawn, SqA2, ActionInfo{})
	pi.Add(WhitePawn, SqB2, ActionInfo{})
	assert.ElementsMatch(t, []Square{SqA2, SqB2}, pi.Locations(Pawn, White))
	assert.Empty(t, pi.Locations(Pawn, Black))
}
