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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateMove(t *testing.T) {
	m := CreateMove(SqE2, SqE4, PtNone)
	assert.Equal(t, SqE2, m.From())
	assert.Equal(t, SqE4, m.To())
	assert.Equal(t, PtNone, m.PromotionType())
	assert.True(t, m.IsValid())

	m = CreateMove(SqE7, SqE8, Queen)
	assert.Equal(t, Queen, m.PromotionType())
	assert.True(t, m.IsValid())
}

func TestMoveValidity(t *testing.T) {
	assert.False(t, MoveNone.IsValid())
	assert.False(t, CreateMove(SqE2, SqE2, PtNone).IsValid())
	assert.False(t, CreateMove(SqE7, SqE8, King).IsValid())
	assert.False(t, CreateMove(SqE7, SqE8, Pawn).IsValid())
}

func TestMoveUciRoundTrip(t *testing.T) {
	for _, s := range []string{"e2e4", "e1g1", "e8c8", "a7a8q", "h2h1n", "b7c8r", "d2d1b"} {
		m := MoveFromUci(s)
		assert.NotEqual(t, MoveNone, m, "move %s should parse", s)
		assert.Equal(t, s, m.StringUci())
	}
}

func TestValueNAIsNoMate(t *testing.T) {
	assert.False(t, ValueNA.IsCheckMateValue())
	assert.True(t, (ValueCheckMate - 3).IsCheckMateValue())
	assert.True(t, (-ValueCheckMate + 3).IsCheckMateValue())
	assert.False(t, Value(5).IsCheckMateValue())
	assert.False(t, ValueMin.IsCheckMateValue())
	assert.False(t, ValueMax.IsCheckMateValue())
}

func TestMoveFromUciInvalid(t *testing.T) {
	for _, s := range []string{"", "e2", "e2e", "e2e4qq", "i2e4", "e2e9", "e2e2", "e7e8k", "e7e8p"} {
		assert.Equal(t, MoveNone, MoveFromUci(s), "move %s should not parse", s)
	}
}
