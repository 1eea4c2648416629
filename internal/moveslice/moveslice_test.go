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

package moveslice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/mklemm/ChariotGo/internal/types"
)

func TestMoveSliceBasics(t *testing.T) {
	ms := NewMoveSlice(8)
	assert.Equal(t, 0, ms.Len())

	m1 := CreateMove(SqE2, SqE4, PtNone)
	m2 := CreateMove(SqD2, SqD4, PtNone)
	ms.PushBack(m1)
	ms.PushBack(m2)
	assert.Equal(t, 2, ms.Len())
	assert.Equal(t, m1, ms.At(0))
	assert.True(t, ms.Contains(m2))
	assert.False(t, ms.Contains(CreateMove(SqA2, SqA4, PtNone)))

	assert.Equal(t, m2, ms.PopBack())
	assert.Equal(t, 1, ms.Len())

	ms.Clear()
	assert.Equal(t, 0, ms.Len())
	assert.Panics(t, func() { ms.PopBack() })
}

func TestMoveSliceClone(t *testing.T) {
	ms := NewMoveSlice(4)
	ms.PushBack(CreateMove(SqE2, SqE4, PtNone))
	clone := ms.Clone()
	clone.PushBack(CreateMove(SqD2, SqD4, PtNone))
	assert.Equal(t, 1, ms.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestMoveSliceStringUci(t *testing.T) {
	ms := NewMoveSlice(4)
	ms.PushBack(CreateMove(SqE2, SqE4, PtNone))
	ms.PushBack(CreateMove(SqE7, SqE8, Queen))
	assert.Equal(t, "e2e4 e7e8q", ms.StringUci())
}
