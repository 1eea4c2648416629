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

package board

// Perft counts the leaf nodes of the legal move tree to the given
// depth. Used to validate the move generator and the make/unmake
// repair against the well known reference numbers.
func (b *Board) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	moves := b.LegalMoves(b.nextPlayer).Clone()
	if depth == 1 {
		return uint64(moves.Len())
	}
	for _, m := range *moves {
		if err := b.MakeMove(m); err != nil {
			b.corrupt("Perft: generated move rejected: " + m.StringUci())
		}
		nodes += b.Perft(depth - 1)
		b.UndoMove()
	}
	return nodes
}
