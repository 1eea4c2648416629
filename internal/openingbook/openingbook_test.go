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

package openingbook

import (
	"os"
	"path/filepath"
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

func openTestBook(t *testing.T) *Book {
	t.Helper()
	book, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = book.Close() })
	return book
}

func TestEmptyBook(t *testing.T) {
	book := openTestBook(t)
	_, found := book.GetEntry(board.StartFen)
	assert.False(t, found)
	assert.Equal(t, MoveNone, book.BestMove(board.StartFen))
}

func TestRecordAndLookup(t *testing.T) {
	book := openTestBook(t)
	require.NoError(t, book.RecordResult(board.StartFen, "e2e4", true))
	require.NoError(t, book.RecordResult(board.StartFen, "e2e4", true))
	require.NoError(t, book.RecordResult(board.StartFen, "d2d4", false))

	entry, found := book.GetEntry(board.StartFen)
	require.True(t, found)
	require.Len(t, entry.Moves, 2)

	// e2e4 has the better win rate and must be chosen
	assert.Equal(t, "e2e4", book.BestMove(board.StartFen).StringUci())
}

func TestPositionKeyIgnoresClocks(t *testing.T) {
	book := openTestBook(t)
	require.NoError(t, book.RecordResult(board.StartFen, "e2e4", true))

	// the same position with different clocks hits the same entry
	fenOtherClocks := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 10 42"
	_, found := book.GetEntry(fenOtherClocks)
	assert.True(t, found)
}

func TestImportFile(t *testing.T) {
	book := openTestBook(t)

	path := filepath.Join(t.TempDir(), "book.txt")
	content := "e2e4 e7e5 g1f3\nd2d4 d7d5\n# comment line\n\ne2e4 c7c5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	lines, err := book.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, lines)

	entry, found := book.GetEntry(board.StartFen)
	require.True(t, found)
	// e2e4 (twice) and d2d4 are known continuations of the start
	uciMoves := make([]string, 0, len(entry.Moves))
	for _, bm := range entry.Moves {
		uciMoves = append(uciMoves, bm.Uci)
	}
	assert.ElementsMatch(t, []string{"e2e4", "d2d4"}, uciMoves)

	// the position after e2e4 knows both replies
	b := board.New()
	require.NoError(t, b.MakeMove(MoveFromUci("e2e4")))
	entry, found = book.GetEntry(b.StringFen())
	require.True(t, found)
	assert.Len(t, entry.Moves, 2)
}

func TestImportSkipsBrokenLines(t *testing.T) {
	book := openTestBook(t)

	path := filepath.Join(t.TempDir(), "book.txt")
	content := "e2e4 e7e5\nnot a move line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	lines, err := book.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, lines)
}
