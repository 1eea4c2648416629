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

// Package openingbook implements an opening book backed by a
// persistent badger key value store. Positions are keyed by the first
// four FEN fields, each entry holds the known continuation moves with
// their win rates. Plain text book files with one line of UCI moves
// per opening line can be imported into the store.
package openingbook

import (
	"bufio"
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/op/go-logging"

	"github.com/mklemm/ChariotGo/internal/board"
	myLogging "github.com/mklemm/ChariotGo/internal/logging"
	. "github.com/mklemm/ChariotGo/internal/types"
)

// bookDepth limits how many plies of each imported line are stored
const bookDepth = 16

// BookMove is one candidate continuation of a book position
type BookMove struct {
	Uci     string  `json:"uci"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// Entry holds all candidate continuations known for one position
type Entry struct {
	Moves []BookMove `json:"moves"`
}

// Book is an opening book backed by a badger database.
// Create with Open() and close with Close().
type Book struct {
	log *logging.Logger
	db  *badger.DB
	rnd *rand.Rand
}

// Open opens (or creates) the book database in the given directory.
func Open(dir string) (*Book, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Book{
		log: myLogging.GetLog(),
		db:  db,
		rnd: rand.New(rand.NewSource(int64(os.Getpid()))),
	}, nil
}

// Close closes the underlying database
func (b *Book) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// positionKey reduces a FEN to the position defining fields (clocks
// do not identify a book position)
func positionKey(fen string) []byte {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return []byte(strings.Join(fields, " "))
}

// GetEntry returns the book entry for the position or found == false.
func (b *Book) GetEntry(fen string) (Entry, bool) {
	var entry Entry
	found := false
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(positionKey(fen))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entry); err != nil {
				return err
			}
			found = true
			return nil
		})
	})
	if err != nil {
		b.log.Warningf("Book lookup failed: %s", err)
		return Entry{}, false
	}
	return entry, found
}

// BestMove returns the book move with the highest win rate for the
// position or MoveNone when the position is not in the book. Ties are
// broken randomly.
func (b *Book) BestMove(fen string) Move {
	entry, found := b.GetEntry(fen)
	if !found || len(entry.Moves) == 0 {
		return MoveNone
	}
	best := make([]BookMove, 0, 4)
	bestRate := -1.0
	for _, bm := range entry.Moves {
		switch {
		case bm.WinRate > bestRate:
			bestRate = bm.WinRate
			best = append(best[:0], bm)
		case bm.WinRate == bestRate:
			best = append(best, bm)
		}
	}
	choice := best[b.rnd.Intn(len(best))]
	return MoveFromUci(choice.Uci)
}

// RecordResult folds a game result into the win rates of all book
// positions along the given line. won refers to the side which made
// the corresponding book move.
func (b *Book) RecordResult(fen string, uciMove string, won bool) error {
	return b.db.Update(func(txn *badger.Txn) error {
		key := positionKey(fen)
		var entry Entry
		item, err := txn.Get(key)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		idx := -1
		for i := range entry.Moves {
			if entry.Moves[i].Uci == uciMove {
				idx = i
				break
			}
		}
		if idx == -1 {
			entry.Moves = append(entry.Moves, BookMove{Uci: uciMove})
			idx = len(entry.Moves) - 1
		}
		bm := &entry.Moves[idx]
		bm.Games++
		if won {
			bm.Wins++
		}
		bm.WinRate = float64(bm.Wins) / float64(bm.Games)
		data, err := json.Marshal(&entry)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// ImportFile reads a plain text book file with one opening line of
// space separated UCI moves per line and merges it into the store.
// Illegal moves truncate the line at their position. Returns the
// number of imported lines.
func (b *Book) ImportFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := b.importLine(line); err != nil {
			b.log.Warningf("Book import: skipping line %q: %s", line, err)
			continue
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		return lines, err
	}
	return lines, nil
}

func (b *Book) importLine(line string) error {
	pos := board.New()
	for i, moveStr := range strings.Fields(line) {
		if i >= bookDepth {
			break
		}
		m := MoveFromUci(moveStr)
		if m == MoveNone {
			return errors.New("invalid move " + moveStr)
		}
		fen := pos.StringFen()
		if err := pos.MakeMove(m); err != nil {
			return err
		}
		// imported lines carry no game result: white's moves are
		// recorded as won and black's as lost, so all imported
		// continuations of one position share the same win rate
		if err := b.RecordResult(fen, moveStr, i%2 == 0); err != nil {
			return err
		}
	}
	return nil
}
