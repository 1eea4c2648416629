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

// Package transpositiontable implements a transposition table (cache)
// data structure mapping zobrist keys to scores observed by the
// search. The table is owned by the search worker, read and written
// only by it during a search and is not thread safe.
package transpositiontable

import (
	"math"
	"unsafe"

	"github.com/op/go-logging"

	"github.com/mklemm/ChariotGo/internal/board"
	myLogging "github.com/mklemm/ChariotGo/internal/logging"
	. "github.com/mklemm/ChariotGo/internal/types"
)

const (
	// MaxSizeInMB maximal memory usage of the tt
	MaxSizeInMB = 4_096
	// MB bytes per megabyte
	MB = 1_024 * 1_024
)

// TtEntry is the data structure for each entry in the transposition
// table.
type TtEntry struct {
	Key   board.Key
	Value Value
	Depth int8
	Used  bool
}

// TtEntrySize is the size in bytes for each TtEntry
var TtEntrySize = uint64(unsafe.Sizeof(TtEntry{}))

// TtTable is the transposition table object holding data and state.
// Create with NewTtTable().
type TtTable struct {
	log                *logging.Logger
	data               []TtEntry
	hashKeyMask        uint64
	maxNumberOfEntries uint64
	numberOfEntries    uint64
}

// NewTtTable creates a new TtTable with the given maximum memory
// usage in MB. The actual size is the number of entries fitting into
// this size rounded down to a power of 2 for efficient addressing via
// bit masks.
func NewTtTable(sizeInMByte int) *TtTable {
	tt := &TtTable{
		log: myLogging.GetLog(),
	}
	tt.Resize(sizeInMByte)
	return tt
}

// Resize resizes the tt table. All entries will be cleared.
func (tt *TtTable) Resize(sizeInMByte int) {
	if sizeInMByte > MaxSizeInMB {
		tt.log.Errorf("Requested size for TT of %d MB reduced to max of %d MB", sizeInMByte, MaxSizeInMB)
		sizeInMByte = MaxSizeInMB
	}
	sizeInByte := uint64(sizeInMByte) * MB
	if sizeInByte == 0 {
		tt.maxNumberOfEntries = 0
	} else {
		tt.maxNumberOfEntries = 1 << uint64(math.Floor(math.Log2(float64(sizeInByte/TtEntrySize))))
	}
	tt.hashKeyMask = tt.maxNumberOfEntries - 1
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)
	tt.numberOfEntries = 0
	tt.log.Debugf("TT Size %d MByte, Capacity %d entries (entry size=%d Byte)",
		sizeInMByte, tt.maxNumberOfEntries, TtEntrySize)
}

// Probe returns a pointer to the tt entry for the key or nil when the
// position is not in the table.
func (tt *TtTable) Probe(key board.Key) *TtEntry {
	if tt.maxNumberOfEntries == 0 {
		return nil
	}
	e := &tt.data[tt.hash(key)]
	if e.Used && e.Key == key {
		return e
	}
	return nil
}

// Put stores a score for the position into the tt. An existing entry
// for a different position with the same slot is overwritten.
func (tt *TtTable) Put(key board.Key, value Value, depth int8) {
	if tt.maxNumberOfEntries == 0 {
		return
	}
	e := &tt.data[tt.hash(key)]
	if !e.Used {
		tt.numberOfEntries++
	}
	e.Key = key
	e.Value = value
	e.Depth = depth
	e.Used = true
}

// Len returns the number of used entries
func (tt *TtTable) Len() uint64 {
	return tt.numberOfEntries
}

// Hashfull returns how full the transposition table is in permill as
// per UCI.
func (tt *TtTable) Hashfull() int {
	if tt.maxNumberOfEntries == 0 {
		return 0
	}
	return int(1000 * tt.numberOfEntries / tt.maxNumberOfEntries)
}

// Clear removes all entries. Must be called between searches which
// straddle draw sentinels as path dependent draw scores must never
// survive into the next search.
func (tt *TtTable) Clear() {
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)
	tt.numberOfEntries = 0
}

func (tt *TtTable) hash(key board.Key) uint64 {
	return uint64(key) & tt.hashKeyMask
}
