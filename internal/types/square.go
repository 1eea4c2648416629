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

// Package types defines the basic data types used throughout the engine:
// squares, files, ranks, colors, pieces, moves, castling rights and the
// bitboard type used by the attack index. All types are small integer
// types with pre-computed lookup tables for board geometry.
package types

import (
	"fmt"
)

// Square represents exactly one square on a chess board encoded as
// row*8+col with a1 = 0 and h8 = 63.
//  SqA1   Square = iota // 0
//  SqB1               // 1
//  ...
//  SqH8               // 63
//  SqNone             // 64
type Square uint8

//noinspection GoUnusedConst
const (
	SqA1 Square = iota // 0
	SqB1               // 1
	SqC1               // 2
	SqD1
	SqE1
	SqF1
	SqG1
	SqH1
	SqA2
	SqB2
	SqC2
	SqD2
	SqE2
	SqF2
	SqG2
	SqH2
	SqA3
	SqB3
	SqC3
	SqD3
	SqE3
	SqF3
	SqG3
	SqH3
	SqA4
	SqB4
	SqC4
	SqD4
	SqE4
	SqF4
	SqG4
	SqH4
	SqA5
	SqB5
	SqC5
	SqD5
	SqE5
	SqF5
	SqG5
	SqH5
	SqA6
	SqB6
	SqC6
	SqD6
	SqE6
	SqF6
	SqG6
	SqH6
	SqA7
	SqB7
	SqC7
	SqD7
	SqE7
	SqF7
	SqG7
	SqH7
	SqA8
	SqB8
	SqC8
	SqD8
	SqE8
	SqF8
	SqG8
	SqH8   // 63
	SqNone // 64
)

// SqLength number of squares on a chess board
const SqLength int = 64

// File represents a chess board file a-h
type File uint8

// File constants
const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
	FileNone
)

// IsValid checks if f represents a valid file
func (f File) IsValid() bool {
	return f < 8
}

// String returns a string representation of file as "a"-"h"
func (f File) String() string {
	if !f.IsValid() {
		return "-"
	}
	return string(rune('a' + f))
}

// Rank represents a chess board rank 1-8
type Rank uint8

// Rank constants
const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	RankNone
)

// IsValid checks if r represents a valid rank
func (r Rank) IsValid() bool {
	return r < 8
}

// String returns a string representation of rank as "1"-"8"
func (r Rank) String() string {
	if !r.IsValid() {
		return "-"
	}
	return string(rune('1' + r))
}

// IsValid checks a value of type square if it represents a valid
// square on a chess board (e.q. sq < 64).
func (sq Square) IsValid() bool {
	return sq < SqNone
}

// FileOf returns the file of the square
func (sq Square) FileOf() File {
	return File(sq & 7)
}

// RankOf returns the rank of the square
func (sq Square) RankOf() Rank {
	return Rank(sq >> 3)
}

// MakeSquare returns a square based on the string given or SqNone if
// no valid square could be read from the string
func MakeSquare(s string) Square {
	if len(s) != 2 {
		return SqNone
	}
	file := File(s[0] - 'a')
	rank := Rank(s[1] - '1')
	if !file.IsValid() || !rank.IsValid() {
		return SqNone
	}
	return SquareOf(file, rank)
}

// SquareOf returns a square from file and rank
// Returns SqNone for invalid files or ranks
func SquareOf(f File, r Rank) Square {
	if !f.IsValid() || !r.IsValid() {
		return SqNone
	}
	return Square((int(r) << 3) + int(f))
}

// String returns a string of the file letter and rank number (e.g. e5)
// if the sq is not a valid square returns "-"
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return sq.FileOf().String() + sq.RankOf().String()
}

// Direction is a positive or negative offset between two squares
// along a rank, file or diagonal.
type Direction int8

// Direction constants
const (
	North     Direction = 8
	East      Direction = 1
	South     Direction = -North
	West      Direction = -East
	Northeast Direction = North + East
	Southeast Direction = South + East
	Southwest Direction = South + West
	Northwest Direction = North + West
)

// Directions lists all eight directions for iteration
var Directions = [8]Direction{North, East, South, West, Northeast, Southeast, Southwest, Northwest}

// OrthogonalDirs are the rook directions
var OrthogonalDirs = [4]Direction{North, East, South, West}

// DiagonalDirs are the bishop directions
var DiagonalDirs = [4]Direction{Northeast, Southeast, Southwest, Northwest}

// To returns the square on the chess board in the given direction
// or SqNone if the step would leave the board
func (sq Square) To(d Direction) Square {
	switch d {
	case North:
		return sqTo[sq][0]
	case East:
		return sqTo[sq][1]
	case South:
		return sqTo[sq][2]
	case West:
		return sqTo[sq][3]
	case Northeast:
		return sqTo[sq][4]
	case Southeast:
		return sqTo[sq][5]
	case Southwest:
		return sqTo[sq][6]
	case Northwest:
		return sqTo[sq][7]
	default:
		panic(fmt.Sprintf("Invalid direction %d", d))
	}
}

// DirectionOf returns the direction one would have to go from sq
// to reach target along a rank, file or diagonal. Returns 0 when the
// two squares do not share a line.
func DirectionOf(sq Square, target Square) Direction {
	return dirTable[sq][target]
}

// KnightTargets returns the geometric knight targets from the square.
func (sq Square) KnightTargets() []Square {
	return knightTo[sq]
}

// KingTargets returns the geometric king targets from the square.
func (sq Square) KingTargets() []Square {
	return kingTo[sq]
}

// PawnAttacks returns the diagonal attack targets of a pawn of the
// given color standing on the square.
func (sq Square) PawnAttacks(c Color) []Square {
	return pawnAttacksTo[c][sq]
}

// Intermediate returns a bitboard of the squares strictly between the
// two given squares or an empty bitboard if they do not share a line.
func Intermediate(sq1 Square, sq2 Square) Bitboard {
	return intermediate[sq1][sq2]
}

// ///////////////////////////////////////
// Initialization
// ///////////////////////////////////////

var (
	sqTo          [SqLength][8]Square
	dirTable      [SqLength][SqLength]Direction
	knightTo      [SqLength][]Square
	kingTo        [SqLength][]Square
	pawnAttacksTo [2][SqLength][]Square
	intermediate  [SqLength][SqLength]Bitboard
)

func init() {
	for sq := SqA1; sq < SqNone; sq++ {
		for i, dir := range Directions {
			sqTo[sq][i] = sq.toPreCompute(dir)
		}
	}
	for sq := SqA1; sq < SqNone; sq++ {
		// rays for direction lookup and intermediate squares
		for _, dir := range Directions {
			between := BbNone
			for to := sq.To(dir); to != SqNone; to = to.To(dir) {
				dirTable[sq][to] = dir
				intermediate[sq][to] = between
				between.PushSquare(to)
			}
		}
		// knight jumps
		for _, jump := range [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}} {
			r := int(sq.RankOf()) + jump[0]
			f := int(sq.FileOf()) + jump[1]
			if r >= 0 && r < 8 && f >= 0 && f < 8 {
				knightTo[sq] = append(knightTo[sq], SquareOf(File(f), Rank(r)))
			}
		}
		// king steps
		for _, dir := range Directions {
			if to := sq.To(dir); to != SqNone {
				kingTo[sq] = append(kingTo[sq], to)
			}
		}
		// pawn diagonals
		for c := White; c <= Black; c++ {
			for _, side := range [2]Direction{East, West} {
				if to := sq.To(c.MoveDirection() + side); to != SqNone {
					pawnAttacksTo[c][sq] = append(pawnAttacksTo[c][sq], to)
				}
			}
		}
	}
}

func (sq Square) toPreCompute(d Direction) Square {
	// overflow to south or north is easily detected <0 or >63
	// east and west need a file check
	switch d {
	case North, South:
		// no file check necessary
	case East, Northeast, Southeast:
		if sq.FileOf() == FileH {
			return SqNone
		}
	case West, Southwest, Northwest:
		if sq.FileOf() == FileA {
			return SqNone
		}
	default:
		panic(fmt.Sprintf("Invalid direction %d", d))
	}
	target := Square(int(sq) + int(d))
	if target.IsValid() {
		return target
	}
	return SqNone
}
