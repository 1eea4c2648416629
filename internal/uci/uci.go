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

// Package uci contains the UciHandler data structure and functionality
// to handle the UCI protocol communication between the chess user
// interface and the chess engine.
package uci

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/op/go-logging"

	"github.com/mklemm/ChariotGo/internal/board"
	"github.com/mklemm/ChariotGo/internal/config"
	myLogging "github.com/mklemm/ChariotGo/internal/logging"
	"github.com/mklemm/ChariotGo/internal/moveslice"
	"github.com/mklemm/ChariotGo/internal/search"
	. "github.com/mklemm/ChariotGo/internal/types"
	"github.com/mklemm/ChariotGo/internal/uciInterface"
	"github.com/mklemm/ChariotGo/internal/version"
)

var log *logging.Logger

// UciHandler handles all communication with the chess ui via UCI
// and controls options and search.
// Create an instance with NewUciHandler().
type UciHandler struct {
	InIo       *bufio.Scanner
	OutIo      *bufio.Writer
	mySearch   *search.Search
	myPosition *board.Board
	uciLog     *logging.Logger
}

// NewUciHandler creates a new UciHandler instance.
// Input / Output io can be replaced by changing the instance's
// InIo and OutIo members.
func NewUciHandler() *UciHandler {
	if log == nil {
		log = myLogging.GetLog()
	}
	u := &UciHandler{
		InIo:       bufio.NewScanner(os.Stdin),
		OutIo:      bufio.NewWriter(os.Stdout),
		mySearch:   search.NewSearch(),
		myPosition: board.New(),
		uciLog:     myLogging.GetUciLog(),
	}
	var uciDriver uciInterface.UciDriver = u
	u.mySearch.SetUciHandler(uciDriver)
	return u
}

// Loop starts the main loop to receive commands through the input
// stream (pipe or user).
func (u *UciHandler) Loop() {
	for u.InIo.Scan() {
		if u.handleReceivedCommand(u.InIo.Text()) {
			return // quit command received
		}
	}
}

// Command handles a single line of UCI protocol aka command.
// Returns the uci response as string output.
// Mostly useful for debugging and unit testing.
func (u *UciHandler) Command(cmd string) string {
	tmp := u.OutIo
	buffer := new(bytes.Buffer)
	u.OutIo = bufio.NewWriter(buffer)
	u.handleReceivedCommand(cmd)
	_ = u.OutIo.Flush()
	u.OutIo = tmp
	return buffer.String()
}

// ///////////////////////////////////////////////////////////
// UciDriver interface
// ///////////////////////////////////////////////////////////

// SendReadyOk tells the UciDriver to send the uci response "readyok" to the UCI user interface
func (u *UciHandler) SendReadyOk() {
	u.send("readyok")
}

// SendInfoString sends an arbitrary string to the UCI user interface
func (u *UciHandler) SendInfoString(info string) {
	u.send(fmt.Sprintf("info string %s", info))
}

// SendIterationEndInfo sends information about the last search depth iteration to the UCI ui
func (u *UciHandler) SendIterationEndInfo(depth int, seldepth int, value Value, nodes uint64, nps uint64, time time.Duration, tbhits uint64, pv moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info depth %d seldepth %d multipv 1 score %s nodes %d nps %d time %d tbhits %d pv %s",
		depth, seldepth, value.String(), nodes, nps, time.Milliseconds(), tbhits, pv.StringUci()))
}

// SendSearchUpdate sends a periodical update about search stats to the UCI ui
func (u *UciHandler) SendSearchUpdate(depth int, seldepth int, nodes uint64, nps uint64, time time.Duration, hashfull int) {
	u.send(fmt.Sprintf("info depth %d seldepth %d nodes %d nps %d time %d hashfull %d",
		depth, seldepth, nodes, nps, time.Milliseconds(), hashfull))
}

// SendCurrentRootMove sends the currently searched root move to the UCI ui
func (u *UciHandler) SendCurrentRootMove(currMove Move, moveNumber int) {
	u.send(fmt.Sprintf("info currmove %s currmovenumber %d", currMove.StringUci(), moveNumber+1))
}

// SendCurrentLine sends a periodical update about the currently searched variation to the UCI ui
func (u *UciHandler) SendCurrentLine(moveList moveslice.MoveSlice) {
	u.send(fmt.Sprintf("info currline %s", moveList.StringUci()))
}

// SendResult sends the search result to the UCI ui after the search has ended or has been stopped
func (u *UciHandler) SendResult(bestMove Move, ponderMove Move) {
	var resultStr strings.Builder
	resultStr.WriteString("bestmove ")
	resultStr.WriteString(bestMove.StringUci())
	if ponderMove != MoveNone {
		resultStr.WriteString(" ponder ")
		resultStr.WriteString(ponderMove.StringUci())
	}
	u.send(resultStr.String())
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

var regexWhiteSpace = regexp.MustCompile(`\s+`)

func (u *UciHandler) handleReceivedCommand(cmd string) bool {
	if len(strings.TrimSpace(cmd)) == 0 {
		return false
	}
	log.Debugf("Received command: %s", cmd)
	u.uciLog.Infof("<< %s", cmd)

	tokens := regexWhiteSpace.Split(strings.TrimSpace(cmd), -1)
	switch tokens[0] {
	case "uci":
		u.uciCommand()
	case "isready":
		u.isReadyCommand()
	case "setoption":
		u.setOptionCommand(tokens)
	case "ucinewgame":
		u.uciNewGameCommand()
	case "position":
		u.positionCommand(tokens)
	case "go":
		u.goCommand(tokens)
	case "stop":
		u.stopCommand()
	case "ponderhit":
		u.ponderHitCommand()
	case "quit":
		u.stopCommand()
		return true
	default:
		u.send(fmt.Sprintf("info string unknown command: %s", tokens[0]))
	}
	return false
}

func (u *UciHandler) uciCommand() {
	u.send("id name " + version.Name + " " + version.Version)
	u.send("id author " + version.Author)
	u.send(fmt.Sprintf("option name Hash type spin default %d min 0 max %d",
		config.Settings.Search.TTSize, 4096))
	u.send("option name Ponder type check default true")
	u.send("option name OwnBook type check default false")
	u.send("uciok")
}

func (u *UciHandler) isReadyCommand() {
	u.mySearch.IsReady()
}

func (u *UciHandler) setOptionCommand(tokens []string) {
	name, value := "", ""
	i := 1
	for i < len(tokens) {
		switch tokens[i] {
		case "name":
			i++
			for i < len(tokens) && tokens[i] != "value" {
				if name != "" {
					name += " "
				}
				name += tokens[i]
				i++
			}
		case "value":
			i++
			for i < len(tokens) {
				if value != "" {
					value += " "
				}
				value += tokens[i]
				i++
			}
		default:
			i++
		}
	}
	switch strings.ToLower(name) {
	case "hash":
		if size, err := strconv.Atoi(value); err == nil {
			config.Settings.Search.TTSize = size
			u.mySearch.ResizeCache()
		}
	case "ponder":
		config.Settings.Search.UsePonder = value == "true"
	case "ownbook":
		config.Settings.Search.UseBook = value == "true"
	default:
		u.SendInfoString("unknown option " + name)
	}
}

func (u *UciHandler) uciNewGameCommand() {
	u.mySearch.NewGame()
	u.myPosition = board.New()
}

// positionCommand sets up a position from a fen (or the start
// position) and plays the given moves on it.
func (u *UciHandler) positionCommand(tokens []string) {
	fen := board.StartFen
	i := 1
	if i < len(tokens) {
		switch tokens[i] {
		case "startpos":
			i++
		case "fen":
			i++
			var fenParts []string
			for i < len(tokens) && tokens[i] != "moves" {
				fenParts = append(fenParts, tokens[i])
				i++
			}
			fen = strings.Join(fenParts, " ")
		}
	}
	newPosition, err := board.NewFen(fen)
	if err != nil {
		u.SendInfoString(fmt.Sprintf("invalid fen in position command: %s", err))
		return
	}
	if i < len(tokens) && tokens[i] == "moves" {
		i++
		for ; i < len(tokens); i++ {
			m := MoveFromUci(tokens[i])
			if m == MoveNone {
				u.SendInfoString("invalid move in position command: " + tokens[i])
				return
			}
			if err := newPosition.MakeMove(m); err != nil {
				u.SendInfoString("illegal move in position command: " + tokens[i])
				return
			}
		}
	}
	u.myPosition = newPosition
}

// goCommand parses the go parameters into search limits and starts
// the search.
func (u *UciHandler) goCommand(tokens []string) {
	if u.mySearch.IsSearching() {
		u.SendInfoString("search already running - ignoring go command")
		return
	}
	limits := search.NewLimits()
	i := 1
	for i < len(tokens) {
		switch tokens[i] {
		case "searchmoves":
			i++
			for ; i < len(tokens); i++ {
				m := MoveFromUci(tokens[i])
				if m == MoveNone {
					break
				}
				limits.Moves.PushBack(m)
			}
			continue
		case "wtime":
			if v, ok := nextInt(tokens, i); ok {
				limits.WhiteTime = time.Duration(v) * time.Millisecond
				limits.TimeControl = true
			}
			i += 2
		case "btime":
			if v, ok := nextInt(tokens, i); ok {
				limits.BlackTime = time.Duration(v) * time.Millisecond
				limits.TimeControl = true
			}
			i += 2
		case "winc":
			if v, ok := nextInt(tokens, i); ok {
				limits.WhiteInc = time.Duration(v) * time.Millisecond
			}
			i += 2
		case "binc":
			if v, ok := nextInt(tokens, i); ok {
				limits.BlackInc = time.Duration(v) * time.Millisecond
			}
			i += 2
		case "movestogo":
			if v, ok := nextInt(tokens, i); ok {
				limits.MovesToGo = v
			}
			i += 2
		case "depth":
			if v, ok := nextInt(tokens, i); ok {
				limits.Depth = v
			}
			i += 2
		case "nodes":
			if v, ok := nextInt(tokens, i); ok {
				limits.Nodes = uint64(v)
			}
			i += 2
		case "mate":
			if v, ok := nextInt(tokens, i); ok {
				limits.Mate = v
			}
			i += 2
		case "movetime":
			if v, ok := nextInt(tokens, i); ok {
				limits.MoveTime = time.Duration(v) * time.Millisecond
				limits.TimeControl = true
			}
			i += 2
		case "infinite":
			limits.Infinite = true
			i++
		case "ponder":
			limits.Ponder = true
			i++
		default:
			i++
		}
	}
	u.mySearch.StartSearch(u.myPosition, *limits)
}

func (u *UciHandler) stopCommand() {
	u.mySearch.StopSearch()
}

func (u *UciHandler) ponderHitCommand() {
	u.mySearch.PonderHit()
}

func nextInt(tokens []string, i int) (int, bool) {
	if i+1 >= len(tokens) {
		return 0, false
	}
	v, err := strconv.Atoi(tokens[i+1])
	if err != nil {
		return 0, false
	}
	return v, true
}

func (u *UciHandler) send(s string) {
	u.uciLog.Infof(">> %s", s)
	_, _ = u.OutIo.WriteString(s + "\n")
	_ = u.OutIo.Flush()
}
