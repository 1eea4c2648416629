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

package config

// evalConfiguration holds the weights of the static evaluation terms.
// Material is always weighted 1.0, pawn structure and attack pressure
// are penalties and therefore subtracted.
type evalConfiguration struct {
	UsePawnStructure bool
	PawnWeight       float64

	UseAttackPressure bool
	AttackWeight      float64

	UseMobility    bool
	MobilityWeight float64
}

// sets defaults which might be overwritten by config file
func init() {
	Settings.Eval.UsePawnStructure = true
	Settings.Eval.PawnWeight = 0.1

	Settings.Eval.UseAttackPressure = true
	Settings.Eval.AttackWeight = 0.6

	Settings.Eval.UseMobility = true
	Settings.Eval.MobilityWeight = 0.01
}
