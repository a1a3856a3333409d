// Package eval implements tapered piece-square evaluation for the Topas
// engine.
package eval

import "fmt"

// Score carries a middlegame and endgame centipawn value together so
// piece-square contributions can be accumulated once and blended by game
// phase at the end, rather than evaluated twice.
type Score struct {
	Mg int
	Eg int
}

func (s Score) String() string { return fmt.Sprintf("Score(%d, %d)", s.Mg, s.Eg) }

func (s Score) add(v Score) Score { return Score{s.Mg + v.Mg, s.Eg + v.Eg} }
func (s Score) sub(v Score) Score { return Score{s.Mg - v.Mg, s.Eg - v.Eg} }
