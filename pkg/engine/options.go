package engine

import "math"

// Options holds the tunable and feature-flag surface of the search. cmd/topas
// exposes Hash, Threads and ExperimentSettings as UCI setoption entries (see
// pkg/uci/option.go); the other fields are set in code. The pruning and
// extension booleans here each gate the search.go technique they name;
// quiescence delta pruning has no switch.
type Options struct {
	Hash               int
	Threads            int
	ExperimentSettings bool
	ProgressMinNodes   int

	AspirationWindows bool
	ReverseFutility   bool
	NullMovePruning   bool
	Probcut           bool
	SingularExt       bool
	CheckExt          bool
	Lmp               bool
	Futility          bool
	See               bool

	reductions [64][64]int
}

func NewOptions() Options {
	var result = Options{
		Hash:              16,
		Threads:           1,
		ProgressMinNodes:  1_000_000,
		AspirationWindows: true,
		ReverseFutility:   true,
		NullMovePruning:   true,
		Probcut:           true,
		SingularExt:       true,
		CheckExt:          true,
		Lmp:               true,
		Futility:          true,
		See:               true,
	}
	result.initLmr()
	return result
}

func (o *Options) Lmr(d, m int) int {
	return o.reductions[min(d, 63)][min(m, 63)]
}

func (o *Options) initLmr() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			o.reductions[d][m] = int(lmrMult(float64(d), float64(m)))
		}
	}
}

func lmrMult(d, m float64) float64 {
	return lirp(math.Log(d)*math.Log(m), math.Log(5)*math.Log(22), math.Log(63)*math.Log(63), 3, 8)
}

func lirp(x, x1, x2, y1, y2 float64) float64 {
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}

func min(l, r int) int {
	if l < r {
		return l
	}
	return r
}

func max(l, r int) int {
	if l > r {
		return l
	}
	return r
}
