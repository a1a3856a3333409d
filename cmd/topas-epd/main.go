package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/topas-engine/topas/pkg/chess"
	"github.com/topas-engine/topas/pkg/engine"
	"github.com/topas-engine/topas/pkg/eval"
)

// topas-epd runs a batch of EPD test positions concurrently, one engine
// instance per worker, and reports the pass rate. Each position is an
// independent search, so this fans work out across goroutines the way
// cmd/arena fans games out across goroutines - it does not run one search
// with multiple threads, so it does not reopen the single-threaded-search
// question.
type epdCase struct {
	line      string
	position  *chess.Position
	bestMoves []chess.Move
}

func main() {
	var filePath string
	var moveTimeMs int
	var concurrency int
	flag.StringVar(&filePath, "epd", "", "path to an EPD test suite")
	flag.IntVar(&moveTimeMs, "movetime", 1000, "milliseconds per position")
	flag.IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of positions to search concurrently")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags)
	if filePath == "" {
		logger.Fatal("missing -epd flag")
	}

	var cases, err = loadEpdCases(filePath)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Printf("loaded %d cases", len(cases))

	var solved, total int
	if err := runEpdSuite(context.Background(), cases, concurrency, moveTimeMs, &solved, &total); err != nil {
		logger.Fatal(err)
	}
	logger.Printf("solved %d/%d", solved, total)
}

func runEpdSuite(ctx context.Context, cases []epdCase, concurrency, moveTimeMs int, solved, total *int) error {
	var g, gctx = errgroup.WithContext(ctx)
	var work = make(chan epdCase)
	var mu sync.Mutex

	g.Go(func() error {
		defer close(work)
		for _, c := range cases {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case work <- c:
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			var eng = engine.NewEngine(eval.NewEvaluator())
			for c := range work {
				var pass = runOneCase(gctx, eng, c, moveTimeMs)
				mu.Lock()
				*total++
				if pass {
					*solved++
				}
				mu.Unlock()
			}
			return nil
		})
	}

	g.Go(func() error {
		wg.Wait()
		return nil
	})

	return g.Wait()
}

func runOneCase(ctx context.Context, eng *engine.Engine, c epdCase, moveTimeMs int) bool {
	var info = eng.Search(ctx, engine.SearchParams{
		Positions: []chess.Position{*c.position},
		Limits:    engine.LimitsType{MoveTime: moveTimeMs},
	})
	if len(info.MainLine) == 0 {
		return false
	}
	var found = info.MainLine[0]
	for _, bm := range c.bestMoves {
		if bm == found {
			return true
		}
	}
	return false
}

func loadEpdCases(filePath string) ([]epdCase, error) {
	var file, err = os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var result []epdCase
	var scanner = bufio.NewScanner(file)
	for scanner.Scan() {
		var line = strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var c, ok = parseEpdLine(line)
		if ok {
			result = append(result, c)
		}
	}
	return result, scanner.Err()
}

// parseEpdLine understands the common "<fen> bm <move> [<move>...];" shape,
// matching best moves by destination square and moving piece kind - EPD best
// moves are written in short algebraic, and this engine's move parser only
// understands the long algebraic form used on the UCI wire, so full SAN
// disambiguation (check/capture markers, file/rank hints) is not attempted.
func parseEpdLine(line string) (epdCase, bool) {
	var bmBegin = strings.Index(line, "bm")
	var bmEnd = strings.Index(line, ";")
	if bmBegin < 0 || bmEnd < 0 || bmEnd < bmBegin {
		return epdCase{}, false
	}
	var fen = strings.TrimSpace(line[:bmBegin])
	var pos, err = chess.NewPositionFromFEN(fen)
	if err != nil {
		return epdCase{}, false
	}
	var tokens = strings.Fields(line[bmBegin+len("bm") : bmEnd])
	var buf [chess.MaxMoves]chess.OrderedMove
	var legal = pos.GenerateLegalMoves(buf[:0])
	var bestMoves []chess.Move
	for _, tok := range tokens {
		if m, ok := matchSanMove(legal, tok); ok {
			bestMoves = append(bestMoves, m)
		}
	}
	if len(bestMoves) == 0 {
		return epdCase{}, false
	}
	return epdCase{line: line, position: pos, bestMoves: bestMoves}, true
}

func matchSanMove(legal []chess.OrderedMove, san string) (chess.Move, bool) {
	san = strings.TrimRight(san, "+#!?")
	if len(san) < 2 {
		return chess.MoveEmpty, false
	}
	var piece = chess.Pawn
	var rest = san
	if idx := strings.IndexAny(san[:1], "NBRQK"); idx >= 0 {
		piece = map[byte]int{'N': chess.Knight, 'B': chess.Bishop, 'R': chess.Rook,
			'Q': chess.Queen, 'K': chess.King}[san[0]]
		rest = san[1:]
	}
	if len(rest) < 2 {
		return chess.MoveEmpty, false
	}
	var toStr = rest[len(rest)-2:]
	var to = chess.ParseSquare(toStr)
	if to == chess.SquareNone {
		return chess.MoveEmpty, false
	}
	var found chess.Move
	var count = 0
	for _, om := range legal {
		if om.Move.MovingPiece() == piece && om.Move.To() == to {
			found = om.Move
			count++
		}
	}
	if count == 1 {
		return found, true
	}
	return chess.MoveEmpty, false
}
