package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/topas-engine/topas/pkg/chess"
	"github.com/topas-engine/topas/pkg/engine"
)

// Engine is the subset of *engine.Engine the protocol layer depends on, kept
// as an interface so Protocol can be tested against a fake.
type Engine interface {
	Prepare()
	Clear()
	Search(ctx context.Context, params engine.SearchParams) engine.SearchInfo
}

// searchUpdate is one message from a running search: either a periodic
// progress report (final == false) or the terminating result (final ==
// true), after which the session is over and updates is closed. Carrying
// the "is this the last one" bit on the message itself means the loop in
// Run never has to infer completion from a channel close.
type searchUpdate struct {
	info  engine.SearchInfo
	final bool
}

// session tracks one in-flight "go" until it is cancelled or completes on
// its own; Protocol holds at most one at a time.
type session struct {
	cancel  context.CancelFunc
	updates chan searchUpdate
}

func startSession(eng Engine, positions []chess.Position, limits engine.LimitsType) *session {
	var ctx, cancel = context.WithCancel(context.Background())
	var s = &session{cancel: cancel, updates: make(chan searchUpdate, 4)}
	go func() {
		defer close(s.updates)
		var result = eng.Search(ctx, engine.SearchParams{
			Positions: positions,
			Limits:    limits,
			Progress: func(si engine.SearchInfo) {
				select {
				case s.updates <- searchUpdate{info: si}:
				default:
				}
			},
		})
		s.updates <- searchUpdate{info: result, final: true}
	}()
	return s
}

// Protocol implements the UCI command loop: it owns the current game's
// position history and, while a session is active, routes everything but
// "stop" to an error rather than starting a second concurrent search.
type Protocol struct {
	name      string
	author    string
	version   string
	options   []*Option
	engine    Engine
	positions []chess.Position
	session   *session
	commands  map[string]command
}

// command pairs a handler with whether it may run while a search is active;
// only "stop" (and any future control command) sets allowedWhileSearching.
type command struct {
	run                   func(fields []string) error
	allowedWhileSearching bool
}

func New(name, author, version string, eng Engine, options []*Option) *Protocol {
	var initPosition, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		panic(err)
	}
	var p = &Protocol{
		name:      name,
		author:    author,
		version:   version,
		engine:    eng,
		options:   options,
		positions: []chess.Position{*initPosition},
	}
	p.commands = map[string]command{
		"uci":        {run: p.uciCommand},
		"setoption":  {run: p.setOptionCommand},
		"isready":    {run: p.isReadyCommand},
		"position":   {run: p.positionCommand},
		"go":         {run: p.goCommand},
		"ucinewgame": {run: p.uciNewGameCommand},
		"print":      {run: p.printCommand},
		"d":          {run: p.printCommand},
		"stop":       {run: p.stopCommand, allowedWhileSearching: true},
	}
	return p
}

func (p *Protocol) Run(logger *log.Logger) {
	var lines = make(chan string)
	go func() {
		defer close(lines)
		readCommands(lines)
	}()

	for {
		select {
		case update, open := <-p.updateChannel():
			if !open {
				continue
			}
			fmt.Println(searchInfoToUci(update.info))
			if update.final {
				if len(update.info.MainLine) != 0 {
					fmt.Printf("bestmove %v\n", update.info.MainLine[0])
				}
				p.session = nil
			}
		case line, open := <-lines:
			if !open {
				return
			}
			if err := p.handle(line); err != nil {
				logger.Println(err)
			}
		}
	}
}

// updateChannel returns the active session's channel, or nil when idle so
// the receive in Run simply never fires (a nil channel blocks forever).
func (p *Protocol) updateChannel() <-chan searchUpdate {
	if p.session == nil {
		return nil
	}
	return p.session.updates
}

func readCommands(commands chan<- string) {
	var scanner = bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var commandLine = scanner.Text()
		if commandLine == "quit" {
			return
		}
		if commandLine != "" {
			commands <- commandLine
		}
	}
}

func (p *Protocol) handle(commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var name, args = fields[0], fields[1:]

	var cmd, known = p.commands[name]
	if !known {
		return fmt.Errorf("command not found: %s", name)
	}
	if p.session != nil && !cmd.allowedWhileSearching {
		return errors.New("search still running")
	}
	return cmd.run(args)
}

func (p *Protocol) uciCommand([]string) error {
	fmt.Printf("id name %s %s\n", p.name, p.version)
	fmt.Printf("id author %s\n", p.author)
	for _, option := range p.options {
		fmt.Println(option.UciString())
	}
	fmt.Println("uciok")
	return nil
}

func (p *Protocol) setOptionCommand(fields []string) error {
	if len(fields) < 4 {
		return errors.New("invalid setoption arguments")
	}
	var name, value = fields[1], fields[3]
	for _, option := range p.options {
		if strings.EqualFold(option.UciName(), name) {
			return option.Set(value)
		}
	}
	return fmt.Errorf("unhandled option: %s", name)
}

func (p *Protocol) isReadyCommand([]string) error {
	p.engine.Prepare()
	fmt.Println("readyok")
	return nil
}

func (p *Protocol) positionCommand(args []string) error {
	if len(args) == 0 {
		return errors.New("missing position arguments")
	}

	var movesIndex = indexOf(args, "moves")
	var fen string
	switch args[0] {
	case "startpos":
		fen = chess.InitialPositionFen
	case "fen":
		if movesIndex == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIndex], " ")
		}
	default:
		return fmt.Errorf("unknown position command: %s", args[0])
	}

	var pos, err = chess.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}

	var positions = []chess.Position{*pos}
	if movesIndex >= 0 {
		var cur = *pos
		for _, lan := range args[movesIndex+1:] {
			var move = chess.ParseMove(&cur, lan)
			if move == chess.MoveEmpty || !cur.MakeMove(move) {
				return fmt.Errorf("illegal move in position command: %s", lan)
			}
			positions = append(positions, cur)
		}
	}
	p.positions = positions
	return nil
}

func (p *Protocol) goCommand(fields []string) error {
	p.session = startSession(p.engine, p.positions, parseLimits(fields))
	return nil
}

func (p *Protocol) stopCommand([]string) error {
	if p.session != nil {
		p.session.cancel()
	}
	return nil
}

func (p *Protocol) uciNewGameCommand([]string) error {
	p.engine.Clear()
	return nil
}

func (p *Protocol) printCommand([]string) error {
	if len(p.positions) == 0 {
		return errors.New("no position set")
	}
	fmt.Println(p.positions[len(p.positions)-1].Board())
	return nil
}

func searchInfoToUci(si engine.SearchInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d", si.Depth)
	if si.Score.Mate != 0 {
		fmt.Fprintf(&sb, " score mate %d", si.Score.Mate)
	} else {
		fmt.Fprintf(&sb, " score cp %d", si.Score.Centipawns)
	}
	var timeMs = si.Time.Milliseconds()
	fmt.Fprintf(&sb, " nodes %d time %d nps %d", si.Nodes, timeMs, si.Nodes*1000/(timeMs+1))
	if len(si.MainLine) != 0 {
		sb.WriteString(" pv")
		for _, move := range si.MainLine {
			sb.WriteByte(' ')
			sb.WriteString(move.String())
		}
	}
	return sb.String()
}

// limitSetter parses one "go" argument value into a LimitsType field; the
// table below drives parseLimits instead of a switch per argument name.
type limitSetter func(result *engine.LimitsType, value string)

var limitSetters = map[string]limitSetter{
	"wtime":     func(r *engine.LimitsType, v string) { r.WhiteTime, _ = strconv.Atoi(v) },
	"btime":     func(r *engine.LimitsType, v string) { r.BlackTime, _ = strconv.Atoi(v) },
	"winc":      func(r *engine.LimitsType, v string) { r.WhiteIncrement, _ = strconv.Atoi(v) },
	"binc":      func(r *engine.LimitsType, v string) { r.BlackIncrement, _ = strconv.Atoi(v) },
	"movestogo": func(r *engine.LimitsType, v string) { r.MovesToGo, _ = strconv.Atoi(v) },
	"depth":     func(r *engine.LimitsType, v string) { r.Depth, _ = strconv.Atoi(v) },
	"nodes":     func(r *engine.LimitsType, v string) { r.Nodes, _ = strconv.Atoi(v) },
	"movetime":  func(r *engine.LimitsType, v string) { r.MoveTime, _ = strconv.Atoi(v) },
}

func parseLimits(args []string) engine.LimitsType {
	var result engine.LimitsType
	for i := 0; i < len(args); i++ {
		if args[i] == "infinite" {
			result.Infinite = true
			continue
		}
		var set, known = limitSetters[args[i]]
		if !known || i+1 >= len(args) {
			continue
		}
		set(&result, args[i+1])
		i++
	}
	return result
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
