package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/domino14/connect4/board"
)

const DefaultTTableMemFraction = 0.01

var (
	ErrNoLegalFiles = errors.New("no legal files to search")
	ErrSolving      = errors.New("solver is already running")
	ErrBadDepth     = errors.New("search depth must not be negative")
)

// Solver runs the same search as BestMove, with optional extras that do
// not change its result: root files searched in parallel, a transposition
// table, node counting, and a YAML log of root values.
//
// Board ownership: Solve takes the board by value, and every root file is
// searched on its own copy, so goroutines never share a board.
type Solver struct {
	threads                 int
	transpositionTableOptim bool
	ttableMemFraction       float64
	ttable                  *TranspositionTable

	solving   atomic.Bool
	nodes     atomic.Uint64
	rootNodes []uint64
	rootPVs   []PVLine
	evals     []Eval
	bestPV    PVLine
	elapsed   time.Duration

	logStream io.Writer
}

// LogRoot is one root file's entry in the log stream.
type LogRoot struct {
	File  int    `yaml:"file"`
	Score int    `yaml:"score"`
	Nodes uint64 `yaml:"nodes"`
	PV    []int  `yaml:"pv,flow"`
}

// LogSearch is written to the log stream once per Solve.
type LogSearch struct {
	Notation string    `yaml:"notation"`
	Color    string    `yaml:"color"`
	Depth    int       `yaml:"depth"`
	Best     int       `yaml:"best"`
	Roots    []LogRoot `yaml:"roots"`
}

// Init initializes the solver
func (s *Solver) Init() {
	s.threads = 1
	s.transpositionTableOptim = false
	s.ttableMemFraction = DefaultTTableMemFraction
	s.ttable = GlobalTranspositionTable
}

func (s *Solver) SetThreads(threads int) {
	s.threads = max(threads, 1)
}

func (s *Solver) SetTranspositionTableOptim(tt bool) {
	s.transpositionTableOptim = tt
}

func (s *Solver) SetTTableMemFraction(f float64) {
	s.ttableMemFraction = f
}

func (s *Solver) SetLogStream(l io.Writer) {
	s.logStream = l
}

func (s *Solver) IsSolving() bool {
	return s.solving.Load()
}

func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// Evaluations returns the root values of the last Solve, best first.
func (s *Solver) Evaluations() []Eval {
	return s.evals
}

// PrincipalVariation returns the expected line of play found by the last
// Solve, starting with the best file. Transposition table hits cut the
// line short.
func (s *Solver) PrincipalVariation() PVLine {
	return s.bestPV
}

// Solve returns the best file for c, searching depth plies past the move
// itself, along with every root file's value ordered best first. A
// negative depth is rejected with ErrBadDepth. The context is checked
// before each root file is started.
func (s *Solver) Solve(ctx context.Context, b board.Board, c board.Color, depth int) (int, []Eval, error) {
	if !s.solving.CompareAndSwap(false, true) {
		return -1, nil, ErrSolving
	}
	defer s.solving.Store(false)

	if depth < 0 {
		return -1, nil, ErrBadDepth
	}
	files := b.LegalFiles()
	if len(files) == 0 {
		return -1, nil, ErrNoLegalFiles
	}
	if s.threads < 1 {
		s.threads = 1
	}
	if s.transpositionTableOptim {
		if s.ttable == nil {
			s.ttable = GlobalTranspositionTable
		}
		if s.threads > 1 {
			s.ttable.SetMultiThreadedMode()
		} else {
			s.ttable.SetSingleThreadedMode()
		}
		s.ttable.Reset(s.ttableMemFraction)
	}

	log.Debug().Str("color", c.String()).Int("depth", depth).Int("threads", s.threads).
		Bool("ttable", s.transpositionTableOptim).Msg("search-start")
	start := time.Now()
	s.nodes.Store(0)

	evals := make([]Eval, len(files))
	rootNodes := make([]uint64, len(files))
	rootPVs := make([]PVLine, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.threads)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cp := b
			cp.Insert(f, c)
			var nodes uint64
			var pv PVLine
			score := s.minimax(&cp, c.Other(), depth, NegInfinity, Infinity, &nodes, &pv)
			evals[i] = Eval{File: f, Score: score}
			rootNodes[i] = nodes
			rootPVs[i].Update(f, pv, score)
			s.nodes.Add(nodes)
			log.Debug().Int("file", f).Int("score", score).Uint64("nodes", nodes).Msg("root-file-searched")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return -1, nil, err
	}
	s.elapsed = time.Since(start)
	s.rootNodes = rootNodes
	s.rootPVs = rootPVs

	if s.logStream != nil {
		s.writeLog(b, c, depth, evals)
	}
	sortEvals(evals, c)
	s.evals = evals
	for _, pv := range rootPVs {
		if pv.Files[0] == evals[0].File {
			s.bestPV = pv
		}
	}

	log.Debug().Int("best", evals[0].File).Int("score", evals[0].Score).
		Uint64("nodes", s.nodes.Load()).Dur("elapsed", s.elapsed).Msg("search-finished")
	return evals[0].File, evals, nil
}

// minimax is the package-level minimax with node counting, a principal
// variation, and an optional transposition table.
func (s *Solver) minimax(b *board.Board, toMove board.Color, depth, alpha, beta int, nodes *uint64, pv *PVLine) int {
	*nodes++
	pv.Clear()
	if depth == 0 {
		return terminalScore(b, toMove)
	}

	var key uint64
	if s.transpositionTableOptim {
		key = positionKey(b, toMove)
		e := s.ttable.lookup(key)
		if e.valid() && int(e.depth) == depth {
			score := int(e.score)
			switch e.flag {
			case TTExact:
				return score
			case TTLower:
				alpha = max(alpha, score)
			case TTUpper:
				beta = min(beta, score)
			}
			if beta <= alpha {
				return score
			}
		}
	}
	alphaOrig, betaOrig := alpha, beta

	var childPV PVLine
	var best int
	if toMove == board.Red {
		best = NegInfinity
		for i, f := range b.LegalFiles() {
			b.Insert(f, toMove)
			score := s.minimax(b, toMove.Other(), depth-1, alpha, beta, nodes, &childPV)
			b.Remove(f)

			if i == 0 || score > best {
				pv.Update(f, childPV, score)
			}
			best = max(best, score)
			alpha = max(alpha, best)
			if beta <= alpha {
				break
			}
		}
	} else {
		best = Infinity
		for i, f := range b.LegalFiles() {
			b.Insert(f, toMove)
			score := s.minimax(b, toMove.Other(), depth-1, alpha, beta, nodes, &childPV)
			b.Remove(f)

			if i == 0 || score < best {
				pv.Update(f, childPV, score)
			}
			best = min(best, score)
			beta = min(beta, best)
			if beta <= alpha {
				break
			}
		}
	}

	if s.transpositionTableOptim && depth <= 0xFF {
		entry := TableEntry{score: int32(best), depth: uint8(depth)}
		switch {
		case best <= alphaOrig:
			entry.flag = TTUpper
		case best >= betaOrig:
			entry.flag = TTLower
		default:
			entry.flag = TTExact
		}
		s.ttable.store(key, entry)
	}
	return best
}

func (s *Solver) writeLog(b board.Board, c board.Color, depth int, evals []Eval) {
	ranked := slices.Clone(evals)
	sortEvals(ranked, c)
	entry := LogSearch{
		Notation: b.Notation(),
		Color:    c.String(),
		Depth:    depth,
		Best:     ranked[0].File,
		Roots: lo.Map(evals, func(e Eval, i int) LogRoot {
			return LogRoot{File: e.File, Score: e.Score, Nodes: s.rootNodes[i], PV: s.rootPVs[i].Files}
		}),
	}
	out, err := yaml.Marshal([]LogSearch{entry})
	if err != nil {
		log.Err(err).Msg("error-marshalling-search-log")
		return
	}
	if _, err := s.logStream.Write(out); err != nil {
		log.Err(err).Msg("error-writing-search-log")
	}
}

// Metrics describes the last Solve.
func (s *Solver) Metrics() string {
	if len(s.rootNodes) == 0 {
		return "no search has been run yet"
	}
	var sb strings.Builder
	nodes := s.nodes.Load()
	fmt.Fprintf(&sb, "nodes: %d\n", nodes)
	fmt.Fprintf(&sb, "elapsed: %v\n", s.elapsed)
	if secs := s.elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(&sb, "nps: %.0f\n", float64(nodes)/secs)
	}
	perRoot := lo.Map(s.rootNodes, func(n uint64, _ int) float64 { return float64(n) })
	mean, std := stat.MeanStdDev(perRoot, nil)
	if len(perRoot) < 2 {
		std = 0
	}
	fmt.Fprintf(&sb, "nodes per root file: mean %.1f, stddev %.1f\n", mean, std)
	if s.transpositionTableOptim {
		t := s.ttable
		fmt.Fprintf(&sb, "ttable: size 2^%d, created %d, lookups %d, hits %d, t2 collisions %d\n",
			t.sizePowerOf2, t.created.Load(), t.lookups.Load(), t.hits.Load(), t.t2collisions.Load())
	}
	return sb.String()
}
