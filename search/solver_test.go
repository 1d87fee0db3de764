package search

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/domino14/connect4/board"
)

func newSolver(threads int, tt bool) *Solver {
	s := &Solver{}
	s.Init()
	s.SetThreads(threads)
	s.SetTranspositionTableOptim(tt)
	s.SetTTableMemFraction(0)
	return s
}

func TestSolverMatchesMinimax(t *testing.T) {
	is := is.New(t)
	solvers := []*Solver{
		newSolver(1, false),
		newSolver(4, false),
		newSolver(1, true),
		newSolver(4, true),
	}
	for i := 0; i < 15; i++ {
		b, c := randomPosition(i * 2)
		if len(b.LegalFiles()) == 0 {
			continue
		}
		depth := 1 + i%5
		expected := Evaluations(b, c, depth)
		for _, s := range solvers {
			best, evals, err := s.Solve(context.Background(), b, c, depth)
			is.NoErr(err)
			is.Equal(evals, expected)
			is.Equal(best, expected[0].File)
			is.Equal(s.Evaluations(), expected)
			is.True(s.Nodes() > 0)
		}
	}
}

func TestSolverFindsWin(t *testing.T) {
	is := is.New(t)
	b := mustNotation(t, "7/7/7/7/y6/rrr1yy1")
	s := newSolver(2, true)
	best, evals, err := s.Solve(context.Background(), b, board.Red, 2)
	is.NoErr(err)
	is.Equal(best, 3)
	is.Equal(evals[0].Score, WinScore)
}

func TestSolverNoLegalFiles(t *testing.T) {
	is := is.New(t)
	b := mustNotation(t, "ryryryr/yryryry/ryryryr/yryryry/ryryryr/yryryry")
	s := newSolver(1, false)
	best, evals, err := s.Solve(context.Background(), b, board.Red, 3)
	is.True(errors.Is(err, ErrNoLegalFiles))
	is.Equal(best, -1)
	is.Equal(len(evals), 0)
	is.True(!s.IsSolving())
}

func TestSolverRejectsNegativeDepth(t *testing.T) {
	is := is.New(t)
	s := newSolver(2, true)
	best, evals, err := s.Solve(context.Background(), board.New(), board.Red, -1)
	is.True(errors.Is(err, ErrBadDepth))
	is.Equal(best, -1)
	is.Equal(len(evals), 0)
	is.True(!s.IsSolving())
}

func TestSolverCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newSolver(2, false)
	best, _, err := s.Solve(ctx, board.New(), board.Red, 4)
	is.True(errors.Is(err, context.Canceled))
	is.Equal(best, -1)
	is.True(!s.IsSolving())
}

func TestSolverLogStream(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	s := newSolver(1, false)
	s.SetLogStream(&buf)

	b := mustNotation(t, "7/7/7/7/7/yyy1rr1")
	_, _, err := s.Solve(context.Background(), b, board.Red, 1)
	is.NoErr(err)

	var logged []LogSearch
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &logged))
	is.Equal(len(logged), 1)
	is.Equal(logged[0].Notation, "7/7/7/7/7/yyy1rr1")
	is.Equal(logged[0].Color, "red")
	is.Equal(logged[0].Depth, 1)
	is.Equal(logged[0].Best, 3)
	is.Equal(len(logged[0].Roots), board.NumFiles)
	// roots are logged in file order, not best first.
	for i, r := range logged[0].Roots {
		is.Equal(r.File, i)
		is.True(r.Nodes > 0)
		is.Equal(r.PV[0], r.File)
	}
	is.Equal(logged[0].Roots[3].Score, 0)
	is.Equal(logged[0].Roots[0].Score, -WinScore)
}

func TestSolverMetrics(t *testing.T) {
	s := newSolver(1, true)
	assert.Equal(t, "no search has been run yet", s.Metrics())

	_, _, err := s.Solve(context.Background(), board.New(), board.Yellow, 3)
	assert.NoError(t, err)
	m := s.Metrics()
	assert.Contains(t, m, "nodes: ")
	assert.Contains(t, m, "nodes per root file: mean")
	assert.Contains(t, m, "ttable: size 2^16")
}

func TestSolverPrincipalVariation(t *testing.T) {
	is := is.New(t)
	b := mustNotation(t, "7/7/7/7/y6/rrr1yy1")
	s := newSolver(1, false)
	_, _, err := s.Solve(context.Background(), b, board.Red, 2)
	is.NoErr(err)
	pv := s.PrincipalVariation()
	is.Equal(len(pv.Files), 3)
	is.Equal(pv.Files[0], 3)
	is.Equal(pv.Score(), WinScore)

	// the line is playable from the root.
	for i, f := range pv.Files {
		c := board.Red
		if i%2 == 1 {
			c = board.Yellow
		}
		is.NoErr(b.Drop(f, c))
	}
}
