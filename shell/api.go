package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/game"
	"github.com/domino14/connect4/search"
)

type searchParams struct {
	depth   int
	threads int
	ttable  bool
}

// searchParams returns the shell's search settings, overridden by any
// -depth, -threads or -tt options on cmd.
func (sc *ShellController) searchParams(cmd *shellcmd) (searchParams, error) {
	p := searchParams{
		depth:   sc.options.depth,
		threads: sc.options.threads,
		ttable:  sc.options.ttable,
	}
	var err error
	if p.depth, err = cmd.options.IntDefault("depth", p.depth); err != nil {
		return p, err
	}
	if p.threads, err = cmd.options.IntDefault("threads", p.threads); err != nil {
		return p, err
	}
	if p.ttable, err = cmd.options.BoolDefault("tt", p.ttable); err != nil {
		return p, err
	}
	if p.depth < 0 {
		return p, errors.New("depth must not be negative")
	}
	return p, nil
}

func (sc *ShellController) solve(p searchParams) (int, []search.Eval, error) {
	if sc.solver.IsSolving() {
		return -1, nil, errSolving
	}
	sc.solver.SetThreads(p.threads)
	sc.solver.SetTranspositionTableOptim(p.ttable)
	return sc.solver.Solve(sc.ctx, sc.game.Board(), sc.game.PlayerOnTurn(), p.depth)
}

// engineMove has the engine play for the side on turn.
func (sc *ShellController) engineMove(p searchParams) (string, error) {
	c := sc.game.PlayerOnTurn()
	start := time.Now()
	file, evals, err := sc.solve(p)
	if err != nil {
		return "", err
	}
	log.Info().Str("color", c.String()).Int("file", file).Int("score", evals[0].Score).
		Int("depth", p.depth).Uint64("nodes", sc.solver.Nodes()).
		Dur("elapsed", time.Since(start)).Msg("engine-move")
	if err := sc.game.PlayFile(file); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s plays %d\n%s", c, file, sc.game.ToDisplayText()), nil
}

// engineReply plays the engine's move if auto-reply is on and it is the
// engine's turn.
func (sc *ShellController) engineReply() (string, error) {
	if !sc.options.autoReply || sc.game.Playing() != game.StatePlaying ||
		sc.game.PlayerOnTurn() == sc.options.humanColor {
		return "", nil
	}
	p, err := sc.searchParams(&shellcmd{options: CmdOptions{}})
	if err != nil {
		return "", err
	}
	return sc.engineMove(p)
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	if sc.solver.IsSolving() {
		return nil, errSolving
	}
	first := sc.options.firstPlayer
	if f := cmd.options.String("first"); f != "" {
		first = strings.ToLower(f)
	}
	if first == "random" {
		sc.game = game.NewGameRandomFirst()
	} else {
		c, err := board.ColorFromString(first)
		if err != nil {
			return nil, err
		}
		sc.game = game.NewGame(c)
	}
	log.Debug().Str("first", sc.game.FirstPlayer().String()).
		Str("human", sc.options.humanColor.String()).Msg("new-game")

	out := sc.game.ToDisplayText()
	reply, err := sc.engineReply()
	if err != nil {
		return nil, err
	}
	return msg(out + reply), nil
}

func (sc *ShellController) color(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg("you are playing " + sc.options.humanColor.String()), nil
	}
	val, err := sc.options.Set("human", cmd.args[0])
	if err != nil {
		return nil, err
	}
	return msg("you are now playing " + val), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <file>")
	}
	if sc.solver.IsSolving() {
		return nil, errSolving
	}
	file, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", game.ErrIllegalFile, cmd.args[0])
	}
	if err := sc.game.PlayFile(file); err != nil {
		return nil, err
	}
	out := sc.game.ToDisplayText()
	reply, err := sc.engineReply()
	if err != nil {
		return nil, err
	}
	return msg(out + reply), nil
}

func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.game.Playing() != game.StatePlaying {
		return nil, game.ErrGameOver
	}
	p, err := sc.searchParams(cmd)
	if err != nil {
		return nil, err
	}
	out, err := sc.engineMove(p)
	if err != nil {
		return nil, err
	}
	return msg(out), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	p, err := sc.searchParams(cmd)
	if err != nil {
		return nil, err
	}
	_, evals, err := sc.solve(p)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Evaluations for %s at depth %d:\n", sc.game.PlayerOnTurn(), p.depth)
	sb.WriteString(evalTableHeader())
	for i, e := range evals {
		sb.WriteString(evalTableRow(i, e))
		sb.WriteString("\n")
	}
	pv := sc.solver.PrincipalVariation()
	fmt.Fprintf(&sb, "principal variation: %s\n", pv.String())
	sb.WriteString(sc.solver.Metrics())
	return msg(sb.String()), nil
}

func evalTableHeader() string {
	return "     File  Score\n"
}

func evalTableRow(idx int, e search.Eval) string {
	return fmt.Sprintf("%3d: %-6d%6d", idx+1, e.File, e.Score)
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.solver.IsSolving() {
		return nil, errSolving
	}
	n, err := cmd.options.IntDefault("n", 1)
	if err != nil {
		return nil, err
	}
	if len(cmd.args) > 0 {
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		if err := sc.game.UnplayLastMove(); err != nil {
			return nil, err
		}
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	b := sc.game.Board()
	return msg(fmt.Sprintf("heuristic evaluation: %d (positive favors red)", b.Evaluate())), nil
}

// onTurnFromCounts guesses the side to move from the number of pieces of
// each color: the side with fewer pieces, or red if they are equal.
func onTurnFromCounts(b board.Board) board.Color {
	if b.NumPiecesOf(board.Red) > b.NumPiecesOf(board.Yellow) {
		return board.Yellow
	}
	return board.Red
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <notation> [-turn red|yellow]")
	}
	if sc.solver.IsSolving() {
		return nil, errSolving
	}
	b, err := board.FromNotation(cmd.args[0])
	if err != nil {
		return nil, err
	}
	onTurn := onTurnFromCounts(b)
	if t := cmd.options.String("turn"); t != "" {
		if onTurn, err = board.ColorFromString(t); err != nil {
			return nil, err
		}
	}
	g, err := game.FromNotation(cmd.args[0], onTurn)
	if err != nil {
		return nil, err
	}
	sc.game = g
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) notation(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	b := sc.game.Board()
	return msg(b.Notation()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) perft(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: perft <depth>")
	}
	depth, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if depth < 0 {
		return nil, errors.New("depth must not be negative")
	}
	b := board.New()
	toMove := board.Red
	if sc.game != nil {
		b = sc.game.Board()
		toMove = sc.game.PlayerOnTurn()
	}
	start := time.Now()
	n := search.Perft(&b, depth, toMove)
	elapsed := time.Since(start)
	log.Debug().Int("depth", depth).Uint64("positions", n).Dur("elapsed", elapsed).Msg("perft")
	return msg(fmt.Sprintf("perft(%d) = %d (%v)", depth, n, elapsed)), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(sc.options.ToDisplayText()), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		_, val := sc.options.Show(opt)
		return msg(val), nil
	}
	ret, err := sc.options.Set(opt, cmd.args[1])
	if err != nil {
		return nil, err
	}
	return msg("set " + opt + " to " + ret), nil
}
