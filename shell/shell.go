package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/config"
	"github.com/domino14/connect4/game"
	"github.com/domino14/connect4/search"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; start one with `new`")
	errSolving           = errors.New("the engine is busy thinking")
)

// ShellOptions are the settings that can be changed from the shell with
// `set`. They start out from the config.
type ShellOptions struct {
	depth       int
	threads     int
	ttable      bool
	autoReply   bool
	humanColor  board.Color
	firstPlayer string
}

var optionKeys = []string{"depth", "threads", "ttable", "autoreply", "human", "first"}

func NewShellOptions(cfg *config.Config) (*ShellOptions, error) {
	human, err := board.ColorFromString(cfg.GetString(config.ConfigHumanColor))
	if err != nil {
		return nil, err
	}
	return &ShellOptions{
		depth:       cfg.GetInt(config.ConfigSearchDepth),
		threads:     cfg.GetInt(config.ConfigSearchThreads),
		ttable:      cfg.GetBool(config.ConfigSearchTTable),
		autoReply:   cfg.GetBool(config.ConfigAutoReply),
		humanColor:  human,
		firstPlayer: strings.ToLower(cfg.GetString(config.ConfigFirstPlayer)),
	}, nil
}

func (opts *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case "depth":
		return true, strconv.Itoa(opts.depth)
	case "threads":
		return true, strconv.Itoa(opts.threads)
	case "ttable":
		return true, strconv.FormatBool(opts.ttable)
	case "autoreply":
		return true, strconv.FormatBool(opts.autoReply)
	case "human":
		return true, opts.humanColor.String()
	case "first":
		return true, opts.firstPlayer
	default:
		return false, "No such option: " + key
	}
}

func (opts *ShellOptions) ToDisplayText() string {
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range optionKeys {
		_, val := opts.Show(key)
		out.WriteString("  " + key + ": ")
		out.WriteString(val + "\n")
	}
	return out.String()
}

// Set changes one option and returns its new displayed value.
func (opts *ShellOptions) Set(key, value string) (string, error) {
	switch key {
	case "depth", "threads":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", err
		}
		if key == "depth" {
			if n < 0 {
				return "", errors.New("depth must not be negative")
			}
			opts.depth = n
		} else {
			if n < 1 {
				return "", errors.New("threads must be at least 1")
			}
			opts.threads = n
		}
	case "ttable", "autoreply":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", err
		}
		if key == "ttable" {
			opts.ttable = b
		} else {
			opts.autoReply = b
		}
	case "human":
		c, err := board.ColorFromString(value)
		if err != nil {
			return "", err
		}
		opts.humanColor = c
	case "first":
		v := strings.ToLower(value)
		if v != "random" {
			if _, err := board.ColorFromString(v); err != nil {
				return "", errors.New("first must be red, yellow or random")
			}
		}
		opts.firstPlayer = v
	default:
		return "", errors.New("no such option: " + key)
	}
	_, val := opts.Show(key)
	return val, nil
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type CmdOptions map[string]string

func (c CmdOptions) String(key string) string {
	return c[key]
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) BoolDefault(key string, defaultB bool) (bool, error) {
	v, ok := c[key]
	if !ok {
		return defaultB, nil
	}
	return strconv.ParseBool(v)
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l          *readline.Instance
	out        io.Writer
	config     *config.Config
	execPath   string
	gitVersion string

	options *ShellOptions
	game    *game.Game
	solver  *search.Solver

	ctx       context.Context
	cancel    context.CancelFunc
	searchLog *os.File
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) (*ShellController, error) {
	opts, err := NewShellOptions(cfg)
	if err != nil {
		return nil, err
	}
	solver := &search.Solver{}
	solver.Init()
	solver.SetTTableMemFraction(cfg.GetFloat64(config.ConfigTTableMemFraction))

	sc := &ShellController{
		out:        os.Stderr,
		config:     cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
		options:    opts,
		solver:     solver,
	}
	sc.ctx, sc.cancel = context.WithCancel(context.Background())

	if logFile := cfg.GetString(config.ConfigSearchLogFile); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening search log: %w", err)
		}
		sc.searchLog = f
		solver.SetLogStream(f)
		log.Info().Str("file", logFile).Msg("logging-searches")
	}
	return sc, nil
}

func (sc *ShellController) initReadline() error {
	historyFile := sc.config.GetString(config.ConfigHistoryFile)
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), "connect4_readline.tmp")
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[33mconnect4>\033[0m ",
		HistoryFile:     historyFile,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	sc.l = l
	sc.out = l.Stderr()
	return nil
}

// extractFields splits a command line into the command, its positional
// arguments, and its -options. Every option takes exactly one value.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}

	for idx := 1; idx < len(fields); idx++ {
		f := fields[idx]
		if isOption(f) {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[f[1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, f)
	}
	return &shellcmd{
		cmd:     cmd,
		args:    args,
		options: options,
	}, nil
}

// isOption reports whether f names an option rather than being a value such
// as a negative number.
func isOption(f string) bool {
	if len(f) < 2 || f[0] != '-' {
		return false
	}
	_, err := strconv.Atoi(f)
	return err != nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	if cmd.cmd == "exit" || cmd.cmd == "bye" {
		sig <- syscall.SIGINT
		return nil, errors.New("sending quit signal")
	}
	return sc.dispatch(cmd)
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "help":
		return sc.help(cmd)
	case "new", "n":
		return sc.newGame(cmd)
	case "color":
		return sc.color(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "aiplay", "ai":
		return sc.aiplay(cmd)
	case "best":
		return sc.best(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "eval":
		return sc.eval(cmd)
	case "load":
		return sc.load(cmd)
	case "notation":
		return sc.notation(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "perft":
		return sc.perft(cmd)
	case "set":
		return sc.set(cmd)
	case "script":
		return sc.script(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line without starting the interactive
// loop.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	if err := sc.initReadline(); err != nil {
		log.Err(err).Msg("could-not-start-readline")
		sig <- syscall.SIGINT
		return
	}
	defer sc.l.Close()

	if sc.gitVersion != "" {
		sc.showMessage("connect4 " + sc.gitVersion)
	}
	sc.showMessage("Type `help` for a list of commands.")

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if err != nil {
			if line == "exit" || line == "bye" {
				break
			}
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any running search and closes open files.
func (sc *ShellController) Cleanup() {
	sc.cancel()
	if sc.searchLog != nil {
		if err := sc.searchLog.Close(); err != nil {
			log.Err(err).Msg("error-closing-search-log")
		}
	}
}
