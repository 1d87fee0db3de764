package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/connect4/search"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("c4_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// Exec runs one shell command line.
func Exec(L *lua.LState) int {
	line := L.ToString(1)
	sc := getShell(L)
	cmd, err := extractFields(line)
	if err == nil && (cmd.cmd == "exit" || cmd.cmd == "bye" || cmd.cmd == "script") {
		err = errors.New(cmd.cmd + " is not allowed in scripts")
	}
	var r *Response
	if err == nil {
		r, err = sc.dispatch(cmd)
	}
	if err != nil {
		log.Err(err).Str("line", line).Msg("error-executing-script-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	if r == nil {
		L.Push(lua.LString(""))
	} else {
		L.Push(lua.LString(r.message))
	}
	// return number of results pushed to stack.
	return 1
}

func State(L *lua.LState) int {
	sc := getShell(L)
	if sc.game == nil {
		L.Push(lua.LNil)
		return 1
	}
	b := sc.game.Board()
	t := L.NewTable()
	t.RawSetString("notation", lua.LString(b.Notation()))
	t.RawSetString("to_move", lua.LString(sc.game.PlayerOnTurn().String()))
	t.RawSetString("state", lua.LString(sc.game.Playing().String()))
	if w, ok := sc.game.Winner(); ok {
		t.RawSetString("winner", lua.LString(w.String()))
	}
	moves := L.NewTable()
	for _, turn := range sc.game.History() {
		moves.Append(lua.LNumber(turn.File))
	}
	t.RawSetString("moves", moves)
	L.Push(t)
	return 1
}

func Best(L *lua.LState) int {
	sc := getShell(L)
	if sc.game == nil {
		L.Push(lua.LNumber(-1))
		return 1
	}
	depth := L.OptInt(1, sc.options.depth)
	if depth < 0 {
		log.Error().Int("depth", depth).Msg("negative-script-depth")
		L.Push(lua.LString("ERROR: depth must not be negative"))
		return 1
	}
	f := search.BestMove(sc.game.Board(), sc.game.PlayerOnTurn(), depth)
	L.Push(lua.LNumber(f))
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("c4_shell", lsc)
	L.SetGlobal("c4_exec", L.NewFunction(Exec))
	L.SetGlobal("c4_state", L.NewFunction(State))
	L.SetGlobal("c4_best", L.NewFunction(Best))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("ran " + filepath), nil
}
