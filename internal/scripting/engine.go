package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/chilli/backbone/internal/core/system"
)

var (
	// ErrBadStage is returned for a script whose stage names no pipeline stage.
	ErrBadStage = errors.New("unknown stage")
	// ErrBadScript is returned for a script that does not return a system table.
	ErrBadScript = errors.New("script must return a table with a run function")
)

// Engine wraps a single gopher-lua VM shared by every script system.
// Single-goroutine access only (main loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
	ctx *system.Context // bound for the duration of a call
}

// Script is one loaded lua system definition.
type Script struct {
	Name        string
	Stage       system.Stage
	File        string
	onCreate    *lua.LFunction
	run         *lua.LFunction
	onTerminate *lua.LFunction
}

func NewEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e := &Engine{vm: vm, log: log}
	e.openHostModule()
	return e
}

// LoadDir loads every .lua file in dir in name order. A missing dir yields
// no scripts.
func (e *Engine) LoadDir(dir string) ([]*Script, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []*Script
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		sc, err := e.LoadFile(path)
		if err != nil {
			return nil, err
		}
		e.log.Debug("loaded lua script",
			zap.String("file", path),
			zap.String("name", sc.Name),
			zap.Stringer("stage", sc.Stage))
		out = append(out, sc)
	}
	return out, nil
}

// LoadFile runs path and reads the system table it returns.
func (e *Engine) LoadFile(path string) (*Script, error) {
	fn, err := e.vm.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	e.vm.Push(fn)
	if err := e.vm.PCall(0, 1, nil); err != nil {
		return nil, fmt.Errorf("run %s: %w", path, err)
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	t, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrBadScript)
	}
	run, ok := t.RawGetString("run").(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrBadScript)
	}

	sc := &Script{
		Name:  lStr(t, "name"),
		Stage: system.StageUpdate,
		File:  path,
		run:   run,
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}
	if s := lStr(t, "stage"); s != "" {
		st, ok := system.ParseStage(s)
		if !ok {
			return nil, fmt.Errorf("%s: %w %q", path, ErrBadStage, s)
		}
		sc.Stage = st
	}
	sc.onCreate, _ = t.RawGetString("on_create").(*lua.LFunction)
	sc.onTerminate, _ = t.RawGetString("on_terminate").(*lua.LFunction)
	return sc, nil
}

// call runs fn with ctx bound to the host module. Lua errors are logged and
// swallowed so one bad frame does not stop the loop.
func (e *Engine) call(sc *Script, fn *lua.LFunction, ctx *system.Context) {
	if fn == nil {
		return
	}
	e.ctx = ctx
	defer func() { e.ctx = nil }()
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}); err != nil {
		e.log.Error("lua system error",
			zap.String("script", sc.Name),
			zap.Error(err))
	}
}

// Global returns a lua global, for hosts that share state with scripts.
func (e *Engine) Global(name string) lua.LValue {
	return e.vm.GetGlobal(name)
}

func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	if e.vm != nil {
		e.vm.Close()
	}
}
