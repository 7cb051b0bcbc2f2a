package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/framewright/engine/internal/core/ecs"
	"github.com/framewright/engine/internal/core/transform"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM that runs entity behaviour scripts.
// Single-goroutine access only (frame loop).
//
// A behaviour script returns a table of hooks:
//
//	local M = {}
//	function M.start(self) end
//	function M.update(self, dt) end
//	return M
//
// Hooks receive a per-component self table whose id field is the owning
// entity handle. The global entity table exposes the manager to scripts.
type Engine struct {
	vm      *lua.LState
	log     *zap.Logger
	m       *ecs.Manager
	dir     string
	modules map[string]*lua.LTable
}

// NewEngine creates a Lua engine bound to m and preloads every .lua file in
// scriptsDir as a behaviour module named after the file.
func NewEngine(scriptsDir string, m *ecs.Manager, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, m: m, dir: scriptsDir, modules: make(map[string]*lua.LTable)}
	e.registerEntityAPI()

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".lua")
		if _, err := e.Module(name); err != nil {
			return err
		}
	}
	return nil
}

// Module returns the hook table of the named behaviour, loading
// <dir>/<name>.lua on first use.
func (e *Engine) Module(name string) (*lua.LTable, error) {
	if mod, ok := e.modules[name]; ok {
		return mod, nil
	}
	path := filepath.Join(e.dir, name+".lua")
	top := e.vm.GetTop()
	if err := e.vm.DoFile(path); err != nil {
		e.vm.SetTop(top)
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	var ret lua.LValue = lua.LNil
	if e.vm.GetTop() > top {
		ret = e.vm.Get(top + 1)
	}
	e.vm.SetTop(top)
	mod, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("load %s: script returned %s, want a table", path, ret.Type())
	}
	e.modules[name] = mod
	e.log.Debug("loaded lua script", zap.String("file", path))
	return mod, nil
}

// Modules lists the loaded behaviour names.
func (e *Engine) Modules() []string {
	out := make([]string, 0, len(e.modules))
	for name := range e.modules {
		out = append(out, name)
	}
	return out
}

// instance builds the self table for one component. Fields missing on
// self fall through to the module.
func (e *Engine) instance(mod *lua.LTable, owner ecs.Handle) *lua.LTable {
	self := e.vm.NewTable()
	self.RawSetString("id", lua.LNumber(owner))
	meta := e.vm.NewTable()
	meta.RawSetString("__index", mod)
	e.vm.SetMetatable(self, meta)
	return self
}

// hook calls mod[name](self, args...) if the hook exists.
func (e *Engine) hook(mod, self *lua.LTable, name string, args ...lua.LValue) error {
	fn, ok := mod.RawGetString(name).(*lua.LFunction)
	if !ok {
		return nil
	}
	return e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, append([]lua.LValue{self}, args...)...)
}

// DoString runs a chunk in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// GetNumber reads a numeric global.
func (e *Engine) GetNumber(name string) float64 {
	return float64(lua.LVAsNumber(e.vm.GetGlobal(name)))
}

func (e *Engine) registerEntityAPI() {
	api := e.vm.NewTable()
	e.vm.SetFuncs(api, map[string]lua.LGFunction{
		"spawn":        e.luaSpawn,
		"destroy":      e.luaDestroy,
		"valid":        e.luaValid,
		"name":         e.luaName,
		"position":     e.luaPosition,
		"set_position": e.luaSetPosition,
		"parent":       e.luaParent,
		"set_parent":   e.luaSetParent,
		"add":          e.luaAdd,
		"has":          e.luaHas,
	})
	e.vm.SetGlobal("entity", api)
}

func checkHandle(L *lua.LState, n int) ecs.Handle {
	return ecs.Handle(uint64(L.CheckNumber(n)))
}

func (e *Engine) luaSpawn(L *lua.LState) int {
	h, err := e.m.Allocate()
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	if L.GetTop() >= 1 {
		e.m.Entity(h).SetName(L.CheckString(1))
	}
	L.Push(lua.LNumber(h))
	return 1
}

func (e *Engine) luaDestroy(L *lua.LState) int {
	e.m.Destroy(checkHandle(L, 1))
	return 0
}

func (e *Engine) luaValid(L *lua.LState) int {
	L.Push(lua.LBool(e.m.Valid(checkHandle(L, 1))))
	return 1
}

func (e *Engine) luaName(L *lua.LState) int {
	ent := e.m.Entity(checkHandle(L, 1))
	if ent == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(ent.Name()))
	return 1
}

func (e *Engine) luaPosition(L *lua.LState) int {
	ent := e.m.Entity(checkHandle(L, 1))
	if ent == nil {
		return 0
	}
	p := ent.WorldPosition()
	L.Push(lua.LNumber(p.X))
	L.Push(lua.LNumber(p.Y))
	L.Push(lua.LNumber(p.Z))
	return 3
}

func (e *Engine) luaSetPosition(L *lua.LState) int {
	ent := e.m.Entity(checkHandle(L, 1))
	if ent == nil {
		return 0
	}
	p := transform.V3(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)), float64(L.CheckNumber(4)))
	ent.SetWorldPosition(p, true)
	return 0
}

func (e *Engine) luaParent(L *lua.LState) int {
	ent := e.m.Entity(checkHandle(L, 1))
	if ent == nil || !ent.HasParent() {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(ent.Parent()))
	return 1
}

func (e *Engine) luaSetParent(L *lua.LState) int {
	parent := ecs.Nil
	if L.Get(2) != lua.LNil {
		parent = checkHandle(L, 2)
	}
	if err := e.m.SetParent(checkHandle(L, 1), parent); err != nil {
		L.Push(lua.LString(err.Error()))
		return 1
	}
	return 0
}

func (e *Engine) luaAdd(L *lua.LState) int {
	h := checkHandle(L, 1)
	name := L.CheckString(2)
	typ, ok := e.m.Types().Lookup(name)
	if !ok {
		L.Push(lua.LFalse)
		L.Push(lua.LString("unknown component type " + name))
		return 2
	}
	if _, err := e.m.AddComponent(h, typ); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (e *Engine) luaHas(L *lua.LState) int {
	typ, ok := e.m.Types().Lookup(L.CheckString(2))
	L.Push(lua.LBool(ok && e.m.HasComponent(checkHandle(L, 1), typ)))
	return 1
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
