package scripting

import (
	"fmt"
	"time"

	"github.com/framewright/engine/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ScriptName is the component type name of Script.
const ScriptName = "Script"

// Script drives its entity from a Lua behaviour module. Source names the
// module, i.e. the script file without its extension.
type Script struct {
	ecs.Base `yaml:"-"`
	Source   string `yaml:"source"`

	engine *Engine
	mod    *lua.LTable
	self   *lua.LTable
	failed bool
}

// Register adds the Script type to m's registry.
func Register(m *ecs.Manager, e *Engine) (ecs.TypeID, error) {
	id, err := m.Types().Register(ecs.Descriptor{
		Name: ScriptName,
		New:  func() ecs.Component { return &Script{engine: e} },
	})
	if err != nil {
		return 0, fmt.Errorf("register %s: %w", ScriptName, err)
	}
	return id, nil
}

// Self is the Lua table handed to every hook, nil before Initialize.
func (s *Script) Self() *lua.LTable { return s.self }

func (s *Script) Initialize() {
	if s.Source == "" {
		s.failed = true
		s.engine.log.Warn("script component without source", zap.Stringer("entity", s.Entity()))
		return
	}
	mod, err := s.engine.Module(s.Source)
	if err != nil {
		s.failed = true
		s.engine.log.Error("load behaviour failed", zap.String("source", s.Source), zap.Error(err))
		return
	}
	s.mod = mod
	s.self = s.engine.instance(mod, s.Entity())
	s.call("initialize")
}

func (s *Script) Start() { s.call("start") }

func (s *Script) Update(dt time.Duration) {
	s.call("update", lua.LNumber(dt.Seconds()))
}

func (s *Script) Shutdown() { s.call("shutdown") }

func (s *Script) call(hook string, args ...lua.LValue) {
	if s.failed || s.mod == nil {
		return
	}
	if err := s.engine.hook(s.mod, s.self, hook, args...); err != nil {
		// A failing behaviour is switched off instead of erroring every frame.
		s.failed = true
		s.engine.log.Error("lua hook error",
			zap.String("source", s.Source),
			zap.String("hook", hook),
			zap.Stringer("entity", s.Entity()),
			zap.Error(err))
	}
}
