package ecs

import "github.com/rotisserie/eris"

var (
	ErrCapacityExhausted     = eris.New("entity capacity exhausted")
	ErrInvalidHandle         = eris.New("invalid entity handle")
	ErrUnknownComponentType  = eris.New("unknown component type")
	ErrTooManyComponentTypes = eris.New("too many component types")
	ErrDuplicateTypeName     = eris.New("duplicate component type name")
	ErrInvalidDescriptor     = eris.New("component descriptor needs a name and a constructor")
	ErrNilComponent          = eris.New("component constructor returned nil")
	ErrHierarchyCycle        = eris.New("reparent would create a cycle")
)
