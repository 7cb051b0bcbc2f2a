package ecs

import "github.com/google/uuid"

// Events published on the manager's bus. They are delivered one frame
// after the change that produced them.

type EntityAllocated struct {
	Entity Handle
	UUID   uuid.UUID
}

type EntityDestroyed struct {
	Entity Handle
	UUID   uuid.UUID
}

type ComponentAdded struct {
	Entity Handle
	Type   TypeID
}

type ComponentRemoved struct {
	Entity Handle
	Type   TypeID
}
