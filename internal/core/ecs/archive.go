package ecs

import (
	"github.com/framewright/engine/internal/core/transform"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// archivedEntity is the YAML form of an entity subtree. Component data is
// kept as raw nodes so each type decodes into its own struct.
type archivedEntity struct {
	UUID       string              `yaml:"uuid"`
	Name       string              `yaml:"name,omitempty"`
	Transform  transform.Transform `yaml:"transform"`
	Components []archivedComponent `yaml:"components,omitempty"`
	Children   []archivedEntity    `yaml:"children,omitempty"`
}

type archivedComponent struct {
	Type string    `yaml:"type"`
	Data yaml.Node `yaml:"data,omitempty"`
}

// Serialize writes h and its descendants as YAML. Local transforms,
// names, UUIDs and exported component fields are recorded.
func (m *Manager) Serialize(h Handle) ([]byte, error) {
	e := m.pool.resolve(h)
	if e == nil {
		return nil, ErrInvalidHandle
	}
	a, err := m.archive(e)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(&a)
	if err != nil {
		return nil, eris.Wrap(err, "marshal entity archive")
	}
	return out, nil
}

func (m *Manager) archive(e *Entity) (archivedEntity, error) {
	a := archivedEntity{
		UUID:      e.uuid.String(),
		Name:      e.name,
		Transform: e.local,
	}
	for _, typ := range e.types {
		c := m.component(e, typ)
		if c == nil {
			continue
		}
		var node yaml.Node
		if err := node.Encode(c); err != nil {
			return a, eris.Wrapf(err, "encode component %s", m.types.Name(typ))
		}
		a.Components = append(a.Components, archivedComponent{Type: m.types.Name(typ), Data: node})
	}
	for _, ch := range e.children {
		child := m.pool.resolve(ch)
		if child == nil {
			continue
		}
		ca, err := m.archive(child)
		if err != nil {
			return a, err
		}
		a.Children = append(a.Children, ca)
	}
	return a, nil
}

// Deserialize rebuilds a subtree written by Serialize as a new root. The
// archived UUIDs are kept unless they are already taken. On error every
// entity created so far is queued for destruction.
func (m *Manager) Deserialize(data []byte) (Handle, error) {
	return m.restore(data, false)
}

// Instantiate is Deserialize with fresh UUIDs for every entity, for
// documents used as templates.
func (m *Manager) Instantiate(data []byte) (Handle, error) {
	return m.restore(data, true)
}

// CopyEntity duplicates h and its descendants with fresh UUIDs. The copy
// gets the same parent as the original and the same local transform.
func (m *Manager) CopyEntity(h Handle) (Handle, error) {
	e := m.pool.resolve(h)
	if e == nil {
		return Nil, ErrInvalidHandle
	}
	data, err := m.Serialize(h)
	if err != nil {
		return Nil, err
	}
	parent := e.parent
	cp, err := m.restore(data, true)
	if err != nil {
		return Nil, err
	}
	if p := m.pool.resolve(parent); p != nil {
		m.link(m.pool.resolve(cp), p)
	}
	return cp, nil
}

func (m *Manager) restore(data []byte, fresh bool) (Handle, error) {
	var a archivedEntity
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Nil, eris.Wrap(err, "unmarshal entity archive")
	}
	var created []Handle
	root, err := m.build(&a, nil, fresh, &created)
	if err != nil {
		for _, h := range created {
			m.Destroy(h)
		}
		return Nil, err
	}
	return root, nil
}

func (m *Manager) build(a *archivedEntity, parent *Entity, fresh bool, created *[]Handle) (Handle, error) {
	e := m.pool.acquire()
	if e == nil {
		return Nil, ErrCapacityExhausted
	}
	id := uuid.New()
	if !fresh {
		if parsed, err := uuid.Parse(a.UUID); err == nil && parsed != uuid.Nil {
			if _, taken := m.GetEntityByUUID(parsed); !taken {
				id = parsed
			}
		}
	}
	h := m.activate(e, id)
	*created = append(*created, h)
	e.name = a.Name
	e.local = a.Transform
	if e.local == (transform.Transform{}) {
		e.local = transform.Identity()
	}
	e.worldDirty = true
	if parent != nil {
		m.link(e, parent)
	}

	for _, ac := range a.Components {
		typ, ok := m.types.Lookup(ac.Type)
		if !ok {
			return Nil, eris.Wrapf(ErrUnknownComponentType, "component %q", ac.Type)
		}
		c, err := m.AddComponent(h, typ)
		if err != nil {
			return Nil, err
		}
		if ac.Data.Kind != 0 {
			if err := ac.Data.Decode(c); err != nil {
				return Nil, eris.Wrapf(err, "decode component %s", ac.Type)
			}
		}
		c.UpdateTransform(e.WorldTransform())
	}

	for i := range a.Children {
		if _, err := m.build(&a.Children[i], e, fresh, created); err != nil {
			return Nil, err
		}
	}
	return h, nil
}
