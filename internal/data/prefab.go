package data

import (
	"fmt"
	"os"
	"sort"

	"github.com/framewright/engine/internal/core/ecs"
	"github.com/framewright/engine/internal/core/transform"
	"gopkg.in/yaml.v3"
)

// Prefab is a named entity archive, in the same YAML shape that
// ecs.Manager.Serialize produces.
type Prefab struct {
	Name   string    `yaml:"name"`
	Tags   []string  `yaml:"tags"`
	Entity yaml.Node `yaml:"entity"`

	doc []byte // Entity re-encoded once at load
}

type prefabListFile struct {
	Prefabs []Prefab `yaml:"prefabs"`
}

// PrefabTable holds all prefabs indexed by name.
type PrefabTable struct {
	prefabs map[string]*Prefab
}

// LoadPrefabTable loads prefabs from a YAML file.
func LoadPrefabTable(path string) (*PrefabTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefabs: %w", err)
	}
	t, err := ParsePrefabs(data)
	if err != nil {
		return nil, fmt.Errorf("parse prefabs %s: %w", path, err)
	}
	return t, nil
}

func ParsePrefabs(data []byte) (*PrefabTable, error) {
	var f prefabListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	t := &PrefabTable{prefabs: make(map[string]*Prefab, len(f.Prefabs))}
	for i := range f.Prefabs {
		p := &f.Prefabs[i]
		if p.Name == "" {
			return nil, fmt.Errorf("prefab #%d has no name", i)
		}
		if _, dup := t.prefabs[p.Name]; dup {
			return nil, fmt.Errorf("duplicate prefab %q", p.Name)
		}
		if p.Entity.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("prefab %q: entity must be a mapping", p.Name)
		}
		doc, err := yaml.Marshal(&p.Entity)
		if err != nil {
			return nil, fmt.Errorf("prefab %q: %w", p.Name, err)
		}
		p.doc = doc
		t.prefabs[p.Name] = p
	}
	return t, nil
}

// Get returns a prefab by name, or nil if not found.
func (t *PrefabTable) Get(name string) *Prefab {
	return t.prefabs[name]
}

// Count returns the number of loaded prefabs.
func (t *PrefabTable) Count() int {
	return len(t.prefabs)
}

// Names returns the prefab names in sorted order.
func (t *PrefabTable) Names() []string {
	out := make([]string, 0, len(t.prefabs))
	for name := range t.prefabs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Tagged returns the names of prefabs carrying tag, sorted.
func (t *PrefabTable) Tagged(tag string) []string {
	var out []string
	for name, p := range t.prefabs {
		for _, tg := range p.Tags {
			if tg == tag {
				out = append(out, name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// Spawn instantiates a prefab as a new root entity with fresh UUIDs.
func (t *PrefabTable) Spawn(m *ecs.Manager, name string) (ecs.Handle, error) {
	p := t.prefabs[name]
	if p == nil {
		return ecs.Nil, fmt.Errorf("unknown prefab %q", name)
	}
	root, err := m.Instantiate(p.doc)
	if err != nil {
		return ecs.Nil, fmt.Errorf("spawn %s: %w", name, err)
	}
	if ent := m.Entity(root); ent != nil && ent.Name() == "" {
		ent.SetName(name)
	}
	return root, nil
}

// SpawnAt spawns a prefab and places it at pos in world space.
func (t *PrefabTable) SpawnAt(m *ecs.Manager, name string, pos transform.Vec3) (ecs.Handle, error) {
	h, err := t.Spawn(m, name)
	if err != nil {
		return ecs.Nil, err
	}
	m.Entity(h).SetWorldPosition(pos, true)
	return h, nil
}
