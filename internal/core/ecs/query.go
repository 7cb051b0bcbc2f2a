package ecs

import "github.com/TheBitDrifter/mask"

// Query returns the active entities that carry every listed type, in
// active-set order.
func (m *Manager) Query(types ...TypeID) []Handle {
	var want mask.Mask
	for _, t := range types {
		if int(t) >= MaxComponentTypes {
			return nil
		}
		want.Mark(uint32(t))
	}
	out := make([]Handle, 0, 16)
	for _, e := range m.active {
		if e.state == Active && e.mask.ContainsAll(want) {
			out = append(out, e.handle)
		}
	}
	return out
}

// Without returns the active entities that carry none of the listed types.
func (m *Manager) Without(types ...TypeID) []Handle {
	var reject mask.Mask
	for _, t := range types {
		if int(t) < MaxComponentTypes {
			reject.Mark(uint32(t))
		}
	}
	out := make([]Handle, 0, 16)
	for _, e := range m.active {
		if e.state == Active && e.mask.ContainsNone(reject) {
			out = append(out, e.handle)
		}
	}
	return out
}

// Each iterates the components stored under typ whose concrete type is A.
func Each[A Component](m *Manager, typ TypeID, fn func(Handle, A)) {
	s := m.stores[typ]
	if s == nil {
		return
	}
	s.Each(func(index uint32, c Component) {
		if a, ok := c.(A); ok {
			fn(m.pool.slots[index].handle, a)
		}
	})
}

// Each2 iterates over entities that have both ta and tb.
// It iterates over the smaller store and probes the larger one.
func Each2[A, B Component](m *Manager, ta, tb TypeID, fn func(Handle, A, B)) {
	sa, sb := m.stores[ta], m.stores[tb]
	if sa == nil || sb == nil {
		return
	}
	visit := func(index uint32) {
		a, okA := sa.Get(index).(A)
		b, okB := sb.Get(index).(B)
		if okA && okB {
			fn(m.pool.slots[index].handle, a, b)
		}
	}
	if sa.Len() <= sb.Len() {
		sa.Each(func(index uint32, _ Component) { visit(index) })
	} else {
		sb.Each(func(index uint32, _ Component) { visit(index) })
	}
}
