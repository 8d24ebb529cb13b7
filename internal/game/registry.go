package game

import "sync"

// Registry owns every live Room. It is created at process start and held
// by the Manager; nothing else keeps a Room reference across an event
// boundary.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// Add registers a room, rejecting duplicate ids.
func (reg *Registry) Add(r *Room) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.rooms[r.ID]; exists {
		return ErrDuplicateRoom
	}
	reg.rooms[r.ID] = r
	roomsActive.Set(float64(len(reg.rooms)))
	return nil
}

// Delete removes a room; idempotent.
func (reg *Registry) Delete(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, id)
	roomsActive.Set(float64(len(reg.rooms)))
}

// List snapshots the current room set for lobby listing and disconnect
// sweeps.
func (reg *Registry) List() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
