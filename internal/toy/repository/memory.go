package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/karajelley/lab-toy-factory/internal/toy"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo keeps toys in process memory. It is used when no MongoDB is
// reachable and in unit tests; data does not survive a restart.
type MemoryRepo struct {
	mu     sync.RWMutex
	order  []primitive.ObjectID
	store  map[primitive.ObjectID]*toy.Toy
	byName map[string]primitive.ObjectID
}

// NewMemoryRepo returns an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		store:  make(map[primitive.ObjectID]*toy.Toy),
		byName: make(map[string]primitive.ObjectID),
	}
}

// Create assigns t an ID if it has none and stores a copy. It returns
// ErrDuplicateName if the name is taken.
func (m *MemoryRepo) Create(_ context.Context, t *toy.Toy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byName[t.Name]; taken {
		return ErrDuplicateName
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	cp := *t
	m.store[t.ID] = &cp
	m.byName[t.Name] = t.ID
	m.order = append(m.order, t.ID)
	return nil
}

// List returns every toy in insertion order.
func (m *MemoryRepo) List(_ context.Context) ([]*toy.Toy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(*toy.Toy) bool { return true }), nil
}

// SearchByName matches substr anywhere in the name, ignoring case.
func (m *MemoryRepo) SearchByName(_ context.Context, substr string) ([]*toy.Toy, error) {
	needle := strings.ToLower(substr)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(t *toy.Toy) bool {
		return strings.Contains(strings.ToLower(t.Name), needle)
	}), nil
}

// Update writes the fields present in u onto the toy with the given hex id.
// An unknown or malformed id is ErrNotFound; renaming onto a taken name is
// ErrDuplicateName.
func (m *MemoryRepo) Update(_ context.Context, id string, u toy.UpdateInput) (*toy.Toy, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[oid]
	if !ok {
		return nil, ErrNotFound
	}
	next := *cur
	u.Apply(&next)
	if next.Name != cur.Name {
		if _, taken := m.byName[next.Name]; taken {
			return nil, ErrDuplicateName
		}
		delete(m.byName, cur.Name)
		m.byName[next.Name] = oid
	}
	m.store[oid] = &next
	out := next
	return &out, nil
}

// collect returns copies of matching toys in insertion order. Caller holds mu.
func (m *MemoryRepo) collect(match func(*toy.Toy) bool) []*toy.Toy {
	out := make([]*toy.Toy, 0, len(m.order))
	for _, id := range m.order {
		t := m.store[id]
		if !match(t) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out
}
