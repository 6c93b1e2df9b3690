package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/serroba/golinks/internal/link"
)

// MemoryStore is an in-memory LinkStore for tests and local
// development. All invariants the Postgres store delegates to the
// database (slug uniqueness, atomic increment) are enforced under a
// single mutex here.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]*link.Record
	bySlug  map[string]int64
	nextID  int64

	basePaths []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[int64]*link.Record),
		bySlug:  make(map[string]int64),
		nextID:  1,
	}
}

func (m *MemoryStore) Create(_ context.Context, rec *link.Record) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bySlug[rec.Slug]; ok {
		return 0, link.ErrDuplicateSlug
	}

	cp := *rec
	cp.ID = m.nextID

	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}

	m.nextID++
	m.records[cp.ID] = &cp
	m.bySlug[cp.Slug] = cp.ID

	// Match the Postgres store, which scans the assigned id and
	// timestamp back into the caller's record.
	rec.ID = cp.ID
	rec.CreatedAt = cp.CreatedAt

	return cp.ID, nil
}

func (m *MemoryStore) FindBySlug(_ context.Context, slug string) (*link.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, link.ErrNotFound
	}

	cp := *m.records[id]

	return &cp, nil
}

func (m *MemoryStore) FindByID(_ context.Context, id int64) (*link.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, link.ErrNotFound
	}

	cp := *rec

	return &cp, nil
}

func (m *MemoryStore) List(_ context.Context) ([]link.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]link.Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, *rec)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	return out, nil
}

func (m *MemoryStore) UpdateFields(_ context.Context, id int64, patch FieldPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return link.ErrNotFound
	}

	if patch.IsActive != nil {
		rec.IsActive = *patch.IsActive
	}

	if patch.SetExpires {
		rec.ExpiresAt = patch.ExpiresAt
	}

	if patch.BasePath != nil {
		rec.BasePath = *patch.BasePath
	}

	return nil
}

func (m *MemoryStore) IncrementHits(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return link.ErrNotFound
	}

	rec.Hits++

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil
	}

	delete(m.bySlug, rec.Slug)
	delete(m.records, id)

	return nil
}

func (m *MemoryStore) BackfillBasePath(_ context.Context, newDefault string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.records {
		if rec.BasePath == "" {
			rec.BasePath = newDefault
		}
	}

	return nil
}

func (m *MemoryStore) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.bySlug[slug]

	return ok, nil
}

func (m *MemoryStore) LoadBasePaths(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.basePaths == nil {
		return nil, nil
	}

	cp := make([]string, len(m.basePaths))
	copy(cp, m.basePaths)

	return cp, nil
}

func (m *MemoryStore) SaveBasePaths(_ context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]string, len(paths))
	copy(cp, paths)
	m.basePaths = cp

	return nil
}

// Compile-time checks.
var (
	_ LinkStore     = (*MemoryStore)(nil)
	_ SettingsStore = (*MemoryStore)(nil)
)
