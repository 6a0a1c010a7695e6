package repository

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
)

var (
	ErrNotFound = errors.New("trivia document not found")
)

// MemoryRepo is an in-memory repository keyed by operator name. Used for
// unit tests and for running the service without MongoDB.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*trivia.Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*trivia.Record)}
}

func key(name string) string { return strings.ToLower(name) }

// Upsert stores the record under its document name, replacing any
// previous scrape of the same operator.
func (m *MemoryRepo) Upsert(rec *trivia.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if prev, ok := m.store[key(rec.Document.Name)]; ok {
		rec.CreatedAt = prev.CreatedAt
	} else {
		rec.CreatedAt = now
	}
	if rec.ID == "" {
		rec.ID = "trivia_" + key(rec.Document.Name)
	}
	rec.UpdatedAt = now
	m.store[key(rec.Document.Name)] = rec
	return nil
}

func (m *MemoryRepo) GetByName(name string) (*trivia.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.store[key(name)]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List() ([]*trivia.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*trivia.Record, 0, len(m.store))
	for _, r := range m.store {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Document.Name < out[j].Document.Name })
	return out, nil
}

func (m *MemoryRepo) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[key(name)]; !ok {
		return ErrNotFound
	}
	delete(m.store, key(name))
	return nil
}
