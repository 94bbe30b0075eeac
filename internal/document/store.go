package document

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/inamate/svgedit/internal/typeid"
)

// MemoryStore is an in-process Store for tests, the CLI and servers run
// without a database.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]*Document),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryStore) Create(ctx context.Context, name, content string) (*Document, error) {
	if err := Validate(content); err != nil {
		return nil, err
	}
	now := s.now()
	d := &Document{
		ID:        typeid.NewDocumentID(),
		Name:      name,
		Content:   content,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.docs[d.ID] = d
	s.mu.Unlock()

	cp := *d
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, id, content string, baseVersion int) (*Document, error) {
	if err := Validate(content); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if baseVersion > 0 && baseVersion != d.Version {
		return nil, ErrVersionClash
	}
	d.Content = content
	d.Version++
	d.UpdatedAt = s.now()
	cp := *d
	return &cp, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}
