package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spilno/spilno-backend/internal/feed"
)

// MemoryPublications is an in-memory Publications used for unit tests and for
// running the feed service without MongoDB.
type MemoryPublications struct {
	mu    sync.RWMutex
	seq   int
	store map[string]feed.Fields
}

func NewMemoryPublications() *MemoryPublications {
	return &MemoryPublications{store: map[string]feed.Fields{}}
}

func (m *MemoryPublications) List(ctx context.Context) ([]feed.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]feed.Document, 0, len(m.store))
	for id, f := range m.store {
		out = append(out, feed.Document{ID: id, Fields: copyFields(f)})
	}
	return out, nil
}

func (m *MemoryPublications) ListByUser(ctx context.Context, userID string) ([]feed.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []feed.Document{}
	for id, f := range m.store {
		if f["userId"] == userID {
			out = append(out, feed.Document{ID: id, Fields: copyFields(f)})
		}
	}
	return out, nil
}

func (m *MemoryPublications) Create(ctx context.Context, fields feed.Fields) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("pub_%d_%d", time.Now().UnixNano(), m.seq)
	m.store[id] = copyFields(fields)
	return id, nil
}

func (m *MemoryPublications) Update(ctx context.Context, id string, fields feed.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		f[k] = v
	}
	return nil
}

func (m *MemoryPublications) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

// MemoryComments is the in-memory Comments counterpart.
type MemoryComments struct {
	mu    sync.RWMutex
	seq   int
	store map[string][]feed.Document // publicationID -> comments
}

func NewMemoryComments() *MemoryComments {
	return &MemoryComments{store: map[string][]feed.Document{}}
}

func (m *MemoryComments) Create(ctx context.Context, publicationID string, fields feed.Fields) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("cmt_%d_%d", time.Now().UnixNano(), m.seq)
	m.store[publicationID] = append(m.store[publicationID], feed.Document{ID: id, Fields: copyFields(fields)})
	return id, nil
}

func (m *MemoryComments) ListByPublication(ctx context.Context, publicationID string) ([]feed.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.store[publicationID]
	out := make([]feed.Document, 0, len(src))
	for _, d := range src {
		out = append(out, feed.Document{ID: d.ID, Fields: copyFields(d.Fields)})
	}
	// newest first; documents without a comparable createdAt sort last
	sort.SliceStable(out, func(i, j int) bool {
		return createdAtLess(out[j].Fields["createdAt"], out[i].Fields["createdAt"])
	})
	return out, nil
}

// MemoryLikes is the in-memory Likes counterpart.
type MemoryLikes struct {
	mu    sync.RWMutex
	store map[string]map[string]struct{} // publicationID -> set of userIDs
}

func NewMemoryLikes() *MemoryLikes {
	return &MemoryLikes{store: map[string]map[string]struct{}{}}
}

func (m *MemoryLikes) Put(ctx context.Context, publicationID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.store[publicationID]
	if !ok {
		set = map[string]struct{}{}
		m.store[publicationID] = set
	}
	set[userID] = struct{}{}
	return nil
}

func (m *MemoryLikes) Delete(ctx context.Context, publicationID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store[publicationID], userID)
	return nil
}

func (m *MemoryLikes) Count(ctx context.Context, publicationID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.store[publicationID])), nil
}

func (m *MemoryLikes) Exists(ctx context.Context, publicationID, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.store[publicationID][userID]
	return ok, nil
}

func copyFields(f feed.Fields) feed.Fields {
	out := make(feed.Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// createdAtLess orders createdAt values of the types a JSON body can carry
// (numbers, strings) plus time.Time. A missing value ranks below everything.
func createdAtLess(a, b any) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af < bf
		}
	}
	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			return at.Before(bt)
		}
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return as < bs
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
