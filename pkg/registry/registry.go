// Package registry implements the three mapping-backed stores (spec §4.6):
// resources keyed by URI, tools and prompts keyed by name. All three share
// the same cursor-pagination and overwrite-on-duplicate semantics, so the
// shared mechanics live in the generic store below and the per-kind files
// add only their typed handler signature and not-found error.
package registry

import (
	"strconv"
	"sync"

	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// PageSize is the fixed page size for List (spec §4.6).
const PageSize = 50

// store is a generic, insertion-ordered, mutex-guarded identity->value
// mapping with cursor-based pagination. The cursor is the decimal string
// form of a zero-based offset into the insertion order.
type store[T any] struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]T
}

func newStore[T any]() *store[T] {
	return &store[T]{entries: make(map[string]T)}
}

// put registers or overwrites entry under id. Registration is idempotent on
// identity: a duplicate id overwrites the stored value and keeps its
// original position in iteration order (spec invariant 4).
func (s *store[T]) put(id string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[id]; !exists {
		s.order = append(s.order, id)
	}
	s.entries[id] = value
}

func (s *store[T]) get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[id]
	return v, ok
}

func (s *store[T]) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return
	}
	delete(s.entries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// page returns the entries for cursor (the empty string means "from the
// start") and the cursor to resume from, which is empty once the list is
// exhausted.
func (s *store[T]) page(cursor string) ([]T, string, error) {
	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil || parsed < 0 {
			return nil, "", mcperrors.New(mcperrors.KindInvalidParams, "invalid cursor: "+cursor)
		}
		offset = parsed
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset >= len(s.order) {
		return nil, "", nil
	}

	end := offset + PageSize
	if end > len(s.order) {
		end = len(s.order)
	}

	page := make([]T, 0, end-offset)
	for _, id := range s.order[offset:end] {
		page = append(page, s.entries[id])
	}

	next := ""
	if end < len(s.order) {
		next = strconv.Itoa(end)
	}
	return page, next, nil
}

func (s *store[T]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
