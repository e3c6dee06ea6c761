package store

import (
	"context"
	"sync"

	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"go.uber.org/zap"
)

// Entity is any record owned by the remote store. The ID is opaque,
// server-assigned and immutable.
type Entity interface {
	EntityID() string
}

// MergeFunc combines the record currently cached with the submitted patch
// after a successful update. The result keeps the server-assigned fields of
// old; everything user-editable comes from patch. The merged record is a
// local optimization so the UI does not re-fetch; it is not guaranteed
// byte-identical to the server's authoritative record.
type MergeFunc[T Entity] func(old, patch T) T

// Store is the in-memory ordered cache of one entity collection. All writes
// go through the remote API first; local state changes only after the
// remote call succeeds. Failures leave the cache exactly as it was.
type Store[T Entity] struct {
	api      *apiclient.Client
	log      *zap.Logger
	resource string
	merge    MergeFunc[T]

	mu      sync.RWMutex
	records []T
	loaded  bool
}

// New builds a store bound to a collection resource path such as "contacts"
// or "calendar/events".
func New[T Entity](api *apiclient.Client, logger *zap.Logger, resource string, merge MergeFunc[T]) *Store[T] {
	return &Store[T]{
		api:      api,
		log:      logger.Named("store." + resource),
		resource: resource,
		merge:    merge,
	}
}

// Load replaces the whole cache with a full-collection fetch. On failure the
// previous contents are retained untouched.
func (s *Store[T]) Load(ctx context.Context) error {
	var fetched []T
	if err := s.api.Get(ctx, s.resource, &fetched); err != nil {
		s.log.Warn("load failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.records = fetched
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Create submits the draft and, on success, appends the server-returned
// record (carrying the authoritative id and created_at) to the end of the
// cache. Insertion order is most-recently-created last.
func (s *Store[T]) Create(ctx context.Context, draft T) (T, error) {
	var created T
	if err := s.api.Post(ctx, s.resource, draft, &created); err != nil {
		return created, err
	}

	s.mu.Lock()
	s.records = append(s.records, created)
	s.mu.Unlock()
	return created, nil
}

// Update submits the patch for id and, on success, replaces the cached
// record with merge(old, patch). An id not present locally is tolerated:
// the remote write succeeded, the cache simply has nothing to refresh.
func (s *Store[T]) Update(ctx context.Context, id string, patch T) (T, error) {
	var out T
	if err := s.api.Put(ctx, s.resource+"/"+id, patch, nil); err != nil {
		return out, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, record := range s.records {
		if record.EntityID() == id {
			merged := patch
			if s.merge != nil {
				merged = s.merge(record, patch)
			}
			s.records[i] = merged
			return merged, nil
		}
	}
	return patch, nil
}

// Remove deletes id remotely and, on success, filters it out of the cache.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, s.resource+"/"+id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	for _, record := range s.records {
		if record.EntityID() != id {
			kept = append(kept, record)
		}
	}
	s.records = kept
	return nil
}

// Snapshot returns a copy of the cached collection in insertion order.
func (s *Store[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the cached record with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.records {
		if record.EntityID() == id {
			return record, true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Loaded reports whether an initial Load has succeeded.
func (s *Store[T]) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Resource returns the collection path this store is bound to.
func (s *Store[T]) Resource() string {
	return s.resource
}
