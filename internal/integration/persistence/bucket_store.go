// Package persistence holds the in-process state shared between requests.
package persistence

import (
	"sync"
	"time"

	"github.com/storeledger/backend/internal/application/usecase/report"
)

// BucketStore keeps the most recent ingestion result for the query endpoints.
// The engine is rebuild-from-files by design, so process memory is the only
// store; restarting the service just means re-ingesting.
type BucketStore struct {
	mu         sync.RWMutex
	buckets    *report.BucketSet
	batchID    string
	ingestedAt time.Time
}

// NewBucketStore creates an empty bucket store.
func NewBucketStore() *BucketStore {
	return &BucketStore{}
}

// Put replaces the stored result with a newer batch.
func (s *BucketStore) Put(batchID string, buckets *report.BucketSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchID = batchID
	s.buckets = buckets
	s.ingestedAt = time.Now().UTC()
}

// Latest returns the current result, or ok=false when nothing was ingested.
func (s *BucketStore) Latest() (buckets *report.BucketSet, batchID string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.buckets == nil {
		return nil, "", false
	}
	return s.buckets, s.batchID, true
}

// IngestedAt reports when the current batch was stored.
func (s *BucketStore) IngestedAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.buckets == nil {
		return time.Time{}, false
	}
	return s.ingestedAt, true
}
