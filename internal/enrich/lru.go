// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

package enrich

import (
	"sync"

	"github.com/harshalgondaliya/Movie-Recommendation-Model/internal/tmdb"
)

// lruEntry is a node in the LRU store's doubly-linked list.
type lruEntry struct {
	id   int64
	rec  *tmdb.Record
	prev *lruEntry
	next *lruEntry
}

// lruStore is the bounded backing store, used when cache.max_entries is
// configured. It keeps the most recently used records and evicts the
// oldest when capacity is reached.
//
// A doubly-linked list tracks recency and a hashmap gives O(1) lookup:
// head.next is the most recently used, tail.prev the least. Records
// have no TTL; catalog details do not go stale within a process
// lifetime.
type lruStore struct {
	mu sync.Mutex

	capacity int
	items    map[int64]*lruEntry

	// head and tail are sentinel nodes for the doubly-linked list
	head *lruEntry
	tail *lruEntry
}

func newLRUStore(capacity int) *lruStore {
	s := &lruStore{
		capacity: capacity,
		items:    make(map[int64]*lruEntry, capacity),
		head:     &lruEntry{},
		tail:     &lruEntry{},
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

// Get retrieves a record and marks it most recently used.
func (s *lruStore) Get(id int64) (*tmdb.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[id]
	if !ok {
		return nil, false
	}
	s.moveToFront(entry)
	return entry.rec, true
}

// Add inserts or refreshes a record, evicting the least recently used
// entry when over capacity.
func (s *lruStore) Add(id int64, rec *tmdb.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.items[id]; ok {
		entry.rec = rec
		s.moveToFront(entry)
		return
	}

	entry := &lruEntry{id: id, rec: rec}
	s.addToFront(entry)
	s.items[id] = entry

	for len(s.items) > s.capacity {
		s.evictOldest()
	}
}

func (s *lruStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Internal methods (must be called with lock held)

func (s *lruStore) addToFront(entry *lruEntry) {
	entry.prev = s.head
	entry.next = s.head.next
	s.head.next.prev = entry
	s.head.next = entry
}

func (s *lruStore) moveToFront(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	s.addToFront(entry)
}

func (s *lruStore) evictOldest() {
	oldest := s.tail.prev
	if oldest == s.head {
		return
	}
	oldest.prev.next = oldest.next
	oldest.next.prev = oldest.prev
	delete(s.items, oldest.id)
}
