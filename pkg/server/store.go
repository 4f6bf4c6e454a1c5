package server

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/andrew-torda/pdbnear/pkg/highlight"
)

// entry is one browser's state. The renderer only collects the
// representations, the browser asks for them and draws.
type entry struct {
	sess *highlight.Session
	rend *highlight.MemRenderer
}

// store keeps the most recently used sessions. When it is full, the
// least recently used one goes.
type store struct {
	mu  sync.Mutex
	lru *lru.Cache[string, *entry]
	m   *Metrics
}

func newStore(size int, m *Metrics) *store {
	if size <= 0 {
		size = 128
	}
	// Called for evictions and for plain removal alike.
	c, _ := lru.NewWithEvict[string, *entry](size, func(string, *entry) {
		m.sessions.Dec()
	})
	return &store{lru: c, m: m}
}

func (s *store) add(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.sessions.Inc()
	if s.lru.Add(e.sess.ID, e) {
		s.m.evicted.Inc()
	}
}

func (s *store) get(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Get(id)
}

func (s *store) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Remove(id)
}

func (s *store) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}
