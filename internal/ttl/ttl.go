// Package ttl provides a mutex-guarded map whose entries expire after
// a fixed duration. Every entry lives for the same TTL, so insertion
// order matches expiry order and the cleanup sweep may stop at the
// first entry that has not expired yet.
package ttl

import (
	"container/list"
	"sync"
	"time"
)

type entry[K comparable, V any] struct {
	key   K
	value V
	added time.Time
}

// Map is safe for concurrent use. The zero value is not usable; use
// NewMap.
type Map[K comparable, V any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[K]*list.Element
	order *list.List // *entry[K, V] in insertion order

	// now is replaceable in tests
	now func() time.Time
}

func NewMap[K comparable, V any](ttl time.Duration) *Map[K, V] {
	return &Map[K, V]{
		ttl:   ttl,
		items: make(map[K]*list.Element),
		order: list.New(),
		now:   time.Now,
	}
}

// Set inserts or replaces the value under key and restarts its TTL.
func (m *Map[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[key]; ok {
		m.order.Remove(el)
	}
	m.items[key] = m.order.PushBack(&entry[K, V]{key: key, value: value, added: m.now()})
}

// Get returns the live value under key, if any. Expired entries are
// reported as absent even before the next sweep removes them.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	el, ok := m.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if m.expired(e) {
		return zero, false
	}
	return e.value, true
}

func (m *Map[K, V]) Delete(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		return false
	}
	m.order.Remove(el)
	delete(m.items, key)
	return true
}

// Len counts live entries.
func (m *Map[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for el := m.order.Front(); el != nil; el = el.Next() {
		if !m.expired(el.Value.(*entry[K, V])) {
			count++
		}
	}
	return count
}

// Cleanup drops expired entries. Entries are visited in insertion
// order and the sweep stops at the first live one, which is correct
// because the TTL is constant.
func (m *Map[K, V]) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for el := m.order.Front(); el != nil; {
		e := el.Value.(*entry[K, V])
		if !m.expired(e) {
			break
		}
		next := el.Next()
		m.order.Remove(el)
		delete(m.items, e.key)
		el = next
	}
}

func (m *Map[K, V]) expired(e *entry[K, V]) bool {
	return m.now().Sub(e.added) > m.ttl
}
