// Package registry keeps shared counters, such as the number of objects
// per type shown next to a navigation entry, that several screens update
// and observe.
//
// A Counters registry is created once and passed to whoever needs it.
// Observers subscribe to a counter id and must call the returned
// unsubscribe function when they go away.
package registry

import (
	"sync"

	"github.com/google/uuid"
)

// Observer is notified with the new value of a counter.
type Observer func(id string, value int64)

// Counters is a registry of int64 counters keyed by a stable id.
// It is safe for concurrent use.
type Counters struct {
	mu        sync.RWMutex
	values    map[string]int64
	observers map[string]map[uuid.UUID]Observer
}

// NewCounters returns an empty registry.
func NewCounters() *Counters {
	return &Counters{
		values:    make(map[string]int64),
		observers: make(map[string]map[uuid.UUID]Observer),
	}
}

// Get returns the value of id and whether it was ever set.
func (c *Counters) Get(id string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[id]
	return v, ok
}

// Set stores value under id and notifies its observers.
func (c *Counters) Set(id string, value int64) {
	c.mu.Lock()
	c.values[id] = value
	obs := c.observersLocked(id)
	c.mu.Unlock()

	notify(obs, id, value)
}

// Add adds delta to id and returns the new value.
func (c *Counters) Add(id string, delta int64) int64 {
	c.mu.Lock()
	c.values[id] += delta
	value := c.values[id]
	obs := c.observersLocked(id)
	c.mu.Unlock()

	notify(obs, id, value)
	return value
}

// Delete forgets id. Its observers stay subscribed.
func (c *Counters) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, id)
}

// Snapshot returns a copy of every counter.
func (c *Counters) Snapshot() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]int64, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Subscribe registers fn for changes of id. The returned function removes
// the subscription; calling it more than once is harmless.
func (c *Counters) Subscribe(id string, fn Observer) (unsubscribe func()) {
	key := uuid.New()

	c.mu.Lock()
	if c.observers[id] == nil {
		c.observers[id] = make(map[uuid.UUID]Observer)
	}
	c.observers[id][key] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()

			delete(c.observers[id], key)
			if len(c.observers[id]) == 0 {
				delete(c.observers, id)
			}
		})
	}
}

// Subscribers returns the number of observers of id.
func (c *Counters) Subscribers(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.observers[id])
}

func (c *Counters) observersLocked(id string) []Observer {
	subs := c.observers[id]
	if len(subs) == 0 {
		return nil
	}
	out := make([]Observer, 0, len(subs))
	for _, fn := range subs {
		out = append(out, fn)
	}
	return out
}

func notify(obs []Observer, id string, value int64) {
	for _, fn := range obs {
		fn(id, value)
	}
}
