package search

import (
	"strings"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
)

// Term normalizes raw search input. Blank input is undefined.
func Term(input string) null.String {
	input = strings.TrimSpace(input)
	if input == "" {
		return null.String{}
	}
	return null.StringFrom(input)
}

// Box is the search input of a table. It debounces typed input and emits
// the settled term only when it differs from the last emitted one.
type Box struct {
	mu        sync.Mutex
	debouncer *Debouncer[null.String]
	last      null.String
	typed     string
	emit      func(null.String)
}

// NewBox returns a Box emitting settled terms to emit.
func NewBox(delay time.Duration, emit func(null.String)) *Box {
	b := &Box{emit: emit}
	b.debouncer = NewDebouncer(delay, b.settle)
	return b
}

// Type records new raw input.
func (b *Box) Type(input string) {
	b.mu.Lock()
	b.typed = input
	b.mu.Unlock()

	b.debouncer.Push(Term(input))
}

// Submit emits the typed input immediately, as on pressing enter.
func (b *Box) Submit() {
	b.debouncer.Flush()
}

// Input returns the raw text typed so far.
func (b *Box) Input() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.typed
}

// Current returns the last emitted term.
func (b *Box) Current() null.String {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Reset sets the current term without emitting, e.g. when restoring state.
func (b *Box) Reset(term null.String) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = term
	b.typed = term.String
}

// Close stops the debounce timer.
func (b *Box) Close() {
	b.debouncer.Stop()
}

func (b *Box) settle(term null.String) {
	b.mu.Lock()
	if term == b.last {
		b.mu.Unlock()
		return
	}
	b.last = term
	b.mu.Unlock()

	if b.emit != nil {
		b.emit(term)
	}
}
