package search

import (
	"sync"

	"github.com/nrfta/pagedview"
)

// SortPolicy decides the direction of a column that was clicked while
// current was the active sort.
type SortPolicy func(current pagedview.Sort, name string) pagedview.Order

// DefaultSortPolicy flips the direction of the active column and sorts any
// other column ascending.
func DefaultSortPolicy(current pagedview.Sort, name string) pagedview.Order {
	if current.Name == name {
		return current.Order.Flip()
	}
	return pagedview.Ascending
}

// SortState holds the single active sort of a table.
type SortState struct {
	mu     sync.Mutex
	sort   pagedview.Sort
	policy SortPolicy
}

// NewSortState returns a SortState starting at initial. A nil policy uses
// DefaultSortPolicy.
func NewSortState(initial pagedview.Sort, policy SortPolicy) *SortState {
	if policy == nil {
		policy = DefaultSortPolicy
	}
	initial.Order = initial.Order.Normalize()
	return &SortState{sort: initial, policy: policy}
}

// Current returns the active sort.
func (s *SortState) Current() pagedview.Sort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// Set replaces the active sort.
func (s *SortState) Set(sort pagedview.Sort) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.Order = sort.Order.Normalize()
	s.sort = sort
}

// Toggle makes name the active sort column, with the direction chosen by
// the policy, and returns the new sort.
func (s *SortState) Toggle(name string) pagedview.Sort {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = pagedview.Sort{Name: name, Order: s.policy(s.sort, name).Normalize()}
	return s.sort
}
