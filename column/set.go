package column

import (
	"fmt"

	"github.com/friendsofgo/errors"
)

var (
	// ErrEmptyName is returned for a column without a name.
	ErrEmptyName = errors.New("column name is empty")

	// ErrUnknownColumn is returned when a name is not part of the set.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrFixedColumn is returned when hiding a fixed column.
	ErrFixedColumn = errors.New("fixed columns cannot be hidden")
)

// DuplicateNameError is returned when two columns of a set share a name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate column name %q", e.Name)
}

// Set is an ordered group of columns with unique names.
// A Set is not safe for concurrent use.
type Set struct {
	columns []Column
	index   map[string]int
}

// NewSet validates cols and returns them as a Set. Fixed columns are never
// hidden.
func NewSet(cols ...Column) (*Set, error) {
	s := &Set{
		columns: make([]Column, len(cols)),
		index:   make(map[string]int, len(cols)),
	}
	copy(s.columns, cols)

	if err := s.Validate(); err != nil {
		return nil, err
	}

	for i := range s.columns {
		s.index[s.columns[i].Name] = i
		if s.columns[i].Fixed {
			s.columns[i].Hidden = false
		}
	}
	return s, nil
}

// MustNewSet is like NewSet but panics on an invalid column list. It is
// meant for package-level column declarations.
func MustNewSet(cols ...Column) *Set {
	s, err := NewSet(cols...)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks that every column has a unique, non-empty name.
func (s *Set) Validate() error {
	seen := make(map[string]bool, len(s.columns))
	for i, c := range s.columns {
		if c.Name == "" {
			return errors.Wrapf(ErrEmptyName, "column %d (%q)", i, c.Display)
		}
		if seen[c.Name] {
			return &DuplicateNameError{Name: c.Name}
		}
		seen[c.Name] = true
	}
	return nil
}

// Len returns the number of columns, hidden ones included.
func (s *Set) Len() int {
	return len(s.columns)
}

// All returns a copy of every column in declaration order.
func (s *Set) All() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Visible returns the columns shown in the table, in declaration order.
func (s *Set) Visible() []Column {
	out := make([]Column, 0, len(s.columns))
	for _, c := range s.columns {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// Lookup returns the column called name.
func (s *Set) Lookup(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// Hide excludes the named column from rendering.
func (s *Set) Hide(name string) error {
	i, ok := s.index[name]
	if !ok {
		return errors.Wrap(ErrUnknownColumn, name)
	}
	if s.columns[i].Fixed {
		return errors.Wrap(ErrFixedColumn, name)
	}
	s.columns[i].Hidden = true
	return nil
}

// Show includes the named column in rendering again.
func (s *Set) Show(name string) error {
	i, ok := s.index[name]
	if !ok {
		return errors.Wrap(ErrUnknownColumn, name)
	}
	s.columns[i].Hidden = false
	return nil
}

// SetHidden hides exactly the named columns and shows every other one.
// Unknown names are ignored so stale saved settings still apply; fixed
// columns stay visible.
func (s *Set) SetHidden(names []string) {
	hidden := make(map[string]bool, len(names))
	for _, n := range names {
		hidden[n] = true
	}
	for i := range s.columns {
		s.columns[i].Hidden = hidden[s.columns[i].Name] && !s.columns[i].Fixed
	}
}

// Hidden returns the names of the hidden columns, for saving visibility.
func (s *Set) Hidden() []string {
	var out []string
	for _, c := range s.columns {
		if c.Hidden {
			out = append(out, c.Name)
		}
	}
	return out
}

// SearchFields returns the data paths of the searchable columns.
func (s *Set) SearchFields() []string {
	var out []string
	for _, c := range s.columns {
		if c.Searchable {
			out = append(out, c.Field())
		}
	}
	return out
}

// Sortable reports whether the named column can be sorted on.
func (s *Set) Sortable(name string) bool {
	c, ok := s.Lookup(name)
	return ok && c.Sortable
}
