package sqlboiler

import (
	"fmt"

	"github.com/aarondl/strmangle"

	"github.com/nrfta/pagedview"
)

// Direction represents the sort direction of a fixed field.
type Direction bool

const (
	ASC  Direction = false
	DESC Direction = true
)

// InvalidSortError is returned for a sort name that is not registered as
// a sortable field.
type InvalidSortError struct {
	Name string
}

func (e *InvalidSortError) Error() string {
	return fmt.Sprintf("invalid sort field: %s (not registered in schema)", e.Name)
}

// InvalidFieldError is returned for a filter field that is not registered.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid filter field: %s (not registered in schema)", e.Field)
}

// fieldSpec defines a single field in a schema.
type fieldSpec struct {
	name      string     // Name used by the view: "public_id", "fields.hostname"
	column    string     // SQL column: "objects.public_id"
	isFixed   bool       // Fixed vs user-sortable
	sortable  bool       // Usable in ORDER BY
	direction *Direction // For fixed fields
	position  int        // Declaration order
}

// Schema maps the field names used by a table view onto SQL columns.
// It is the whitelist that keeps user input out of raw SQL: only
// registered sort names reach ORDER BY and only registered filter fields
// reach WHERE.
//
// Fixed fields are always part of ORDER BY to give a stable order:
//   - FixedField before any Field: prepended (e.g., tenant_id for partitioning)
//   - FixedField after a Field: appended (e.g., id for uniqueness)
//
// Example:
//
//	var objectSchema = sqlboiler.NewSchema().
//	    Field("public_id", "public_id").
//	    Field("type_id", "type_id").
//	    Filter("fields.hostname", "hostname").
//	    FixedField("public_id", sqlboiler.ASC)
type Schema struct {
	fields       map[string]*fieldSpec // view name -> field
	fixedFields  []*fieldSpec          // Fixed fields in declaration order
	allFields    []*fieldSpec          // All fields in declaration order
	nextPosition int                   // Track declaration order
	defaultSort  string
}

// NewSchema creates an empty Schema.
func NewSchema() *Schema {
	return &Schema{
		fields: make(map[string]*fieldSpec),
	}
}

// Field registers a sortable and filterable field.
//
// Parameters:
//   - name: Field name used by the view (column name or data path)
//   - column: SQL column (can be qualified: "objects.type_id")
func (s *Schema) Field(name, column string) *Schema {
	return s.add(name, column, true)
}

// Filter registers a field that can be filtered on but not sorted.
func (s *Schema) Filter(name, column string) *Schema {
	return s.add(name, column, false)
}

func (s *Schema) add(name, column string, sortable bool) *Schema {
	spec := &fieldSpec{
		name:     name,
		column:   column,
		sortable: sortable,
		position: s.nextPosition,
	}
	s.nextPosition++

	s.fields[name] = spec
	s.allFields = append(s.allFields, spec)
	return s
}

// FixedField adds a column that is always included in ORDER BY but cannot
// be chosen by users.
func (s *Schema) FixedField(column string, direction Direction) *Schema {
	spec := &fieldSpec{
		name:      column,
		column:    column,
		isFixed:   true,
		direction: &direction,
		position:  s.nextPosition,
	}
	s.nextPosition++

	s.fixedFields = append(s.fixedFields, spec)
	s.allFields = append(s.allFields, spec)
	return s
}

// DefaultSort sets the field sorted on when a request names none.
func (s *Schema) DefaultSort(name string) *Schema {
	s.defaultSort = name
	return s
}

// Column returns the SQL column registered for a filter field.
func (s *Schema) Column(field string) (string, error) {
	spec, ok := s.fields[field]
	if !ok {
		return "", &InvalidFieldError{Field: field}
	}
	return spec.column, nil
}

// OrderBy validates sort and returns the complete ORDER BY directives.
// Fixed fields keep their position relative to the registered fields:
// those declared before the first one are prepended, those declared after
// the last one are appended. A fixed column equal to the sorted column is
// left out.
func (s *Schema) OrderBy(sort pagedview.Sort) ([]OrderBy, error) {
	if sort.Name == "" {
		sort.Name = s.defaultSort
	}

	var user []OrderBy
	if sort.Name != "" {
		spec, ok := s.fields[sort.Name]
		if !ok || !spec.sortable {
			return nil, &InvalidSortError{Name: sort.Name}
		}
		user = append(user, OrderBy{Column: spec.column, Desc: sort.Order.Desc()})
	}

	// Find position of first and last registered field
	firstPos := -1
	lastPos := -1
	for _, spec := range s.allFields {
		if !spec.isFixed {
			if firstPos == -1 {
				firstPos = spec.position
			}
			lastPos = spec.position
		}
	}

	result := make([]OrderBy, 0, len(s.fixedFields)+len(user))
	fixed := func(spec *fieldSpec) {
		if len(user) > 0 && user[0].Column == spec.column {
			return
		}
		result = append(result, OrderBy{Column: spec.column, Desc: bool(*spec.direction)})
	}

	// Special case: only fixed fields registered
	if firstPos == -1 {
		for _, spec := range s.fixedFields {
			fixed(spec)
		}
		return append(result, user...), nil
	}

	for _, spec := range s.fixedFields {
		if spec.position < firstPos {
			fixed(spec)
		}
	}

	result = append(result, user...)

	for _, spec := range s.fixedFields {
		if spec.position > lastPos {
			fixed(spec)
		}
	}

	return result, nil
}

// OrderByClause returns OrderBy as a quoted SQL clause.
func (s *Schema) OrderByClause(sort pagedview.Sort) (string, error) {
	orderBy, err := s.OrderBy(sort)
	if err != nil || len(orderBy) == 0 {
		return "", err
	}
	return buildOrderByClause(orderBy), nil
}

func quote(column string) string {
	return strmangle.IdentQuote('"', '"', column)
}
