// Package column describes how the fields of a row are shown in a table.
//
// A Column binds a header label and a unique name to a dot-separated data
// path into the row. Columns are grouped in an ordered Set which validates
// name uniqueness and tracks visibility.
//
// Example:
//
//	cols, err := column.NewSet(
//	    column.Column{Display: "ID", Name: "public_id", Data: "public_id", Sortable: true, Fixed: true},
//	    column.Column{Display: "Active", Name: "active", Data: "object_information.active"},
//	    column.Column{Display: "Hostname", Name: "hostname", Data: "fields.hostname", Searchable: true},
//	)
package column

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/tidwall/gjson"

	"github.com/nrfta/pagedview"
)

// RenderFunc turns a row into the value shown in a cell.
type RenderFunc func(row pagedview.Row, col Column) any

// Column is the declarative descriptor of one table column.
type Column struct {
	// Display is the header label.
	Display string

	// Name identifies the column within its set and is the sort key sent
	// to the backend.
	Name string

	// Data is the dot-separated path of the value in a row. Empty means the
	// column has no backing field (actions, computed cells).
	Data string

	Sortable   bool
	Searchable bool

	// Hidden columns are left out of the header and body but keep their
	// place in the set.
	Hidden bool

	// Fixed columns are always visible.
	Fixed bool

	// Render, when set, replaces the resolved value.
	Render RenderFunc

	// Template, when set and Render is not, renders the cell. It is executed
	// with a TemplateData.
	Template *template.Template
}

// TemplateData is passed to a column template.
type TemplateData struct {
	Row    map[string]any
	Value  any
	Column Column
}

// Cell is one rendered cell of the table body.
type Cell struct {
	Column string
	Value  Value
	// Payload is the Render output, or the raw resolved value.
	Payload any
	Text    string
	Err     error
}

// Field returns the path used to search or sort on the column: Data when
// set, otherwise Name.
func (c Column) Field() string {
	if c.Data != "" {
		return c.Data
	}
	return c.Name
}

// Resolve returns the value of the column in row.
func (c Column) Resolve(row pagedview.Row) Value {
	return Resolve(row, c.Data)
}

// Cell renders the column for row. It never panics; template failures are
// reported in Cell.Err and leave the text empty.
func (c Column) Cell(row pagedview.Row) Cell {
	v := c.Resolve(row)
	cell := Cell{Column: c.Name, Value: v, Payload: v.Raw()}

	switch {
	case c.Render != nil:
		cell.Payload = c.Render(row, c)
		cell.Text = display(cell.Payload)
	case c.Template != nil:
		var buf bytes.Buffer
		data := TemplateData{Value: v.Raw(), Column: c}
		if m, ok := gjson.ParseBytes(row).Value().(map[string]any); ok {
			data.Row = m
		}
		if err := c.Template.Execute(&buf, data); err != nil {
			cell.Err = err
			return cell
		}
		cell.Text = buf.String()
	default:
		cell.Text = v.String()
	}

	return cell
}

func display(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
