package table

import (
	"github.com/nrfta/pagedview"
	"github.com/nrfta/pagedview/column"
	"github.com/nrfta/pagedview/pager"
)

// State is the display state of a table.
type State int

const (
	Idle State = iota
	Loading
)

func (s State) String() string {
	if s == Loading {
		return "loading"
	}
	return "idle"
}

// HeaderCell is one column header.
type HeaderCell struct {
	Name     string
	Display  string
	Sortable bool
	Active   bool
	Order    pagedview.Order
}

// BodyRow is one rendered row.
type BodyRow struct {
	Cells []column.Cell
}

// Footer holds the page size choices and the pager window.
type Footer struct {
	PageSizes []int
	PageSize  int
	Pager     pager.Pager
}

// View is a snapshot of everything a renderer needs.
type View struct {
	State   State
	Header  []HeaderCell
	Body    []BodyRow
	Footer  Footer
	Message string
}

// View builds a snapshot of the table. While loading the body is empty and
// the loading message is shown.
func (t *Table) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	visible := t.columns.Visible()
	v := View{
		Header: make([]HeaderCell, 0, len(visible)),
		Footer: Footer{
			PageSizes: append([]int(nil), t.config.PageSizes...),
			PageSize:  t.pager.PageSize,
			Pager:     t.pager,
		},
	}

	for _, c := range visible {
		h := HeaderCell{Name: c.Name, Display: c.Display, Sortable: c.Sortable}
		if c.Sortable && t.props.Sort.Name == c.Name {
			h.Active = true
			h.Order = t.props.Sort.Order.Normalize()
		}
		v.Header = append(v.Header, h)
	}

	switch {
	case t.props.Loading:
		v.State = Loading
		v.Message = t.config.LoadingMessage
		return v
	case t.props.Error != "":
		v.Message = t.props.Error
	case len(t.props.Rows) == 0:
		v.Message = t.config.EmptyMessage
	}

	v.Body = make([]BodyRow, 0, len(t.props.Rows))
	for _, row := range t.props.Rows {
		cells := make([]column.Cell, 0, len(visible))
		for _, c := range visible {
			cells = append(cells, c.Cell(row))
		}
		v.Body = append(v.Body, BodyRow{Cells: cells})
	}
	return v
}
