package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/mattn/go-runewidth"
)

const (
	minColumnWidth = 3
	maxColumnWidth = 40
	ellipsis       = "…"
)

// Render writes v as a plain-text table. Column widths follow the display
// width of their content, so wide (CJK) characters stay aligned.
func Render(w io.Writer, v View) error {
	headers := make([]string, len(v.Header))
	for i, h := range v.Header {
		headers[i] = headerText(h)
	}

	rows := make([][]string, len(v.Body))
	for i, r := range v.Body {
		rows[i] = make([]string, len(r.Cells))
		for j, c := range r.Cells {
			rows[i][j] = flatten(c.Text)
		}
	}

	widths := columnWidths(headers, rows)

	var b strings.Builder
	writeLine(&b, headers, widths)
	writeRule(&b, widths)
	for _, r := range rows {
		writeLine(&b, r, widths)
	}
	if v.Message != "" {
		b.WriteString(v.Message)
		b.WriteByte('\n')
	}
	b.WriteString(footerText(v.Footer))
	b.WriteByte('\n')

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "write table")
	}
	return nil
}

func headerText(h HeaderCell) string {
	label := h.Display
	if label == "" {
		label = h.Name
	}
	if !h.Active {
		return label
	}
	if h.Order.Desc() {
		return label + " ▼"
	}
	return label + " ▲"
}

func footerText(f Footer) string {
	var b strings.Builder

	b.WriteString("Show")
	for _, size := range f.PageSizes {
		if size == f.PageSize {
			fmt.Fprintf(&b, " [%d]", size)
		} else {
			fmt.Fprintf(&b, " %d", size)
		}
	}

	p := f.Pager
	b.WriteString("  |")
	if p.HasPrevious() {
		b.WriteString(" «")
	}
	for _, page := range p.Pages {
		if p.IsCurrent(page) {
			fmt.Fprintf(&b, " [%d]", page)
		} else {
			fmt.Fprintf(&b, " %d", page)
		}
	}
	if p.HasNext() {
		b.WriteString(" »")
	}

	if p.TotalItems == 0 {
		b.WriteString("  |  0 entries")
	} else {
		fmt.Fprintf(&b, "  |  %d-%d of %d", p.StartIndex+1, p.EndIndex+1, p.TotalItems)
	}
	return b.String()
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		width := runewidth.StringWidth(h)
		for _, r := range rows {
			if i < len(r) {
				width = max(width, runewidth.StringWidth(r[i]))
			}
		}
		widths[i] = min(max(width, minColumnWidth), maxColumnWidth)
	}
	return widths
}

func writeLine(b *strings.Builder, cells []string, widths []int) {
	for i, width := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if runewidth.StringWidth(cell) > width {
			cell = runewidth.Truncate(cell, width, ellipsis)
		}
		if i > 0 {
			b.WriteString(" | ")
		}
		if i == len(widths)-1 {
			b.WriteString(cell)
			continue
		}
		b.WriteString(runewidth.FillRight(cell, width))
	}
	b.WriteByte('\n')
}

func writeRule(b *strings.Builder, widths []int) {
	for i, width := range widths {
		if i > 0 {
			b.WriteString("-+-")
		}
		b.WriteString(strings.Repeat("-", width))
	}
	b.WriteByte('\n')
}

// flatten keeps multi-line cells on one line.
func flatten(s string) string {
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}
