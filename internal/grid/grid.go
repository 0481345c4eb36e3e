// Package grid is the console table the request list is shown in. It
// filters, sorts and paginates rows on the client and keeps the row
// selection bulk actions work on.
package grid

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/view"
)

// Query narrows and orders the rows. Zero values mean no filter, server
// order and a single page.
type Query struct {
	Text        string // matched case-insensitively against every column
	Column      string
	ColumnValue string // matched case-insensitively against Column only
	SortBy      string
	Desc        bool
	Page        int // 1-based
	PageSize    int
}

type Page struct {
	Rows  []view.Row
	Total int // rows left after filtering
	Page  int
	Pages int
}

type Grid struct {
	mu       sync.Mutex
	rows     []view.Row
	selected []string

	OnDataLoaded func(rows []view.Row)
	OnRowClick   func(row view.Row)
}

func New() *Grid {
	return &Grid{}
}

// SetData replaces the rows. Selected rows that are gone are deselected.
func (g *Grid) SetData(rows []view.Row) {
	g.mu.Lock()
	g.rows = slices.Clone(rows)
	g.selected = slices.DeleteFunc(g.selected, func(id string) bool {
		return !g.has(id)
	})
	cb := g.OnDataLoaded
	g.mu.Unlock()
	if cb != nil {
		cb(rows)
	}
}

func (g *Grid) has(id string) bool {
	return slices.ContainsFunc(g.rows, func(r view.Row) bool { return r.Identifier == id })
}

// Click emits a row click for id. It reports false when no row has that id.
func (g *Grid) Click(id string) bool {
	g.mu.Lock()
	idx := slices.IndexFunc(g.rows, func(r view.Row) bool { return r.Identifier == id })
	cb := g.OnRowClick
	var row view.Row
	if idx >= 0 {
		row = g.rows[idx]
	}
	g.mu.Unlock()
	if idx < 0 {
		return false
	}
	if cb != nil {
		cb(row)
	}
	return true
}

// Select replaces the selection with the known ids among ids.
func (g *Grid) Select(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = g.selected[:0]
	for _, id := range ids {
		if g.has(id) && !slices.Contains(g.selected, id) {
			g.selected = append(g.selected, id)
		}
	}
}

// SelectMatching selects every row matching the filters of q.
func (g *Grid) SelectMatching(q Query) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = g.selected[:0]
	for _, r := range filter(g.rows, q) {
		g.selected = append(g.selected, r.Identifier)
	}
	return slices.Clone(g.selected)
}

func (g *Grid) SelectedRows() []view.Row {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]view.Row, 0, len(g.selected))
	for _, r := range g.rows {
		if slices.Contains(g.selected, r.Identifier) {
			out = append(out, r)
		}
	}
	return out
}

func (g *Grid) Selected() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.selected)
}

// Apply returns the page of rows q asks for.
func (g *Grid) Apply(q Query) (Page, error) {
	if q.SortBy != "" && !slices.Contains(view.Columns, q.SortBy) {
		return Page{}, fmt.Errorf("unknown sort column %q", q.SortBy)
	}
	if q.Column != "" && !slices.Contains(view.Columns, q.Column) {
		return Page{}, fmt.Errorf("unknown filter column %q", q.Column)
	}
	g.mu.Lock()
	rows := filter(g.rows, q)
	g.mu.Unlock()

	if q.SortBy != "" {
		slices.SortStableFunc(rows, func(a, b view.Row) int {
			c := compareField(q.SortBy, a, b)
			if q.Desc {
				return -c
			}
			return c
		})
	}
	return paginate(rows, q.Page, q.PageSize), nil
}

func filter(rows []view.Row, q Query) []view.Row {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	value := strings.ToLower(strings.TrimSpace(q.ColumnValue))
	out := make([]view.Row, 0, len(rows))
	for _, r := range rows {
		if text != "" && !slices.ContainsFunc(r.Values(), func(v string) bool {
			return strings.Contains(strings.ToLower(v), text)
		}) {
			continue
		}
		if q.Column != "" && value != "" &&
			!strings.Contains(strings.ToLower(r.Field(q.Column)), value) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func compareField(column string, a, b view.Row) int {
	switch column {
	case "files":
		return cmp.Compare(a.Files, b.Files)
	case "recipients":
		return cmp.Compare(a.Recipients, b.Recipients)
	}
	return strings.Compare(strings.ToLower(a.Field(column)), strings.ToLower(b.Field(column)))
}

func paginate(rows []view.Row, page, size int) Page {
	total := len(rows)
	if size <= 0 {
		return Page{Rows: rows, Total: total, Page: 1, Pages: 1}
	}
	pages := max((total+size-1)/size, 1)
	page = min(max(page, 1), pages)
	start := min((page-1)*size, total)
	end := min(start+size, total)
	return Page{Rows: rows[start:end], Total: total, Page: page, Pages: pages}
}

// Render writes p as a table. Selected rows are marked in the first column.
func (g *Grid) Render(w io.Writer, p Page) {
	selected := g.Selected()
	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{""}, view.Columns...))
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	for _, r := range p.Rows {
		mark := ""
		if slices.Contains(selected, r.Identifier) {
			mark = "*"
		}
		table.Append(append([]string{mark}, r.Values()...))
	}
	table.SetFooter(append([]string{"", fmt.Sprintf("page %d/%d", p.Page, p.Pages), fmt.Sprintf("%d rows", p.Total)},
		make([]string, len(view.Columns)-2)...))
	table.Render()
}

// WriteCSV exports rows with a header line.
func WriteCSV(w io.Writer, rows []view.Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(view.Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(r.Values()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
