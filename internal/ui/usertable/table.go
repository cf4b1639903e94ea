package usertable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oksasatya/user-admin/internal/interface/presenter"
)

// PageSize is the number of rows per table page.
const PageSize = 10

type Column string

const (
	ColumnAvatar    Column = "avatar"
	ColumnName      Column = "name"
	ColumnEmail     Column = "email"
	ColumnStatus    Column = "status"
	ColumnCreatedAt Column = "created_at"
	ColumnActions   Column = "actions"
)

// Sortable reports whether the column can be sorted. Avatar and actions cannot.
func (c Column) Sortable() bool {
	switch c {
	case ColumnName, ColumnEmail, ColumnStatus, ColumnCreatedAt:
		return true
	}
	return false
}

type SortDir string

const (
	SortNone SortDir = ""
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// TableState is the client-local view configuration. An empty SortBy keeps
// the rows in the order they were loaded.
type TableState struct {
	Filter  string  `json:"filter,omitempty"`
	SortBy  Column  `json:"sort_by,omitempty"`
	SortDir SortDir `json:"sort_dir,omitempty"`
	Page    int     `json:"page"`
}

// toggleSort cycles a column through asc, desc and back to unsorted.
// Picking a different column starts it at asc.
func (t TableState) toggleSort(c Column) (TableState, error) {
	if !c.Sortable() {
		return t, fmt.Errorf("%w: column %q is not sortable", ErrInvalidTransition, c)
	}
	switch {
	case t.SortBy != c || t.SortDir == SortNone:
		t.SortBy, t.SortDir = c, SortAsc
	case t.SortDir == SortAsc:
		t.SortDir = SortDesc
	default:
		t.SortBy, t.SortDir = "", SortNone
	}
	return t, nil
}

// Rows filters users by name and sorts them. The input is not modified.
func (t TableState) Rows(users []presenter.UserView) []presenter.UserView {
	needle := strings.ToLower(strings.TrimSpace(t.Filter))
	out := make([]presenter.UserView, 0, len(users))
	for _, u := range users {
		if needle == "" || strings.Contains(strings.ToLower(u.Name), needle) {
			out = append(out, u)
		}
	}
	if t.SortBy == "" || t.SortDir == SortNone {
		return out
	}

	less := lessFor(t.SortBy)
	sort.SliceStable(out, func(i, j int) bool {
		if t.SortDir == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// PageRows returns the current page of Rows.
func (t TableState) PageRows(users []presenter.UserView) []presenter.UserView {
	rows := t.Rows(users)
	t = t.clamp(len(rows))
	start := t.Page * PageSize
	end := min(start+PageSize, len(rows))
	return rows[start:end]
}

// PageCount is at least 1 so an empty table still has a page to show.
func PageCount(rows int) int {
	if rows <= 0 {
		return 1
	}
	return (rows + PageSize - 1) / PageSize
}

func (t TableState) clamp(rows int) TableState {
	if last := PageCount(rows) - 1; t.Page > last {
		t.Page = last
	}
	if t.Page < 0 {
		t.Page = 0
	}
	return t
}

func lessFor(c Column) func(a, b presenter.UserView) bool {
	switch c {
	case ColumnName:
		return func(a, b presenter.UserView) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case ColumnEmail:
		return func(a, b presenter.UserView) bool { return strings.ToLower(a.Email) < strings.ToLower(b.Email) }
	case ColumnStatus:
		return func(a, b presenter.UserView) bool { return a.StatusLabel < b.StatusLabel }
	default:
		return func(a, b presenter.UserView) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}
