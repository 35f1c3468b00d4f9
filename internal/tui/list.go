package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignatzorin/quickfix/internal/render"
)

// cursor: выделенная строка списка.
type cursor struct {
	row int
}

// Update двигает курсор по списку из n строк.
func (c *cursor) Update(keys keyMap, msg tea.KeyMsg, n int) bool {
	switch {
	case key.Matches(msg, keys.up):
		if c.row > 0 {
			c.row--
		}
		return true
	case key.Matches(msg, keys.down):
		if c.row < n-1 {
			c.row++
		}
		return true
	}
	return false
}

// Clamp удерживает курсор в пределах списка после замены коллекции.
func (c *cursor) Clamp(n int) {
	if c.row >= n {
		c.row = n - 1
	}
	if c.row < 0 {
		c.row = 0
	}
}

func renderRows(st styles, rows []render.Row, selected int, empty string) string {
	if len(rows) == 0 {
		return st.muted.Render(empty)
	}
	var b strings.Builder
	for i, r := range rows {
		when := r.Date
		if r.Time != "" {
			when += " " + r.Time
		}
		line := fmt.Sprintf("%s %-28s %-16s %-17s %12s %8s", r.Icon, r.Title, r.Subtitle, when, r.Price, r.Distance)
		if i == selected {
			b.WriteString(st.selected.Render("› " + line))
		} else {
			b.WriteString(st.text.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
