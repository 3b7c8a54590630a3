package demo

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/modalstack/pkg/modalstack"
)

// ListItem represents an item in a list.
type ListItem struct {
	ID    string // Unique identifier for this item
	Label string // Display text
}

// List is a scrollable, selectable list of items.
type List struct {
	items        []ListItem
	selected     int
	maxVisible   int // Maximum number of visible items
	scrollOffset int // Current scroll position
}

// NewList creates a list showing at most maxVisible items at once.
func NewList(items []ListItem, maxVisible int) *List {
	if maxVisible <= 0 {
		maxVisible = 5
	}
	return &List{items: items, maxVisible: maxVisible}
}

// SetItems replaces the items and resets the selection.
func (l *List) SetItems(items []ListItem) {
	l.items = items
	l.selected = 0
	l.scrollOffset = 0
}

// Items returns the current items.
func (l *List) Items() []ListItem { return l.items }

// Selected returns the selected item.
func (l *List) Selected() (ListItem, bool) {
	if l.selected < 0 || l.selected >= len(l.items) {
		return ListItem{}, false
	}
	return l.items[l.selected], true
}

// Update handles navigation keys. It returns the selected item's ID on enter.
func (l *List) Update(msg tea.KeyMsg) string {
	switch msg.String() {
	case "up", "ctrl+p":
		if l.selected > 0 {
			l.selected--
		}
	case "down", "ctrl+n":
		if l.selected < len(l.items)-1 {
			l.selected++
		}
	case "home":
		l.selected = 0
	case "end":
		l.selected = max(0, len(l.items)-1)
	case "enter":
		if item, ok := l.Selected(); ok {
			return item.ID
		}
	}
	return ""
}

// View renders the visible window of the list with scroll indicators.
func (l *List) View() string {
	if len(l.items) == 0 {
		return modalstack.MutedText.Render("(no matches)")
	}

	visibleCount := min(l.maxVisible, len(l.items))

	// Adjust scroll to keep selection visible
	if l.selected < l.scrollOffset {
		l.scrollOffset = l.selected
	} else if l.selected >= l.scrollOffset+visibleCount {
		l.scrollOffset = l.selected - visibleCount + 1
	}
	l.scrollOffset = max(0, min(l.scrollOffset, len(l.items)-visibleCount))

	var sb strings.Builder
	if l.scrollOffset > 0 {
		sb.WriteString(modalstack.MutedText.Render("↑ more above"))
		sb.WriteString("\n")
	}
	for i := 0; i < visibleCount; i++ {
		idx := l.scrollOffset + i
		item := l.items[idx]

		cursor := "  "
		style := modalstack.ListItemNormal
		if idx == l.selected {
			cursor = modalstack.ListCursor.Render("> ")
			style = modalstack.ListItemSelected
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(cursor + style.Render(item.Label))
	}
	if l.scrollOffset+visibleCount < len(l.items) {
		sb.WriteString("\n")
		sb.WriteString(modalstack.MutedText.Render("↓ more below"))
	}
	return sb.String()
}
