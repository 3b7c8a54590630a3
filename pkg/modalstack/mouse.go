package modalstack

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Rect represents a rectangular screen region.
type Rect struct {
	X, Y, W, H int
}

// Contains returns true if the point (x, y) is within the rectangle.
// Uses exclusive bounds for width/height: [X, X+W) and [Y, Y+H).
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// centered returns where a w x h block lands when centred in an area.
func centered(w, h, areaW, areaH int) Rect {
	return Rect{
		X: max(0, (areaW-w)/2),
		Y: max(0, (areaH-h)/2),
		W: w,
		H: h,
	}
}

// blockRect measures a rendered block and centres it in the anchor.
func blockRect(block string, anchor *Anchor) Rect {
	return centered(lipgloss.Width(block), strings.Count(block, "\n")+1, anchor.Width, anchor.Height)
}

// TopRect returns the screen region of the visible dialog. ok is false when
// nothing is drawn.
func (p Provider) TopRect() (Rect, bool) {
	anchor := p.mgr.store.Snapshot().Anchor
	if anchor == nil {
		return Rect{}, false
	}
	for _, f := range p.frames {
		if f.Visible {
			return blockRect(p.renderFrame(f, anchor), anchor), true
		}
	}
	return Rect{}, false
}

// routeMouse delivers a mouse event to the top dialog with coordinates made
// relative to its frame. Events on the backdrop are dropped.
func (p *Provider) routeMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.mgr.ListActive()) == 0 {
		return p.route(msg)
	}
	r, ok := p.TopRect()
	if !ok {
		// No layout yet, pass through unchanged.
		return p.route(msg)
	}
	if !r.Contains(msg.X, msg.Y) {
		return nil
	}
	msg.X -= r.X
	msg.Y -= r.Y
	return p.route(msg)
}
