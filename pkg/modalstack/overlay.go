package modalstack

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Overlay draws foreground centred over background inside a width x height
// area. Both strings may contain ANSI styling.
func Overlay(background, foreground string, width, height int) string {
	r := blockRect(foreground, &Anchor{Width: width, Height: height})
	return OverlayAt(background, foreground, width, height, r.X, r.Y)
}

// OverlayAt draws foreground over background with its top-left corner at x, y.
func OverlayAt(background, foreground string, width, height, x, y int) string {
	bgLines := strings.Split(background, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	fgLines := strings.Split(foreground, "\n")
	fgW := lipgloss.Width(foreground)
	if fgW <= 0 {
		return strings.Join(bgLines, "\n")
	}
	x = max(0, x)
	y = max(0, y)

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLine := bgLines[row]
		if n := ansi.StringWidth(bgLine); n < x+fgW {
			bgLine += strings.Repeat(" ", x+fgW-n)
		}

		left := ansi.Cut(bgLine, 0, x)
		right := ""
		if width > x+fgW {
			right = ansi.Cut(bgLine, x+fgW, width)
		}

		if n := ansi.StringWidth(fgLine); n < fgW {
			fgLine += strings.Repeat(" ", fgW-n)
		} else if n > fgW {
			fgLine = ansi.Truncate(fgLine, fgW, "")
		}

		bgLines[row] = left + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}

// Dim renders s in the backdrop style so the dialog on top stands out.
func Dim(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = Backdrop.Render(ansi.Strip(line))
	}
	return strings.Join(lines, "\n")
}
