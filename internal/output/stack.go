// Package output renders modal stacks as text for the CLI.
package output

import (
	"fmt"
	"strings"

	"github.com/marcus/modalstack/pkg/modalstack"
)

// StackNode is one dialog in a rendered stack.
type StackNode struct {
	Name    string
	Action  modalstack.Action
	State   modalstack.State
	Visible bool
	ZIndex  int
}

// StackRenderOptions configures stack rendering.
type StackRenderOptions struct {
	ShowState  bool // Whether to show the lifecycle state
	ShowZIndex bool // Whether to show the layer
	Flat       bool // One line per dialog instead of nesting
}

// NodesFromFrames builds nodes from a coordinator pass. Instances without a
// frame (closed, waiting for removal) are taken from stack.
func NodesFromFrames(stack []*modalstack.Instance, frames []modalstack.Frame) []StackNode {
	byInst := make(map[*modalstack.Instance]modalstack.Frame, len(frames))
	for _, f := range frames {
		byInst[f.Instance] = f
	}

	nodes := make([]StackNode, len(stack))
	for i, inst := range stack {
		n := StackNode{Name: inst.Name(), Action: inst.Action(), State: inst.State()}
		if f, ok := byInst[inst]; ok {
			n.Visible = f.Visible
			n.ZIndex = f.ZIndex
		}
		nodes[i] = n
	}
	return nodes
}

// stateMark returns a state indicator symbol
func stateMark(n StackNode) string {
	switch {
	case n.State == modalstack.StateClosed:
		return " \u2717" // ✗
	case n.Visible:
		return " \u25cf" // ●
	case n.State == modalstack.StateNew:
		return " \u25cb" // ○
	default:
		return ""
	}
}

// RenderStack renders nodes bottom first. Each dialog nests under the one
// it was opened on top of.
func RenderStack(nodes []StackNode, opts StackRenderOptions) string {
	if len(nodes) == 0 {
		return "(empty)"
	}
	return strings.Join(RenderStackLines(nodes, opts), "\n")
}

// RenderStackLines renders nodes and returns individual lines.
func RenderStackLines(nodes []StackNode, opts StackRenderOptions) []string {
	lines := make([]string, 0, len(nodes))
	prefix := ""
	for i, node := range nodes {
		connector := "\u2514\u2500\u2500 " // └──
		if opts.Flat && i < len(nodes)-1 {
			connector = "\u251c\u2500\u2500 " // ├──
		}

		lines = append(lines, prefix+connector+formatNode(node, opts))

		if !opts.Flat {
			prefix += "    "
		}
	}
	return lines
}

func formatNode(n StackNode, opts StackRenderOptions) string {
	parts := []string{n.Name}
	if n.Action != modalstack.ActionNone {
		parts = append(parts, fmt.Sprintf("(%s)", strings.ToLower(string(n.Action))))
	}
	if opts.ShowState {
		parts = append(parts, fmt.Sprintf("[%s]", strings.ToLower(n.State.String())))
	}
	if opts.ShowZIndex && n.ZIndex > 0 {
		parts = append(parts, fmt.Sprintf("z=%d", n.ZIndex))
	}
	return strings.Join(parts, " ") + stateMark(n)
}
