package cmd

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/modalstack/internal/demo"
	"github.com/marcus/modalstack/internal/input"
	"github.com/marcus/modalstack/internal/output"
	"github.com/marcus/modalstack/pkg/modalstack"
	"github.com/spf13/cobra"
)

var (
	simulateEach bool
	simulateFlat bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate step...",
	Short: "Replay stack operations without a terminal and print the stack",
	Long: `Runs the demo dialogs headless. Each step is applied followed by one render
pass, then the stack is printed.

Steps:
  open:NAME     open a dialog
  close:NAME    close the oldest open dialog named NAME, if any
  top           close the top dialog
  esc           press the dismiss key
  all           ask every dialog to close
  except:NAME   ask every dialog not named NAME to close
  tick          remove closed dialogs

"@FILE" reads steps from a file and "-" from stdin, one per line. Blank
lines and lines starting with # are ignored.

Example:
  modalstack simulate open:form open:confirm top tick`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expanded, err := input.ExpandArgs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		steps, err := parseSteps(expanded)
		if err != nil {
			return err
		}

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		sys, err := newSystem(cfg, logger)
		if err != nil {
			return err
		}

		opts := output.StackRenderOptions{ShowState: true, ShowZIndex: true, Flat: simulateFlat}
		return sys.replay(cmd.OutOrStdout(), steps, simulateEach, opts)
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simulateEach, "each", false, "print the stack after every step")
	simulateCmd.Flags().BoolVar(&simulateFlat, "flat", false, "print one line per dialog without nesting")
	rootCmd.AddCommand(simulateCmd)
}

// simulateAnchor stands in for the terminal when replaying headless.
var simulateAnchor = modalstack.Anchor{Width: 80, Height: 24}

// step is one parsed simulate argument.
type step struct {
	op   string
	name string
}

func (s step) String() string {
	if s.name == "" {
		return s.op
	}
	return s.op + ":" + s.name
}

func parseSteps(args []string) ([]step, error) {
	steps := make([]step, 0, len(args))
	for _, arg := range args {
		op, name, _ := strings.Cut(arg, ":")
		switch op {
		case "open", "close", "except":
			if name == "" {
				return nil, fmt.Errorf("step %q needs a dialog name", arg)
			}
		case "top", "esc", "all", "tick":
			if name != "" {
				return nil, fmt.Errorf("step %q takes no name", arg)
			}
		default:
			return nil, fmt.Errorf("unknown step %q", arg)
		}
		steps = append(steps, step{op: op, name: name})
	}
	return steps, nil
}

// replay applies steps in order. A failed open is reported and the replay
// continues.
func (s *system) replay(w io.Writer, steps []step, each bool, opts output.StackRenderOptions) error {
	if s.store.Snapshot().Anchor == nil {
		s.mgr.SetMountAnchor(&simulateAnchor)
	}

	var failed int
	for _, st := range steps {
		if err := s.apply(st); err != nil {
			fmt.Fprintf(w, "%s: error: %v\n", st, err)
			failed++
		}

		frames, _ := s.coord.Observe()
		if each {
			fmt.Fprintf(w, "%s\n%s\n", st, output.RenderStack(output.NodesFromFrames(s.mgr.ListActive(), frames), opts))
		}
	}

	if !each {
		frames, _ := s.coord.Observe()
		fmt.Fprintln(w, output.RenderStack(output.NodesFromFrames(s.mgr.ListActive(), frames), opts))
	}
	if s.scroll.Locked() {
		fmt.Fprintln(w, "background: locked")
	}
	if failed > 0 {
		return fmt.Errorf("%d step(s) failed", failed)
	}
	return nil
}

func (s *system) apply(st step) error {
	switch st.op {
	case "open":
		closeFn, err := demo.Open(s.mgr, st.name, s.opts)
		if err != nil {
			return err
		}
		s.handles[st.name] = closeFn
	case "close":
		// Any handle for a name closes the oldest open instance of it.
		if closeFn, ok := s.handles[st.name]; ok {
			closeFn()
		}
	case "top":
		s.mgr.CloseTop()
	case "esc":
		s.mgr.HandleDismissKey(tea.KeyMsg{Type: tea.KeyEsc})
	case "all":
		s.mgr.CloseAll()
	case "except":
		s.mgr.CloseAllExcept(st.name)
	case "tick":
		s.coord.Commit()
	}
	return nil
}
