package cmd

import (
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/modalstack/internal/config"
	"github.com/marcus/modalstack/internal/demo"
	"github.com/marcus/modalstack/pkg/modalstack"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// system is a wired registry, manager and coordinator with the demo dialogs
// registered.
type system struct {
	reg    *modalstack.Registry
	store  *modalstack.Store
	mgr    *modalstack.Manager
	coord  *modalstack.Coordinator
	scroll *demo.ScrollLock
	opts   demo.Options

	// handles holds the latest close handle returned for each name.
	handles map[string]modalstack.CloseFunc
}

func newSystem(cfg *config.Config, logger *slog.Logger) (*system, error) {
	s := &system{
		store:   modalstack.NewStore(),
		handles: map[string]modalstack.CloseFunc{},
		scroll:  demo.NewScrollLock(modalstack.ScrollAuto),
		opts: demo.Options{
			MarkdownStyle: cfg.MarkdownStyle,
			DefaultSize:   modalstack.ParseSize(cfg.DefaultSize),
		},
	}
	s.reg = modalstack.NewRegistry(modalstack.WithRegistryLogger(logger))
	s.mgr = modalstack.NewManager(s.reg, s.store,
		modalstack.WithLogger(logger),
		modalstack.WithDismissKeys(cfg.DismissKeys...),
	)
	s.coord = modalstack.NewCoordinator(s.store,
		modalstack.WithBaseZIndex(cfg.BaseZIndex),
		modalstack.WithScrollController(s.scroll),
		modalstack.WithCoordinatorLogger(logger),
	)

	if err := demo.Register(s.reg, s.mgr, s.opts); err != nil {
		return nil, err
	}
	return s, nil
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the interactive dialog demo",
	Long: `Opens a full-screen document with stackable dialogs.

Keys: c confirm, a alert, f form, p palette, esc close top,
ctrl+x close all, ctrl+k close all but the palette, q quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("demo needs an interactive terminal")
		}

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		sys, err := newSystem(cfg, logger)
		if err != nil {
			return err
		}

		app := demo.NewApp(sys.mgr, sys.scroll, sys.opts)
		provider := modalstack.NewProvider(app, sys.mgr, sys.coord,
			modalstack.WithBackdrop(cfg.BackdropEnabled()),
		)
		provider.KeyBus().AddKeyListener(demo.GlobalKeys(sys.mgr))

		logger.Debug("starting demo", "base_z_index", cfg.BaseZIndex, "dismiss_keys", cfg.DismissKeys)
		prog := tea.NewProgram(provider, tea.WithAltScreen(), tea.WithMouseCellMotion())
		stop := provider.Watch(prog.Send)
		defer stop()
		_, err = prog.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
