package cmd

import (
	"fmt"

	"github.com/marcus/modalstack/internal/demo"
	"github.com/spf13/cobra"
)

var dialogsCmd = &cobra.Command{
	Use:   "dialogs [query]",
	Short: "List the registered demo dialogs",
	Long:  `Lists the dialog names the demo registers, fuzzy-filtered by query when given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		sys, err := newSystem(cfg, logger)
		if err != nil {
			return err
		}

		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		names := demo.FilterNames(query, sys.reg.Names())
		if len(names) == 0 {
			return fmt.Errorf("no dialog matches %q", query)
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dialogsCmd)
}
