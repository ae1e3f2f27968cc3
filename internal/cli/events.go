package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	var count bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the native event names",
		Long: `Events prints the names the dispatcher treats as native, one per line,
after applying the configuration's native_events and extra_native_events.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			catalog := cfg.Catalog()

			out := cmd.OutOrStdout()
			if count {
				fmt.Fprintln(out, catalog.Len())
				return nil
			}
			for _, name := range catalog.Names() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&count, "count", false, "print only the number of names")

	return cmd
}
