// Sources command for the shelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgeyard/shelf/internal/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Ensure source checkouts exist and report their versions",
	Long: `Sources clones any configured source repository whose checkout path is
missing (when a url is configured) and prints the version of each checkout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Sources) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no sources configured")
			return nil
		}

		for _, src := range cfg.Sources {
			st, err := sources.Ensure(cmd.Context(), src)
			if err != nil {
				return err
			}
			state := "ok"
			if st.Cloned {
				state = "cloned"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-10s %s (%s)\n", st.Name, st.Version, st.Path, state)
		}
		return nil
	},
}
