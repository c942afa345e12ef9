// Publish command for the shelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgeyard/shelf/internal/gitops"
)

// publishMessage is the commit message for index updates.
const publishMessage = "Update package index"

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Commit and push index changes",
	Long: `Publish stages index.json and the archive folders, commits, fetches, and
pushes. When the index checkout has no changes the command is a no-op.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := gitops.Open(cfg.IndexDir)
		if err != nil {
			return err
		}

		res, err := gitops.Publish(repo, cfg.Remote, publishMessage, indexPaths()...)
		if err != nil {
			return err
		}
		if !res.Committed {
			fmt.Fprintln(cmd.OutOrStdout(), "index unchanged, nothing to publish")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "index changes published")
		return nil
	},
}
