// Run command for the shelf CLI: the full index-publish-mirror pipeline.
package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/forgeyard/shelf/internal/gitops"
	"github.com/forgeyard/shelf/internal/index"
	"github.com/forgeyard/shelf/internal/mirror"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Index, publish, and mirror in one pass",
	Long: `Run derives the release channel from the index checkout's branch (main
and master index the main channel, anything else dev), refreshes the index,
publishes changes, and mirrors artifacts when a mirror host is configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := gitops.Open(cfg.IndexDir)
		if err != nil {
			return err
		}
		branch, err := repo.CurrentBranch()
		if err != nil {
			return err
		}
		channel := gitops.ChannelForBranch(branch)
		log.Info().Str("branch", branch).Str("channel", channel).Msg("starting index run")

		res, err := runIndex(channel)
		if err != nil {
			return err
		}

		pub, err := gitops.Publish(repo, cfg.Remote, publishMessage, indexPaths()...)
		if err != nil {
			return err
		}

		if cfg.Mirror.Host != "" {
			if err := mirrorArtifacts(cmd, cfg.IndexDir); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "run complete: %d scanned, %d rebuilt, committed=%v\n",
			res.Scanned, len(res.Built), pub.Committed)
		return nil
	},
}

// mirrorArtifacts uploads the index file and all archives to the mirror.
func mirrorArtifacts(cmd *cobra.Command, indexDir string) error {
	c, err := mirror.New(cfg.Mirror, log.Logger)
	if err != nil {
		return err
	}
	paths, err := mirror.ArtifactPaths(indexDir,
		[]string{index.IntegrationsDir, index.PlatformsDir}, index.FileName)
	if err != nil {
		return err
	}
	return c.Upload(cmd.Context(), indexDir, paths)
}
