// Mirror command for the shelf CLI.
package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Upload index.json and archives to the configured mirror",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Mirror.Host == "" {
			return fmt.Errorf("no mirror host configured")
		}
		if err := mirrorArtifacts(cmd, cfg.IndexDir); err != nil {
			return err
		}
		log.Info().Str("host", cfg.Mirror.Host).Msg("mirror upload complete")
		return nil
	},
}
