// Verify command for the shelf CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgeyard/shelf/internal/archive"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check archives on disk against recorded checksums",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		artifacts, err := s.LatestArtifacts()
		if err != nil {
			return err
		}
		if len(artifacts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no artifacts recorded")
			return nil
		}

		failures := 0
		for _, a := range artifacts {
			if _, err := os.Stat(a.ArchivePath); err != nil {
				// An archive superseded on the same channel may have been
				// replaced; a missing file is still a verification failure.
				fmt.Fprintf(cmd.OutOrStdout(), "MISSING  %s (%s/%s)\n", a.ArchivePath, a.Kind, a.Channel)
				failures++
				continue
			}
			sum, err := archive.Checksum(a.ArchivePath)
			if err != nil {
				return err
			}
			if sum != a.Checksum {
				fmt.Fprintf(cmd.OutOrStdout(), "MISMATCH %s (%s/%s)\n", a.ArchivePath, a.Kind, a.Channel)
				failures++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK       %s %s\n", a.ArchivePath, a.Version)
		}

		if failures > 0 {
			return fmt.Errorf("%d archive(s) failed verification", failures)
		}
		return nil
	},
}
