// Index command for the shelf CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgeyard/shelf/pkg/types"
)

var indexDev bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Scan package checkouts and refresh the index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		channel := types.ChannelMain
		if indexDev {
			channel = types.ChannelDev
		}

		res, err := runIndex(channel)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d packages on %s, rebuilt %d\n",
			res.Scanned, channel, len(res.Built))
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&indexDev, "dev", false, "index on the dev channel (archives get a _dev suffix)")
}
