// Root command for the shelf CLI.
package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/forgeyard/shelf/internal/paths"
	"github.com/forgeyard/shelf/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagLogLevel  string
)

// cfg holds the configuration loaded by PersistentPreRunE so all
// subcommands can use it.
var cfg types.Config

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Shelf curates a downloadable-package index",
	Long: `Shelf scans integration and platform package checkouts, packages them
into zip archives, records their versions per release channel in index.json,
and publishes the result.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyLogLevel(flagLogLevel)

		// version and init run without a loaded configuration.
		switch cmd.Name() {
		case "version", "init", "help", "completion":
			return nil
		}

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		loaded, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		cfg = loaded
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "history database directory (default: $(CWD)/.shelf-db)")
	rootCmd.PersistentFlags().StringVarP(&flagLogLevel, "log", "l", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(mirrorCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(verifyCmd)
}

// applyLogLevel sets the global zerolog level from the --log flag.
func applyLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// resolveConfigDir returns the configuration directory following the
// precedence flag > SHELF_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir returns the history database directory following the
// precedence flag > config.yaml data_dir > SHELF_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, cfg.DataDir)
}
