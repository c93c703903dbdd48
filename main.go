package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/robmorgan/halo-cues/logger"
)

var (
	configPath  string
	showPath    string
	olaAddress  string
	metricsAddr string
	paused      bool
	watchShow   bool

	rootCmd = &cobra.Command{
		Use:   "halo",
		Short: "Cue-based lighting playback for DMX fixtures",
		Long: `halo loads a show of cues, follows its timeline and renders the
resulting looks to DMX through OLA.`,
		SilenceUsage: true,
		RunE:         runConsole,
	}

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Validate the config and, if given, the show file",
		RunE:  runCheck,
	}

	dumpCmd = &cobra.Command{
		Use:   "dump [universe]",
		Short: "Print the DMX values OLA currently holds for a universe",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDump,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "~/.config/halo/config.toml", "path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&showPath, "show", "", "path to a show file to load")
	rootCmd.PersistentFlags().StringVar(&olaAddress, "ola", "", "OLA address, overrides ola_address from the config")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve prometheus metrics on, e.g. :9100")
	rootCmd.Flags().BoolVar(&paused, "paused", false, "load the show without starting playback")
	rootCmd.Flags().BoolVar(&watchShow, "watch", false, "reload the show whenever the show file changes")

	rootCmd.AddCommand(checkCmd, dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.GetProjectLogger().Errorf("halo failed: %v", err)
		os.Exit(1)
	}
}
