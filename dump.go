package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/nickysemenza/gola"
	"github.com/spf13/cobra"
)

// runDump prints the DMX values OLA holds for a universe, universe 1 by default.
func runDump(cmd *cobra.Command, args []string) error {
	universe := 1
	if len(args) == 1 {
		var err error
		if universe, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("invalid universe %q: %w", args[0], err)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := gola.New(cfg.OLAAddress)
	if err != nil {
		return fmt.Errorf("could not connect to OLA: %w", err)
	}
	defer client.Close()

	reply, err := client.GetDmx(universe)
	if err != nil {
		return fmt.Errorf("GetDmx: %d: %w", universe, err)
	}
	fmt.Fprint(cmd.OutOrStdout(), hex.Dump(reply.Data))
	return nil
}
