package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robmorgan/halo-cues/cuelist"
	"github.com/robmorgan/halo-cues/effect"
)

// runCheck validates the config and the show without touching DMX.
func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := effect.CurveByName(cfg.FadeCurve); err != nil {
		return err
	}
	pm, err := newPatch(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config ok: %d lights, %d groups, %s quality, %s fades\n",
		len(pm.GetAllLights()), len(pm.GetGroups()), cfg.RenderQuality, cfg.FadeCurve)

	if showPath == "" {
		return nil
	}
	show, err := cuelist.LoadShowFile(showPath)
	if err != nil {
		return err
	}

	cues := cuelist.NewCueList(pm)
	cues.Load(show.Cues)
	for _, cue := range cues.Cues() {
		for _, channel := range cue.LightValues.UsedChannels() {
			if _, ok := pm.GetLightProperties(channel); !ok {
				return fmt.Errorf("cue %s programs unpatched channel %d", cue, channel)
			}
		}
	}
	fmt.Fprintf(out, "show ok: %q with %d cues\n", show.Name, cues.Len())
	return nil
}
