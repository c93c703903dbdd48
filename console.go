package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/nickysemenza/gola"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"k8s.io/utils/clock"

	"github.com/robmorgan/halo-cues/action"
	"github.com/robmorgan/halo-cues/config"
	"github.com/robmorgan/halo-cues/cuelist"
	"github.com/robmorgan/halo-cues/dmx"
	"github.com/robmorgan/halo-cues/effect"
	"github.com/robmorgan/halo-cues/logger"
	"github.com/robmorgan/halo-cues/metrics"
	"github.com/robmorgan/halo-cues/patch"
	"github.com/robmorgan/halo-cues/playback"
)

const showReloadDebounce = 250 * time.Millisecond

// loadConfig reads the config and applies the flag overrides and the log level.
func loadConfig() (config.HaloConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.HaloConfig{}, err
	}
	if olaAddress != "" {
		cfg.OLAAddress = olaAddress
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return config.HaloConfig{}, err
	}
	return cfg, nil
}

// newPatch builds the patch manager with the configured lights and groups.
func newPatch(cfg config.HaloConfig) (*patch.StateManager, error) {
	pm, err := patch.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	for _, group := range cfg.Groups {
		pm.AddGroup(group.Name, group.Channels)
	}
	return pm, nil
}

// runConsole starts a playback session and runs it until interrupted.
func runConsole(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	log := logger.GetProjectLogger()
	wg := sync.WaitGroup{}

	log.Info("Initializing config...")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	curve, err := effect.CurveByName(cfg.FadeCurve)
	if err != nil {
		return err
	}

	log.Info("Initializing patch...")
	pm, err := newPatch(cfg)
	if err != nil {
		return err
	}
	cues := cuelist.NewCueList(pm)

	opts := []action.Option{action.WithRenderQuality(cfg.RenderQuality)}
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, action.WithObserver(metrics.NewCollector(reg)))
		wg.Add(1)
		go serveMetrics(ctx, metricsAddr, reg, &wg)
	}
	engine := action.NewEngine(pm, cues, opts...)
	defer engine.Close()

	state := dmx.NewState()
	renderer, err := dmx.NewRenderer(pm, cfg, state)
	if err != nil {
		return err
	}
	if err := renderer.Attach(engine); err != nil {
		return err
	}
	defer renderer.Detach()

	transport := playback.NewClockTransport(clock.RealClock{})
	player := playback.NewPlayer(engine, cues, transport, playback.WithCurve(curve))

	if showPath != "" {
		log.WithFields(logrus.Fields{"path": showPath}).Info("Loading show...")
		show, err := cuelist.LoadShowFile(showPath)
		if err != nil {
			return err
		}
		loadShow(engine, player, show)

		if watchShow {
			watcher, err := cuelist.NewShowWatcher(showPath, showReloadDebounce, func(show *cuelist.Show) {
				loadShow(engine, player, show)
			})
			if err != nil {
				return err
			}
			wg.Add(1)
			go watcher.Run(ctx, &wg)
		}
	}

	log.Info("Processing cues forever...")
	wg.Add(1)
	go player.Run(ctx, &wg)
	if !paused {
		transport.Play()
	}

	// configure OLA for DMX output
	log.WithFields(logrus.Fields{"address": cfg.OLAAddress}).Info("Connecting to OLA...")
	client, err := gola.New(cfg.OLAAddress)
	if err != nil {
		log.Errorf("could not connect to OLA: %v", err)
	} else {
		wg.Add(1)
		go dmx.SendWorker(ctx, client, clock.RealClock{}, cfg.DMXTick, state, &wg)
	}

	// handle CTRL+C interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	select {
	case <-quit:
	case <-ctx.Done():
	}
	log.Println("shutting down halo")
	cancel()
	wg.Wait()
	return nil
}

// loadShow replaces the cue list and the audio track, then has the player pick up the cue
// at the current position. Both actions purge the history.
func loadShow(engine *action.Engine, player *playback.Player, show *cuelist.Show) {
	log := logger.GetProjectLogger()
	if err := engine.PerformAction(action.NewCueLoad(show.Cues)); err != nil {
		log.Fatalf("error loading cues. err='%v'", err)
	}
	if err := engine.PerformAction(action.NewAudioLoad(show.Audio)); err != nil {
		log.Fatalf("error loading audio. err='%v'", err)
	}
	player.Reset()
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, wg *sync.WaitGroup) {
	defer wg.Done()
	log := logger.GetProjectLogger().WithFields(logrus.Fields{"address": addr})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Failed to stop metrics server")
		}
	}()

	log.Info("Serving metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("Metrics server stopped")
	}
}
