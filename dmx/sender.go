package dmx

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"k8s.io/utils/clock"

	"github.com/robmorgan/halo-cues/logger"
)

// OLAClient is the interface for communicating with OLA
type OLAClient interface {
	SendDmx(universe int, values []byte) (status bool, err error)
	Close()
}

// SendWorker sends OLA the current state across all universes every tick until ctx is done.
// It closes the client on return.
func SendWorker(ctx context.Context, client OLAClient, cl clock.WithTicker, tick time.Duration, state *State, wg *sync.WaitGroup) error {
	defer wg.Done()
	defer client.Close()

	log := logger.GetProjectLogger()
	ticker := cl.NewTicker(tick)
	defer ticker.Stop()
	log.WithFields(logrus.Fields{"tick": tick}).Info("DMX sender started")

	for {
		select {
		case <-ctx.Done():
			log.Info("DMX sender shutdown")
			return ctx.Err()
		case <-ticker.C():
			send(client, state, log)
		}
	}
}

func send(client OLAClient, state *State, log *logrus.Logger) {
	universes := state.Universes()
	keys := maps.Keys(universes)
	slices.Sort(keys)

	for _, universe := range keys {
		ok, err := client.SendDmx(universe, universes[universe])
		if err != nil || !ok {
			log.WithError(err).WithFields(logrus.Fields{"universe": universe}).Warn("Failed to send DMX frame")
		}
	}
}
