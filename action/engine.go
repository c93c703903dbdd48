package action

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/robmorgan/halo-cues/config"
	"github.com/robmorgan/halo-cues/cuelist"
	"github.com/robmorgan/halo-cues/fixture"
	"github.com/robmorgan/halo-cues/logger"
	"github.com/robmorgan/halo-cues/patch"
)

// Observer is told about engine activity, e.g. to export metrics.
type Observer interface {
	ActionPerformed(name string)
	ActionUndone(name string)
	FadeTicked()
	CueCountChanged(count int)
}

// Engine applies actions to the patch and the cue list and keeps the undo and redo history.
// Performed and undone actions are published on the embedded Bus. Handlers run while the
// engine is locked and must not call back into it.
type Engine struct {
	Bus

	patch patch.Manager
	cues  *cuelist.CueList

	clock      clock.WithTicker
	fadePeriod time.Duration
	logger     *logrus.Logger
	observer   Observer

	undoHistory []Action
	redoHistory []Action

	generation atomic.Uint64
	activeFade *Fade

	lock sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock driving fade sampling.
func WithClock(cl clock.WithTicker) Option {
	return func(e *Engine) { e.clock = cl }
}

// WithRenderQuality sets the fade sampling period from a render quality.
func WithRenderQuality(quality config.RenderQuality) Option {
	return func(e *Engine) { e.fadePeriod = quality.FadeSamplePeriod() }
}

// WithLogger replaces the project logger.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithObserver reports engine activity to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine creates an engine with empty history.
func NewEngine(pm patch.Manager, cues *cuelist.CueList, opts ...Option) *Engine {
	e := &Engine{
		patch:      pm,
		cues:       cues,
		clock:      clock.RealClock{},
		fadePeriod: config.RenderQualityMedium.FadeSamplePeriod(),
		logger:     logger.GetProjectLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PerformAction applies a and records it for undo, or clears the history when a purges it.
// An action that fails to apply is not recorded and nothing is published.
func (e *Engine) PerformAction(a Action) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.perform(a)
}

func (e *Engine) perform(a Action) error {
	log := e.logger.WithFields(logrus.Fields{"action": a.Name()})

	if err := e.apply(a); err != nil {
		log.WithError(err).Error("Failed to perform action")
		return errors.WithStackTrace(err)
	}

	if a.PurgeHistory() {
		e.undoHistory = nil
		e.redoHistory = nil
		log.Info("Cleared action history")
	} else {
		e.undoHistory = append(e.undoHistory, a)
	}
	log.Debug("Performed action")

	if e.observer != nil {
		e.observer.ActionPerformed(a.Name())
		e.observer.CueCountChanged(e.cues.Len())
	}
	e.publish(a)
	return nil
}

// Undo reverts the most recent action. It does nothing when there is nothing to undo. If the
// action cannot be reverted it stays on the undo stack and the error is returned; the history
// is then inconsistent and the caller should stop.
func (e *Engine) Undo() error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if len(e.undoHistory) == 0 {
		return nil
	}
	a := e.undoHistory[len(e.undoHistory)-1]
	e.undoHistory = e.undoHistory[:len(e.undoHistory)-1]

	log := e.logger.WithFields(logrus.Fields{"action": a.Name()})
	if err := e.revert(a); err != nil {
		e.undoHistory = append(e.undoHistory, a)
		log.WithError(err).Error("Failed to undo action")
		return errors.WithStackTrace(err)
	}

	e.redoHistory = append(e.redoHistory, a)
	log.Debug("Undid action")

	if e.observer != nil {
		e.observer.ActionUndone(a.Name())
		e.observer.CueCountChanged(e.cues.Len())
	}
	e.publish(a)
	return nil
}

// Redo performs the most recently undone action again. It does nothing when there is nothing
// to redo.
func (e *Engine) Redo() error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if len(e.redoHistory) == 0 {
		return nil
	}
	a := e.redoHistory[len(e.redoHistory)-1]
	e.redoHistory = e.redoHistory[:len(e.redoHistory)-1]

	if err := e.perform(a); err != nil {
		e.redoHistory = append(e.redoHistory, a)
		return err
	}
	return nil
}

// CanUndo reports whether there is an action to undo.
func (e *Engine) CanUndo() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return len(e.undoHistory) > 0
}

// CanRedo reports whether there is an action to redo.
func (e *Engine) CanRedo() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return len(e.redoHistory) > 0
}

// Close stops a running fade.
func (e *Engine) Close() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.stopFade()
}

func (e *Engine) publish(a Action) {
	e.emit(a)
	if a.Rerender() {
		e.emitRender()
	}
}

func (e *Engine) apply(a Action) error {
	switch a := a.(type) {
	case *LightValueSet:
		if !a.done {
			a.oldValue = e.patch.GetSelectedValue()
			a.newValue = fixture.OnlyAttribute(a.Attribute, a.Value)
			a.snapshot = e.patch.SnapshotProgrammer(e.patch.GetSelectedLights())
			a.done = true
		}
		e.patch.SetValue(a.newValue)

	case *LightSelect:
		if !a.done {
			a.oldGroup = e.patch.GetSelectedLights()
			if a.DeselectOthers {
				e.patch.ClearSelection()
			}
			if a.Deselect {
				e.patch.DeselectLights(a.Channels...)
			} else {
				e.patch.SelectLights(a.Channels...)
			}
			a.newGroup = e.patch.GetSelectedLights()
			a.done = true
		} else {
			e.patch.SetSelectedLights(a.newGroup)
		}

	case *CueSelect:
		if !a.done {
			a.oldCueID = e.cues.GetSelectedCueID()
			a.done = true
		}
		e.stopFade()
		e.cues.SelectCue(a.CueID)
		if a.takePendingFade() {
			e.startFade(a)
		}

	case *CueAdd:
		if !a.done {
			a.previousCueID = e.cues.GetSelectedCueID()
			a.cue = e.cues.AddCue(a.Time, a.Title, a.Fade)
			a.done = true
		} else {
			e.cues.InsertCue(a.cue)
			e.cues.SelectCue(a.cue.ID)
		}

	case *CueDelete:
		first := !a.done
		if first {
			a.wasSelected = a.CueID != "" && e.cues.GetSelectedCueID() == a.CueID
			a.done = true
		}
		old := e.cues.DeleteCue(a.CueID)
		if first {
			a.oldCue = old
		}

	case *CueUpdate:
		if !a.done {
			cue := e.cues.GetCue(a.CueID)
			if cue == nil {
				return ErrCueNotFound
			}
			a.oldTime, a.oldTitle, a.oldFade = cue.Time, cue.Title, cue.Fade
			if a.time == nil {
				a.time = &a.oldTime
			}
			if a.title == nil {
				a.title = &a.oldTitle
			}
			if a.fade == nil {
				a.fade = &a.oldFade
			}
			a.done = true
		}
		if e.cues.UpdateCue(a.CueID, *a.time, *a.title, *a.fade) == nil {
			return ErrCueNotFound
		}

	case *CueLoad:
		e.stopFade()
		e.cues.Load(a.Cues)
		e.cues.SelectCue("")

	case *AudioLoad:
		e.cues.SetAudio(a.Audio)

	default:
		return fmt.Errorf("unknown action %T", a)
	}
	return nil
}

func (e *Engine) revert(a Action) error {
	switch a := a.(type) {
	case *LightValueSet:
		if !a.done {
			return ErrUndoBeforeDo
		}
		e.patch.RestoreProgrammer(a.snapshot)

	case *LightSelect:
		if !a.done {
			return ErrUndoBeforeDo
		}
		e.patch.SetSelectedLights(a.oldGroup)

	case *CueSelect:
		if !a.done {
			return ErrUndoBeforeDo
		}
		e.stopFade()
		e.cues.SelectCue(a.oldCueID)

	case *CueAdd:
		if !a.done {
			return ErrUndoBeforeDo
		}
		e.cues.DeleteCue(a.cue.ID)
		e.cues.SelectCue(a.previousCueID)

	case *CueDelete:
		if !a.done {
			return ErrUndoBeforeDo
		}
		if a.oldCue != nil {
			e.cues.InsertCue(a.oldCue)
			if a.wasSelected {
				e.cues.SelectCue(a.oldCue.ID)
			}
		}

	case *CueUpdate:
		if !a.done {
			return ErrUndoBeforeDo
		}
		e.cues.UpdateCue(a.CueID, a.oldTime, a.oldTitle, a.oldFade)

	case *CueLoad, *AudioLoad:
		return ErrIrreversible

	default:
		return fmt.Errorf("unknown action %T", a)
	}
	return nil
}

// stopFade supersedes the running fade, if any, and finishes it.
func (e *Engine) stopFade() {
	e.generation.Add(1)
	if e.activeFade != nil {
		e.activeFade.finish()
		e.activeFade = nil
	}
}

func (e *Engine) startFade(a *CueSelect) {
	cfg := fadeConfig{
		clock:      e.clock,
		period:     e.fadePeriod,
		generation: e.generation.Add(1),
		current:    e.generation.Load,
		getT:       a.getT,
		onFinish:   a.clearActive,
		logger:     e.logger.WithFields(logrus.Fields{"action": a.Name(), "cue_id": a.CueID}),
	}
	if e.observer != nil {
		cfg.onTick = e.observer.FadeTicked
	}

	f := newFade(cfg)
	a.setActive(f)
	e.activeFade = f
	go f.run()
}
