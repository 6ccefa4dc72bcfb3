package session

import (
	"time"

	"github.com/lifeinfocus/focus/internal/models"
)

// EffectKind names a side effect the owner of a Machine must carry out after
// a transition.
type EffectKind int

const (
	// StartTicker begins polling Tick every TickInterval, replacing any
	// ticker that is already live.
	StartTicker EffectKind = iota
	StopTicker
	// Persist saves a completed session without waiting for the result.
	Persist
	// PersistAwait saves a completed session and blocks until it is stored.
	PersistAwait
	// Announce signals the end of a phase through the alert channel.
	Announce
)

func (k EffectKind) String() string {
	switch k {
	case StartTicker:
		return "start-ticker"
	case StopTicker:
		return "stop-ticker"
	case Persist:
		return "persist"
	case PersistAwait:
		return "persist-await"
	case Announce:
		return "announce"
	}

	return "unknown"
}

// Effect is a single side effect. Session is set for the persist kinds and
// Ended for Announce.
type Effect struct {
	Session *models.CompletedSession
	Kind    EffectKind
	Ended   Phase
}

// Step identifies a machine state by phase and status.
type Step struct {
	Phase  Phase
	Status Status
}

// Transition describes one state change and the effects it requires.
type Transition struct {
	Effects []Effect
	From    Step
	To      Step
}

// Changed reports whether the transition moved the machine.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Has reports whether the transition carries an effect of the given kind.
func (t Transition) Has(kind EffectKind) bool {
	for _, e := range t.Effects {
		if e.Kind == kind {
			return true
		}
	}

	return false
}

type edge int

const (
	edgeStart edge = iota
	edgePause
	edgeResume
	edgeWorkDone
	edgeBreakDone
	edgeFinish
	edgeSkip
	edgeSubmit
)

// edgeEffects is the single place that decides which side effects follow
// each kind of transition. Persist kinds are dropped when there is nothing
// to record.
var edgeEffects = map[edge][]EffectKind{
	edgeStart:     {StartTicker},
	edgePause:     {StopTicker},
	edgeResume:    {StartTicker},
	edgeWorkDone:  {Persist, Announce},
	edgeBreakDone: {StopTicker, Announce},
	edgeFinish:    {StopTicker, PersistAwait},
	edgeSkip:      {StopTicker},
	edgeSubmit:    {Persist},
}

func effectsFor(
	e edge,
	rec *models.CompletedSession,
	ended Phase,
) []Effect {
	kinds := edgeEffects[e]

	effects := make([]Effect, 0, len(kinds))

	for _, k := range kinds {
		switch k {
		case Persist, PersistAwait:
			if rec == nil {
				continue
			}

			effects = append(effects, Effect{Kind: k, Session: rec})
		case Announce:
			effects = append(effects, Effect{Kind: k, Ended: ended})
		default:
			effects = append(effects, Effect{Kind: k})
		}
	}

	return effects
}

// TickInterval is how often a running timer should call Tick.
const TickInterval = 100 * time.Millisecond
