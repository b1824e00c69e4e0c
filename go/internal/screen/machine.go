// Package screen owns the client's screen state machine. Transitions happen
// only in response to server-pushed state snapshots; local timers reaching
// zero change what a clock displays, never which screen is active.
package screen

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyquiz/go/internal/protocol"
	"github.com/mcdev12/partyquiz/go/internal/results"
	"github.com/mcdev12/partyquiz/go/internal/timers"
)

// Screen identifies the mutually exclusive top-level view.
type Screen string

const (
	ScreenLogin     Screen = "login"
	ScreenLobby     Screen = "lobby"
	ScreenAnswering Screen = "answering"
	ScreenResults   Screen = "results"
	ScreenFinal     Screen = "final"
)

// Machine maps state snapshots onto the active screen, the timers, and the
// render sink. It is the only writer of the current screen.
//
// The confirm-results phase is not a screen of its own: it is modeled as an
// overlay flag on the answering screen, matching the way the reveal control
// sits on top of the question view.
type Machine struct {
	sink   Sink
	timers *timers.Controller

	current    Screen
	confirming bool
}

func NewMachine(sink Sink, timers *timers.Controller) *Machine {
	return &Machine{sink: sink, timers: timers, current: ScreenLogin}
}

// Current returns the active screen.
func (m *Machine) Current() Screen {
	return m.current
}

// Confirming reports whether the reveal-results overlay is active.
func (m *Machine) Confirming() bool {
	return m.confirming
}

// Apply dispatches one state snapshot. Unknown tags are ignored so newer
// servers cannot kill older clients.
func (m *Machine) Apply(snap *protocol.StateSnapshot) {
	log.Debug().
		Str("tag", string(snap.Tag)).
		Str("screen", string(m.current)).
		Msg("applying state snapshot")

	switch snap.Tag {
	case protocol.TagLobby:
		m.applyLobby(snap.Lobby)
	case protocol.TagCountdown:
		// Not a screen transition; only the countdown clock changes, and
		// starting it replaces any countdown already running.
		m.timers.StartCountdown(snap.Countdown.Timeout)
	case protocol.TagQuestion:
		m.applyQuestion(snap.Question)
	case protocol.TagConfirmResults:
		m.applyConfirmResults(snap.Question)
	case protocol.TagResults:
		m.applyResults(snap.Results)
	case protocol.TagFinal:
		m.applyFinal(snap.Final)
	default:
		log.Warn().Str("tag", string(snap.Tag)).Msg("ignoring unknown state tag")
	}
}

// Reset returns to the login screen, cancelling all timers. failure is
// surfaced to the user when a login was rejected.
func (m *Machine) Reset(failure string) {
	m.changeScreen(ScreenLogin)
	m.sink.ShowLogin(failure)
}

// changeScreen cancels both timers unconditionally before any transition
// applies its own logic.
func (m *Machine) changeScreen(next Screen) {
	m.timers.CancelAll()
	m.confirming = false
	m.current = next
}

func (m *Machine) applyLobby(lobby *protocol.LobbySnapshot) {
	m.changeScreen(ScreenLobby)
	m.sink.ShowLobby(LobbyView{
		Room:    lobby.Room,
		Name:    lobby.Name,
		Host:    lobby.Host,
		Players: lobby.Players,
	})
}

func (m *Machine) applyQuestion(q *protocol.QuestionSnapshot) {
	m.changeScreen(ScreenAnswering)

	done := q.Answered || q.Pending
	m.sink.ShowRevealControl(false)
	m.sink.ShowQuestion(QuestionView{
		Question: q.Question,
		Answers:  q.Answers,
		Disabled: done,
		Waiting:  done,
	})
	m.timers.StartAnswerClock(q.Timeout)
}

func (m *Machine) applyConfirmResults(q *protocol.QuestionSnapshot) {
	if m.current != ScreenAnswering {
		// A player who joined mid-question can see confirmresults without
		// ever having seen the question. The snapshot repeats the question
		// fields, so rebuild the answering screen from it first.
		log.Debug().Str("screen", string(m.current)).Msg("confirmresults before question; synthesizing answer screen")
		m.applyQuestion(q)
	}

	m.confirming = true
	m.sink.ShowRevealControl(q.Host)
	m.timers.FreezeAnswerClock()
}

func (m *Machine) applyResults(r *protocol.ResultsSnapshot) {
	m.changeScreen(ScreenResults)

	label := "Continue"
	if r.FinalNext {
		label = "Final Results"
	}
	m.sink.ShowResults(ResultsView{
		Question:      r.Question,
		Breakdown:     results.Aggregate(r.Answers, r.Votes),
		ShowContinue:  r.Host,
		ContinueLabel: label,
	})
}

func (m *Machine) applyFinal(f *protocol.FinalSnapshot) {
	m.changeScreen(ScreenFinal)

	scores := make([]protocol.PlayerScore, len(f.Scores))
	copy(scores, f.Scores)
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	m.sink.ShowFinal(FinalView{Scores: scores, ShowEnd: f.Host})
}
