package screen

import (
	"github.com/mcdev12/partyquiz/go/internal/protocol"
	"github.com/mcdev12/partyquiz/go/internal/results"
	"github.com/mcdev12/partyquiz/go/internal/timers"
)

// LobbyView is the player roster between games.
type LobbyView struct {
	Room    string
	Name    string
	Host    bool
	Players []string
}

// QuestionView is the answering screen. Disabled is set when this player
// already answered or joined mid-question and must wait for the next one.
type QuestionView struct {
	Question string
	Answers  []string
	Disabled bool
	Waiting  bool
}

// ResultsView is the ranked per-answer breakdown after a question, plus the
// host-only continue control and its label.
type ResultsView struct {
	Question      string
	Breakdown     results.Breakdown
	ShowContinue  bool
	ContinueLabel string
}

// FinalView is the end-of-game leaderboard, already sorted by score.
type FinalView struct {
	Scores  []protocol.PlayerScore
	ShowEnd bool
}

// Sink receives fully computed view models. It never decides state; the
// state machine tells it exactly what to show. It also carries the timer
// display surface so both clocks render through the same sink.
type Sink interface {
	timers.Display

	// ShowLogin returns to the login form. failure is a user-visible
	// reason when a login was rejected, empty otherwise.
	ShowLogin(failure string)
	ShowLobby(view LobbyView)
	ShowQuestion(view QuestionView)
	ShowResults(view ResultsView)
	ShowFinal(view FinalView)

	// ShowRevealControl toggles the host-only "reveal results" overlay on
	// the answering screen.
	ShowRevealControl(visible bool)
}
