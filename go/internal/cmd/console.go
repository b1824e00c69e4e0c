package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mcdev12/partyquiz/go/internal/screen"
)

// consoleSink renders view models as plain terminal output. It decides
// nothing; it prints exactly what the state machine hands it.
type consoleSink struct {
	mu sync.Mutex
}

func (s *consoleSink) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Printf(format+"\n", args...)
}

func (s *consoleSink) ShowLogin(failure string) {
	if failure != "" {
		s.printf("== LOGIN ==  login failed: %s", failure)
		return
	}
	s.printf("== LOGIN ==")
}

func (s *consoleSink) ShowLobby(v screen.LobbyView) {
	s.printf("== LOBBY ==  room %s, logged in as %s", v.Room, v.Name)
	s.printf("players: %s", strings.Join(v.Players, ", "))
	if v.Host {
		s.printf("[start] to begin the game")
	}
}

func (s *consoleSink) ShowQuestion(v screen.QuestionView) {
	s.printf("== QUESTION ==  %s", v.Question)
	for i, a := range v.Answers {
		s.printf("  [%d] %s", i, a)
	}
	if v.Waiting {
		s.printf("waiting for the next question...")
	}
}

func (s *consoleSink) ShowResults(v screen.ResultsView) {
	s.printf("== RESULTS ==  %s", v.Question)
	for _, g := range v.Breakdown.Groups {
		mark := " "
		if g.Winning {
			mark = "*"
		}
		line := fmt.Sprintf("%s %s", mark, g.Answer)
		if g.Bonus > 0 {
			line += fmt.Sprintf(" (+%d)", g.Bonus)
		}
		s.printf("%s: %s", line, strings.Join(g.Voters, ", "))
	}
	if len(v.Breakdown.Unanswered) > 0 {
		s.printf("  no answer: %s", strings.Join(v.Breakdown.Unanswered, ", "))
	}
	if v.ShowContinue {
		s.printf("[continue] %s", v.ContinueLabel)
	}
}

func (s *consoleSink) ShowFinal(v screen.FinalView) {
	s.printf("== FINAL ==")
	for _, p := range v.Scores {
		s.printf("  %s  %d pts", p.Name, p.Score)
	}
	if v.ShowEnd {
		s.printf("[end] to close the game")
	}
}

func (s *consoleSink) ShowRevealControl(visible bool) {
	if visible {
		s.printf("[reveal] to show the results")
	}
}

func (s *consoleSink) SetCountdown(seconds int) {
	s.printf("starting in %d...", seconds)
}

func (s *consoleSink) HideCountdown() {}

func (s *consoleSink) SetAnswerClock(text string) {
	s.printf("time %s", text)
}
