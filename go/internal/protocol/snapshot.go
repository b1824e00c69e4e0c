package protocol

import (
	"encoding/json"
	"fmt"
	"math"
)

// SnapshotTag discriminates the game phase a StateSnapshot describes.
type SnapshotTag string

const (
	TagLobby          SnapshotTag = "lobby"
	TagCountdown      SnapshotTag = "countdown"
	TagQuestion       SnapshotTag = "question"
	TagConfirmResults SnapshotTag = "confirmresults"
	TagResults        SnapshotTag = "results"
	TagFinal          SnapshotTag = "final"
)

// NoAnswer is the answer index recorded when a player gave no usable answer.
const NoAnswer = -1

// StateSnapshot is one complete, self-contained description of the current
// game phase. Exactly one payload field is set, matching Tag; an unknown tag
// carries no payload and is ignored by the state machine.
type StateSnapshot struct {
	Tag       SnapshotTag
	Lobby     *LobbySnapshot
	Countdown *CountdownSnapshot
	Question  *QuestionSnapshot
	Results   *ResultsSnapshot
	Final     *FinalSnapshot
}

type LobbySnapshot struct {
	Room    string
	Name    string
	Host    bool
	Players []string
}

type CountdownSnapshot struct {
	Timeout int
}

// QuestionSnapshot is shared by the question and confirmresults tags; the
// confirmresults payload repeats the question fields so a late joiner can
// rebuild the answer screen from it alone.
type QuestionSnapshot struct {
	Question string
	Answers  []string
	Timeout  int
	Answered bool
	Pending  bool
	Host     bool
}

type ResultsSnapshot struct {
	Question  string
	Answers   []string
	Votes     []VoteRecord
	Host      bool
	FinalNext bool
}

type FinalSnapshot struct {
	Scores []PlayerScore
	Host   bool
}

// VoteRecord is one (voter, chosen answer, score delta) tuple. On the wire
// it is a heterogeneous array: [name, index|null, delta].
type VoteRecord struct {
	Voter  string
	Answer int
	Delta  int
}

// UnmarshalJSON accepts the wire tuple form. A missing, null, fractional or
// negative index becomes NoAnswer; the upper bound is only checkable against
// the answer list and is enforced by the aggregator.
func (v *VoteRecord) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return err
	}
	if len(parts) == 0 {
		return fmt.Errorf("empty vote tuple")
	}
	if err := json.Unmarshal(parts[0], &v.Voter); err != nil {
		return fmt.Errorf("vote tuple voter: %w", err)
	}
	v.Answer = NoAnswer
	if len(parts) > 1 {
		var idx float64
		if err := json.Unmarshal(parts[1], &idx); err == nil &&
			idx == math.Trunc(idx) && idx >= 0 && idx <= math.MaxInt32 {
			v.Answer = int(idx)
		}
	}
	v.Delta = 0
	if len(parts) > 2 {
		var d float64
		if err := json.Unmarshal(parts[2], &d); err == nil {
			v.Delta = int(d)
		}
	}
	return nil
}

// PlayerScore is one [name, score] tuple from a final snapshot.
type PlayerScore struct {
	Name  string
	Score int
}

func (p *PlayerScore) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return err
	}
	if len(parts) < 2 {
		return fmt.Errorf("score tuple needs name and score, got %d elements", len(parts))
	}
	if err := json.Unmarshal(parts[0], &p.Name); err != nil {
		return fmt.Errorf("score tuple name: %w", err)
	}
	if err := json.Unmarshal(parts[1], &p.Score); err != nil {
		return fmt.Errorf("score tuple score: %w", err)
	}
	return nil
}

// rawSnapshot is the flat wire form before per-tag validation.
type rawSnapshot struct {
	State     string          `json:"state"`
	Room      string          `json:"room"`
	Name      string          `json:"name"`
	Host      bool            `json:"host"`
	Players   *[]string       `json:"players"`
	Timeout   *int            `json:"timeout"`
	Question  string          `json:"question"`
	Answers   []string        `json:"answers"`
	Answered  bool            `json:"answered"`
	Pending   bool            `json:"pending"`
	Results   json.RawMessage `json:"results"`
	FinalNext bool            `json:"finalnext"`
}

// DecodeSnapshot parses the inner state payload (the second decode of the
// double-encoded wire format) and validates the fields the tag requires.
// Missing or malformed required fields fail closed rather than propagating
// zero values into rendering.
func DecodeSnapshot(payload []byte) (*StateSnapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: state payload: %v", ErrProtocol, err)
	}
	if raw.State == "" {
		return nil, fmt.Errorf("%w: state payload missing state tag", ErrProtocol)
	}

	snap := &StateSnapshot{Tag: SnapshotTag(raw.State)}
	switch snap.Tag {
	case TagLobby:
		if raw.Players == nil {
			return nil, fmt.Errorf("%w: lobby snapshot missing players", ErrProtocol)
		}
		snap.Lobby = &LobbySnapshot{
			Room:    raw.Room,
			Name:    raw.Name,
			Host:    raw.Host,
			Players: *raw.Players,
		}

	case TagCountdown:
		if raw.Timeout == nil {
			return nil, fmt.Errorf("%w: countdown snapshot missing timeout", ErrProtocol)
		}
		snap.Countdown = &CountdownSnapshot{Timeout: *raw.Timeout}

	case TagQuestion, TagConfirmResults:
		q, err := questionFields(&raw)
		if err != nil {
			return nil, err
		}
		snap.Question = q

	case TagResults:
		if len(raw.Answers) == 0 {
			return nil, fmt.Errorf("%w: results snapshot missing answers", ErrProtocol)
		}
		if raw.Results == nil {
			return nil, fmt.Errorf("%w: results snapshot missing results", ErrProtocol)
		}
		var votes []VoteRecord
		if err := json.Unmarshal(raw.Results, &votes); err != nil {
			return nil, fmt.Errorf("%w: results snapshot votes: %v", ErrProtocol, err)
		}
		snap.Results = &ResultsSnapshot{
			Question:  raw.Question,
			Answers:   raw.Answers,
			Votes:     votes,
			Host:      raw.Host,
			FinalNext: raw.FinalNext,
		}

	case TagFinal:
		if raw.Results == nil {
			return nil, fmt.Errorf("%w: final snapshot missing results", ErrProtocol)
		}
		var scores []PlayerScore
		if err := json.Unmarshal(raw.Results, &scores); err != nil {
			return nil, fmt.Errorf("%w: final snapshot scores: %v", ErrProtocol, err)
		}
		snap.Final = &FinalSnapshot{Scores: scores, Host: raw.Host}

	default:
		// Unknown tags are kept tag-only so the state machine can ignore
		// them; new server phases must not kill old clients.
	}

	return snap, nil
}

func questionFields(raw *rawSnapshot) (*QuestionSnapshot, error) {
	if raw.Question == "" {
		return nil, fmt.Errorf("%w: %s snapshot missing question", ErrProtocol, raw.State)
	}
	if len(raw.Answers) == 0 {
		return nil, fmt.Errorf("%w: %s snapshot missing answers", ErrProtocol, raw.State)
	}
	if raw.Timeout == nil {
		return nil, fmt.Errorf("%w: %s snapshot missing timeout", ErrProtocol, raw.State)
	}
	return &QuestionSnapshot{
		Question: raw.Question,
		Answers:  raw.Answers,
		Timeout:  *raw.Timeout,
		Answered: raw.Answered,
		Pending:  raw.Pending,
		Host:     raw.Host,
	}, nil
}
