package protocol

import (
	"encoding/json"
	"fmt"
)

// Inbound event names.
const (
	InboundSuccess    = "success"
	InboundError      = "error"
	InboundState      = "state"
	InboundPing       = "ping"
	InboundDisconnect = "disconnect"
)

// Inbound is the envelope for every server-pushed message. For a "state"
// event Data is a JSON-encoded string that itself contains the snapshot
// (double-encoded on the wire; see DecodeSnapshot for the second pass).
type Inbound struct {
	EventName string          `json:"eventName"`
	Data      json.RawMessage `json:"data"`
}

// DecodeInbound parses the outer envelope, failing closed on anything that
// is not a well-formed envelope with an event name.
func DecodeInbound(raw []byte) (*Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if in.EventName == "" {
		return nil, fmt.Errorf("%w: missing eventName", ErrProtocol)
	}
	return &in, nil
}

// DataString decodes the envelope data as a JSON string. Used for "error"
// reasons and for the double-encoded "state" payload.
func (in *Inbound) DataString() (string, error) {
	var s string
	if err := json.Unmarshal(in.Data, &s); err != nil {
		return "", fmt.Errorf("%w: data is not a string: %v", ErrProtocol, err)
	}
	return s, nil
}

// Outbound user-initiated requests. All of them are fire-and-forget; the
// next authoritative state snapshot is the only confirmation.

type LoginRequest struct {
	Event string `json:"event"`
	Name  string `json:"name"`
	Room  string `json:"room"`
}

type AnswerRequest struct {
	Event string `json:"event"`
	ID    int    `json:"id"`
}

type Request struct {
	Event string `json:"event"`
}

func Login(name, room string) LoginRequest {
	return LoginRequest{Event: "login", Name: name, Room: room}
}

func Answer(id int) AnswerRequest {
	return AnswerRequest{Event: "answer", ID: id}
}

func StartGame() Request { return Request{Event: "startGame"} }

func ConfirmResults() Request { return Request{Event: "doConfirmResults"} }

func CompleteResults() Request { return Request{Event: "doCompleteResults"} }

func CompleteFinal() Request { return Request{Event: "doCompleteFinal"} }

func EndGame() Request { return Request{Event: "endGame"} }

func Logout() Request { return Request{Event: "logout"} }

func Pong() Request { return Request{Event: "pong"} }
