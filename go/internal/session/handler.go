// Package session sequences the login handshake and dispatches post-login
// messages for one physical connection. One Handler exists per connection;
// a fresh connection gets a fresh Handler, which is how the reconnect latch
// re-arms on every successful connection attempt.
package session

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyquiz/go/internal/protocol"
)

// ErrServerDisconnect is returned when the server issues an explicit
// disconnect directive. It suppresses reconnection for this connection.
var ErrServerDisconnect = errors.New("server issued disconnect")

// Sender pushes a fire-and-forget outbound envelope.
type Sender interface {
	Send(v any) error
}

// StateApplier consumes decoded state snapshots; in practice this is the
// screen state machine.
type StateApplier interface {
	Apply(snap *protocol.StateSnapshot)
}

// Handler gates messages on authentication state and owns the
// reconnect-eligible latch for its connection.
type Handler struct {
	out    Sender
	states StateApplier

	authenticated bool
	reconnect     bool
}

func NewHandler(out Sender, states StateApplier) *Handler {
	return &Handler{out: out, states: states}
}

// HandleMessage dispatches one inbound message. The returned error decides
// the connection's fate: protocol.ErrProtocol and protocol.AuthError are
// fatal, ErrServerDisconnect is a clean server-side stop, nil keeps reading.
func (h *Handler) HandleMessage(raw []byte) error {
	in, err := protocol.DecodeInbound(raw)
	if err != nil {
		return err
	}

	if !h.authenticated {
		return h.handlePreAuth(in)
	}

	// Any authenticated traffic proves the session is live; that is what
	// makes an unexpected close worth a transparent reconnect.
	h.reconnect = true

	switch in.EventName {
	case protocol.InboundState:
		payload, err := in.DataString()
		if err != nil {
			return err
		}
		snap, err := protocol.DecodeSnapshot([]byte(payload))
		if err != nil {
			return err
		}
		h.states.Apply(snap)
		return nil

	case protocol.InboundPing:
		if err := h.out.Send(protocol.Pong()); err != nil {
			return fmt.Errorf("send pong: %w", err)
		}
		return nil

	case protocol.InboundDisconnect:
		h.reconnect = false
		return ErrServerDisconnect

	default:
		log.Debug().Str("event", in.EventName).Msg("ignoring unknown post-login event")
		return nil
	}
}

func (h *Handler) handlePreAuth(in *protocol.Inbound) error {
	switch in.EventName {
	case protocol.InboundSuccess:
		h.authenticated = true
		h.reconnect = true
		log.Info().Msg("login accepted")
		return nil

	case protocol.InboundError:
		reason, err := in.DataString()
		if err != nil {
			return err
		}
		return &protocol.AuthError{Reason: reason}

	default:
		log.Debug().Str("event", in.EventName).Msg("ignoring event before login completes")
		return nil
	}
}

// Authenticated reports whether the login handshake has completed.
func (h *Handler) Authenticated() bool {
	return h.authenticated
}

// ReconnectEligible reports whether an unexpected close should trigger an
// automatic reconnection attempt. The latch arms on the first authenticated
// message and clears only on an explicit server disconnect; a user logout is
// gated by the client, which never consults the latch after one.
func (h *Handler) ReconnectEligible() bool {
	return h.reconnect
}
