// Package client owns the websocket connection to the quiz server: dialing,
// the login send, the read loop, reconnect gating, and the fire-and-forget
// user actions. All inbound dispatch goes through one session handler per
// connection, called synchronously from the read loop so snapshots are
// processed strictly in arrival order.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyquiz/go/internal/protocol"
	"github.com/mcdev12/partyquiz/go/internal/screen"
	"github.com/mcdev12/partyquiz/go/internal/session"
	"github.com/mcdev12/partyquiz/go/internal/timers"
)

// ErrNotConnected is returned by user actions fired while no connection is
// up. Callers surface it and move on; the action was never sent.
var ErrNotConnected = errors.New("not connected")

// Config holds connection settings.
type Config struct {
	URL          string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns sane connection settings for interactive use.
func DefaultConfig(url string) Config {
	return Config{
		URL:          url,
		DialTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Client runs one logical player session. A logical session may span several
// physical connections: an unexpected close while reconnect-eligible redials
// immediately and replays the same credentials.
type Client struct {
	cfg     Config
	machine *screen.Machine

	mu        sync.Mutex
	conn      *websocket.Conn
	handler   *session.Handler
	loggedOut bool
}

// New wires the timer controller and screen state machine onto the given
// render sink. The clock is injected so tests can drive timers with a fake.
func New(cfg Config, clock clockwork.Clock, sink screen.Sink) *Client {
	ctrl := timers.NewController(clock, sink)
	return &Client{
		cfg:     cfg,
		machine: screen.NewMachine(sink, ctrl),
	}
}

// Run connects, logs in, and processes inbound messages until the session
// ends. It returns nil after a user logout; an AuthError when the login was
// rejected; session.ErrServerDisconnect when the server told us to go away;
// or the transport/protocol error that ended the final connection. While
// reconnect-eligible, transport errors trigger an immediate redial instead
// of returning.
func (c *Client) Run(ctx context.Context, name, room string) error {
	for {
		err := c.runConnection(ctx, name, room)
		if err == nil {
			return nil
		}

		var authErr *protocol.AuthError
		if errors.As(err, &authErr) {
			c.machine.Reset(authErr.Reason)
			return err
		}
		if errors.Is(err, session.ErrServerDisconnect) {
			log.Info().Msg("server ended the session")
			c.machine.Reset("")
			return err
		}
		if errors.Is(err, protocol.ErrProtocol) {
			// A peer that sent one undecodable message will send another;
			// only transport failures get the automatic redial.
			log.Error().Err(err).Msg("protocol error; closing session")
			c.machine.Reset("")
			return err
		}

		if c.reconnectEligible() && ctx.Err() == nil {
			log.Warn().Err(err).Msg("connection lost; reconnecting")
			continue
		}

		c.machine.Reset("")
		return err
	}
}

func (c *Client) runConnection(ctx context.Context, name, room string) error {
	connID := uuid.New().String()[:8]

	// Eligibility belongs to a live connection. Dropping the previous
	// handler here means a failed dial cannot re-trigger itself; the latch
	// re-arms only once the new connection authenticates.
	c.mu.Lock()
	c.handler = nil
	c.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.DialTimeout}
	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}

	handler := session.NewHandler(c, c.machine)

	c.mu.Lock()
	c.conn = conn
	c.handler = handler
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		conn.Close()
	}()

	log.Info().Str("conn", connID).Str("url", c.cfg.URL).Msg("connected")

	if err := c.Send(protocol.Login(name, room)); err != nil {
		return fmt.Errorf("send login: %w", err)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if c.isLoggedOut() {
				log.Info().Str("conn", connID).Msg("connection closed after logout")
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if err := handler.HandleMessage(raw); err != nil {
			return err
		}
	}
}

// Send marshals and writes one outbound envelope. Sends are serialized and
// bounded by the write deadline.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.conn.WriteJSON(v)
}

func (c *Client) reconnectEligible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler != nil && c.handler.ReconnectEligible() && !c.loggedOut
}

func (c *Client) isLoggedOut() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggedOut
}

// User actions. None of them await acknowledgment; the next authoritative
// state snapshot is the only confirmation.

func (c *Client) StartGame() error { return c.Send(protocol.StartGame()) }

func (c *Client) Answer(id int) error { return c.Send(protocol.Answer(id)) }

func (c *Client) ConfirmResults() error { return c.Send(protocol.ConfirmResults()) }

func (c *Client) CompleteResults() error { return c.Send(protocol.CompleteResults()) }

func (c *Client) CompleteFinal() error { return c.Send(protocol.CompleteFinal()) }

func (c *Client) EndGame() error { return c.Send(protocol.EndGame()) }

// Logout disables reconnection before sending the logout request and closing
// the connection, so the close is treated as deliberate.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.loggedOut = true
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	if err := c.Send(protocol.Logout()); err != nil {
		return err
	}
	return conn.Close()
}
