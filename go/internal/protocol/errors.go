package protocol

import "errors"

// ErrProtocol marks a malformed or undecodable inbound message. The session
// has no way to recover state trust after one, so callers treat it as fatal
// to the current connection.
var ErrProtocol = errors.New("malformed protocol message")

// AuthError is a rejected login. The reason is user-visible; the connection
// is closed without becoming reconnect-eligible.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "login rejected: " + e.Reason
}
