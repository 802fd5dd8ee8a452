package relay

import "errors"

// ErrListenerClosed - returned by Server.Serve when the listener was closed outside of the server.
var ErrListenerClosed = errors.New("relay.Server: listener is closed")
