package registry

import "errors"

var (
	// ErrClientExists - returned by Insert when the id is registered already.
	ErrClientExists = errors.New("registry: client is registered already")

	// ErrInvalidClient - returned by Insert for nil client, nil connection or ZeroID.
	ErrInvalidClient = errors.New("registry: invalid client")

	// ErrClientClosed - returned by Client.Write after Close.
	ErrClientClosed = errors.New("registry: client is closed")
)
