package broker

import "errors"

var (
	// ErrUnderStopCondition - returns in case if Broker is under stop condition
	// and will not accept any new connections, so you should close such connection by your own.
	ErrUnderStopCondition = errors.New("broker.Broker: under stop condition")

	// ErrAlreadyRunning - returned by Run when the broadcaster loop was started before.
	ErrAlreadyRunning = errors.New("broker.Broker: broadcaster is already running")

	// ErrQueueClosed - returned when a message is pushed after the broadcaster has gone.
	ErrQueueClosed = errors.New("broker.Broker: ingestion queue is closed")

	// ErrNilConn - returned by KeepConnection for nil connection.
	ErrNilConn = errors.New("broker.Broker: connection is nil")

	// ErrUnidentified - returned by KeepConnection if the identifier can not name the connection.
	ErrUnidentified = errors.New("broker.Broker: unable to identify connection")
)
