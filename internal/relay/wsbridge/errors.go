package wsbridge

import "errors"

// ErrMessageTooLarge - returned by connection Read when a message exceeds the limit.
var ErrMessageTooLarge = errors.New("wsbridge: message is too large")
