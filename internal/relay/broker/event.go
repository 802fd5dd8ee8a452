package broker

// PartAction - describes the reason of parting with client (connection).
type PartAction int

const (
	_ PartAction = iota
	// PartActionLeft - the connection was closed by the client (EOF or zero-byte read).
	PartActionLeft
	// PartActionTimeout - the read deadline expired.
	PartActionTimeout
	// PartActionMalformed - the client sent payload which does not match the framing.
	PartActionMalformed
	// PartActionFailed - any other read error.
	PartActionFailed
	// PartActionShutdown - the broker is stopping.
	PartActionShutdown
	// PartActionOrphaned - the broadcaster has gone and messages can not be queued anymore.
	PartActionOrphaned
)

func (a PartAction) String() string {
	switch a {
	case PartActionLeft:
		return "left"
	case PartActionTimeout:
		return "timed out"
	case PartActionMalformed:
		return "malformed payload"
	case PartActionFailed:
		return "read failed"
	case PartActionShutdown:
		return "shutdown"
	case PartActionOrphaned:
		return "orphaned"
	default:
		return "unknown part action"
	}
}

// Stats - broker counters.
type Stats struct {
	// Clients - number of registered clients.
	Clients int
	// Queued - number of envelopes waiting for the broadcaster.
	Queued int
	// Broadcasts - number of envelopes taken from the queue and fanned out.
	Broadcasts uint64
	// Deliveries - number of successful writes to recipients.
	Deliveries uint64
	// Failures - number of failed writes to recipients.
	Failures uint64
}
