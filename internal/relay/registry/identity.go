package registry

import (
	"net"

	"github.com/google/uuid"
)

// ClientID - stable identifier of one registered connection.
type ClientID uuid.UUID

// ZeroID - is never assigned to a client. Used as "nobody" sender.
var ZeroID ClientID

func (id ClientID) String() string {
	return uuid.UUID(id).String()
}

// IsZero - reports whether id is ZeroID.
func (id ClientID) IsZero() bool {
	return id == ZeroID
}

// Identifier - assigns ClientID to accepted connection. ZeroID means the connection can not be identified.
type Identifier func(net.Conn) ClientID

// RandomIdentifier - assigns random (v4) UUID, ignoring connection.
func RandomIdentifier(net.Conn) ClientID {
	return ClientID(uuid.New())
}

// EndpointIdentifier - derives name-based (v5) UUID from the remote endpoint captured at accept time.
// Two live TCP connections never share remote endpoint, in-memory pipes do.
func EndpointIdentifier(c net.Conn) ClientID {
	if c == nil || c.RemoteAddr() == nil {
		return ZeroID
	}
	a := c.RemoteAddr()
	return ClientID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(a.Network()+"://"+a.String())))
}
