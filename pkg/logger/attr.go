package logger

import (
	"fmt"
	"log/slog"
	"net"
)

// Attribute helpers return empty Attr for nil values, so callers do not check.

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component names the subsystem which emits the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Client identifies relay client, value must implement fmt.Stringer.
func Client(id fmt.Stringer) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.String("client", id.String())
}

// Remote formats network address as "network address".
func Remote(addr net.Addr) slog.Attr {
	if addr == nil {
		return slog.Attr{}
	}
	return slog.String("remote", addr.Network()+" "+addr.String())
}

// Size reports payload size in bytes.
func Size(n int) slog.Attr {
	return slog.Int("size", n)
}

// MaxPayload - payload bytes shown by Payload attribute.
const MaxPayload = 64

// Payload shows message content, cut to MaxPayload bytes.
func Payload(p []byte) slog.Attr {
	if len(p) > MaxPayload {
		return slog.String("payload", string(p[:MaxPayload])+"...")
	}
	return slog.String("payload", string(p))
}
