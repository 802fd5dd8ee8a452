package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(test *testing.T) {
	for _, format := range []string{"", "text", "json", "JSON"} {
		l, err := New(Options{Level: "info", Format: format, Output: &bytes.Buffer{}})
		require.NoError(test, err, format)
		require.NotNil(test, l, format)
	}

	_, err := New(Options{Level: "verbose"})
	assert.ErrorIs(test, err, ErrInvalidOptions)
	_, err = New(Options{Format: "xml"})
	assert.ErrorIs(test, err, ErrInvalidOptions)
}

func TestNew_Level(test *testing.T) {
	out := &bytes.Buffer{}
	l, err := New(Options{Level: "warn", Format: "text", Output: out})
	require.NoError(test, err)

	l.Info("hidden")
	assert.Empty(test, out.String())
	l.Warn("shown")
	assert.Contains(test, out.String(), "shown")
}

func TestAttrs(test *testing.T) {
	out := &bytes.Buffer{}
	l, err := New(Options{Level: "debug", Format: "json", Output: out})
	require.NoError(test, err)

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	addr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 5000}
	l.Debug("test",
		Component("relay"),
		Client(id),
		Remote(addr),
		Size(42),
		Payload([]byte("Got: text")),
		Error(errors.New("boom")),
		Error(nil),
	)

	record := map[string]any{}
	require.NoError(test, json.Unmarshal(out.Bytes(), &record))
	assert.Equal(test, "relay", record["component"])
	assert.Equal(test, id.String(), record["client"])
	assert.Equal(test, "tcp 127.0.0.1:5000", record["remote"])
	assert.EqualValues(test, 42, record["size"])
	assert.Equal(test, "Got: text", record["payload"])
	assert.Equal(test, "boom", record["error"])
}

func TestPayload(test *testing.T) {
	long := bytes.Repeat([]byte("x"), MaxPayload+10)
	a := Payload(long)
	assert.Equal(test, "payload", a.Key)
	assert.Equal(test, string(long[:MaxPayload])+"...", a.Value.String())

	exact := bytes.Repeat([]byte("y"), MaxPayload)
	assert.Equal(test, string(exact), Payload(exact).Value.String())
}

func TestOrDiscard(test *testing.T) {
	assert.NotNil(test, OrDiscard(nil))
	l := slog.Default()
	assert.Same(test, l, OrDiscard(l))
	assert.Equal(test, slog.Attr{}, Error(nil))
	assert.Equal(test, slog.Attr{}, Remote(nil))
}
