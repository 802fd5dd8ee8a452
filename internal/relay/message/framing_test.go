package message

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtask/relay/internal/relay/registry"
)

func TestValidate(test *testing.T) {
	cases := []struct {
		framing Framing
		data    []byte
		valid   bool
	}{
		{FramingRaw, []byte("hello"), true},
		{FramingRaw, []byte{0, 0xff, 0xfe, 0}, true},
		{FramingRaw, []byte{}, false},
		{FramingUTF8, []byte("Hello, 世界!"), true},
		{FramingUTF8, []byte("⌘"), true},
		{FramingUTF8, []byte{'a', 0, 'b'}, true}, // NUL is valid text, no C-string framing
		{FramingUTF8, []byte{226, 140}, false},   // truncated "⌘"
		{FramingUTF8, []byte{0xff, 'a'}, false},
		{FramingUTF8, nil, false},
		{Framing(42), []byte("x"), false},
	}

	for _, c := range cases {
		err := Validate(c.framing, c.data)
		if c.valid {
			assert.NoError(test, err, "%v %q", c.framing, c.data)
		} else {
			assert.Error(test, err, "%v %q", c.framing, c.data)
		}
	}
	assert.ErrorIs(test, Validate(FramingUTF8, []byte("ok\xc3")), ErrMalformed)

	err := Validate(FramingUTF8, []byte("ok\xffok"))
	require.ErrorIs(test, err, ErrMalformed)
	assert.Contains(test, err.Error(), "after byte 2")
}

func TestParseFraming(test *testing.T) {
	for in, expected := range map[string]Framing{
		"":      FramingRaw,
		"raw":   FramingRaw,
		"UTF8":  FramingUTF8,
		"utf-8": FramingUTF8,
	} {
		f, err := ParseFraming(in)
		require.NoError(test, err, in)
		assert.Equal(test, expected, f, in)
	}
	_, err := ParseFraming("latin1")
	assert.Error(test, err)
	assert.Equal(test, "utf8", FramingUTF8.String())
	assert.Equal(test, "framing(7)", Framing(7).String())
}

func TestNew(test *testing.T) {
	buf := []byte("payload")
	id := registry.RandomIdentifier(nil)
	e := New(id, buf)
	copy(buf, "XXXXXXX")

	assert.Equal(test, id, e.Sender)
	assert.True(test, bytes.Equal([]byte("payload"), e.Payload), "envelope must own its payload")
	assert.Equal(test, 7, e.Len())
	assert.False(test, e.Received.IsZero())
}
