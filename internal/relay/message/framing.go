package message

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrMalformed - returned by Validate when payload does not match the framing.
var ErrMalformed = errors.New("message: malformed payload")

// Framing - declares what a single read is expected to contain.
type Framing int

const (
	// FramingRaw - any bytes, relayed verbatim.
	FramingRaw Framing = iota
	// FramingUTF8 - well-formed UTF-8 text, relayed verbatim.
	FramingUTF8
)

func (f Framing) String() string {
	switch f {
	case FramingRaw:
		return "raw"
	case FramingUTF8:
		return "utf8"
	default:
		return fmt.Sprintf("framing(%d)", int(f))
	}
}

// ParseFraming - converts framing name into Framing.
func ParseFraming(s string) (Framing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw", "binary":
		return FramingRaw, nil
	case "utf8", "utf-8", "text":
		return FramingUTF8, nil
	}
	return FramingRaw, fmt.Errorf("message: unknown framing %q", s)
}

// Validate - checks payload against framing. Empty payload is always malformed.
func Validate(f Framing, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty", ErrMalformed)
	}
	switch f {
	case FramingRaw:
		return nil
	case FramingUTF8:
		_, n, err := transform.Bytes(encoding.UTF8Validator, payload)
		if err != nil {
			return fmt.Errorf("%w: invalid utf-8 after byte %d", ErrMalformed, n)
		}
		return nil
	default:
		return fmt.Errorf("message: unsupported %v", f)
	}
}
