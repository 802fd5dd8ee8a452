package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion - returned by Parse for malformed version strings.
var ErrInvalidVersion = errors.New("semver: invalid version")

type (
	// V is structured semantic version representation
	V struct {
		Major, Minor, Patch uint
		PreRelease          string
		BuildMetadata       []string
	}
)

func (v V) String() string {
	buf := strings.Builder{}
	buf.WriteString(strconv.FormatUint(uint64(v.Major), 10))
	buf.WriteByte('.')
	buf.WriteString(strconv.FormatUint(uint64(v.Minor), 10))
	buf.WriteByte('.')
	buf.WriteString(strconv.FormatUint(uint64(v.Patch), 10))
	if v.PreRelease != "" {
		buf.WriteByte('-')
		buf.WriteString(v.PreRelease)
	}
	if len(v.BuildMetadata) > 0 {
		buf.WriteByte('+')
		buf.WriteString(strings.Join(v.BuildMetadata, "."))
	}

	return buf.String()
}

// Parse - builds V from string like "1.2.3-rc.1+linux.amd64". Leading "v" is allowed.
func Parse(s string) (V, error) {
	v := V{}
	rest := strings.TrimPrefix(strings.TrimSpace(s), "v")
	if rest == "" {
		return v, fmt.Errorf("%w: empty string", ErrInvalidVersion)
	}

	if i := strings.IndexByte(rest, '+'); i > -1 {
		meta := rest[i+1:]
		rest = rest[:i]
		if meta == "" {
			return V{}, fmt.Errorf("%w: empty build metadata in %q", ErrInvalidVersion, s)
		}
		v.BuildMetadata = strings.Split(meta, ".")
	}
	if i := strings.IndexByte(rest, '-'); i > -1 {
		v.PreRelease = rest[i+1:]
		rest = rest[:i]
		if v.PreRelease == "" {
			return V{}, fmt.Errorf("%w: empty pre-release in %q", ErrInvalidVersion, s)
		}
	}

	core := strings.Split(rest, ".")
	if len(core) != 3 {
		return V{}, fmt.Errorf("%w: %q must have major.minor.patch form", ErrInvalidVersion, s)
	}
	nums := [3]uint{}
	for i, part := range core {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return V{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
		}
		nums[i] = uint(n)
	}
	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}
