package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestV_String(test *testing.T) {
	cases := []struct {
		v        V
		expected string
	}{
		{V{}, "0.0.0"},
		{V{Major: 1}, "1.0.0"},
		{V{Major: 1, Minor: 2}, "1.2.0"},
		{V{Major: 1, Minor: 2, Patch: 3}, "1.2.3"},
		{V{PreRelease: "alfa"}, "0.0.0-alfa"},
		{V{BuildMetadata: []string{"tag1", "tag2"}}, "0.0.0+tag1.tag2"},
		{V{Major: 1, Minor: 2, Patch: 3, PreRelease: "beta", BuildMetadata: []string{"x64"}}, "1.2.3-beta+x64"},
	}

	for _, c := range cases {
		test.Logf("%#v", c.v)
		assert.Equal(test, c.expected, c.v.String())
	}
}

func TestParse(test *testing.T) {
	cases := []struct {
		in       string
		expected V
	}{
		{"0.0.0", V{}},
		{"v1.2.3", V{Major: 1, Minor: 2, Patch: 3}},
		{"0.1.0-dev", V{Minor: 1, PreRelease: "dev"}},
		{"1.2.3-rc.1+linux.amd64", V{Major: 1, Minor: 2, Patch: 3, PreRelease: "rc.1", BuildMetadata: []string{"linux", "amd64"}}},
	}
	for _, c := range cases {
		v, err := Parse(c.in)
		require.NoError(test, err, c.in)
		assert.Equal(test, c.expected, v, c.in)
	}

	for _, bad := range []string{"", "v", "1.2", "1.2.3.4", "a.b.c", "1.2.3-", "1.2.3+", "-1.2.3"} {
		_, err := Parse(bad)
		assert.ErrorIs(test, err, ErrInvalidVersion, bad)
	}
}
