package rcfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/neubot/netx/rcfile"
)

func TestParseReader(t *testing.T) {
	input := strings.Join([]string{
		"# runtime configuration",
		"",
		"address 127.0.0.1",
		"port=8080",
		`greeting "hello world" # inline comment`,
		"prefer_ipv6=1",
	}, "\n")

	conf, err := rcfile.ParseReader(strings.NewReader(input), "<test>")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"address":     "127.0.0.1",
		"port":        "8080",
		"greeting":    "hello world",
		"prefer_ipv6": "1",
	}, conf)
}

func TestParseReaderInvalidLine(t *testing.T) {
	for _, input := range []string{
		"one two three",
		"lonely",
	} {
		_, err := rcfile.ParseReader(strings.NewReader(input), "cfg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cfg:1")
	}
}

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime.conf")
	require.NoError(t, os.WriteFile(path, []byte("address ::1\nport 9000\n"), 0o600))

	conf, err := rcfile.Parse(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"address": "::1", "port": "9000"}, conf)
}

func TestParseMissingFile(t *testing.T) {
	conf, err := rcfile.Parse(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	require.NoError(t, err)

	assert.Empty(t, conf)
}

func TestParseSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.conf")
	require.NoError(t, os.WriteFile(path, []byte("one two three\n"), 0o600))

	core, logs := observer.New(zap.WarnLevel)

	conf := rcfile.ParseSafe(path, zap.New(core))
	assert.Empty(t, conf)
	assert.Equal(t, 1, logs.FilterMessage("cannot parse configuration file").Len())
}
