package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutputLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)

	Debug("hidden")
	Info("shown")
	Warn("careful")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"level":"warn"`)
	// caller 指向调用方而不是这个包装函数
	assert.Contains(t, out, "logger_test.go")
}

func TestSetupWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Setup(&Settings{
		Path:       dir,
		Name:       "my-redis",
		Ext:        ".log",
		TimeFormat: "2006-01-02",
		Level:      "debug",
		NoColor:    true,
	}))
	t.Cleanup(func() { SetOutput(os.Stdout, zerolog.InfoLevel) })

	Debug("to file")

	matches, err := filepath.Glob(filepath.Join(dir, "my-redis-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), `"message":"to file"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warning "))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}
