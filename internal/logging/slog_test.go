package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output: %q", buf.String())
	return entry
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug", true)

	logger.Debug("command failed",
		Command("Google - Send Email"),
		Service("gmail"),
		Kind("invalid_argument"),
		Duration(1500*time.Millisecond),
		Err(errors.New("missing to")))

	entry := decode(t, &buf)
	assert.Equal(t, "command failed", entry["msg"])
	assert.Equal(t, "Google - Send Email", entry[KeyCommand])
	assert.Equal(t, "gmail", entry[KeyService])
	assert.Equal(t, "invalid_argument", entry[KeyKind])
	assert.Equal(t, "missing to", entry[KeyError])
	assert.EqualValues(t, 1500*time.Millisecond, entry[KeyDuration])
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", false)

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":    slog.LevelDebug,
		"DEBUG":    slog.LevelDebug,
		" info ":   slog.LevelInfo,
		"warn":     slog.LevelWarn,
		"warning":  slog.LevelWarn,
		"error":    slog.LevelError,
		"critical": slog.LevelError,
		"info+2":   slog.LevelInfo + 2,
		"":         slog.LevelInfo,
		"bogus":    slog.LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), "ParseLevel(%q)", input)
	}
}

func TestErr_NilIsDropped(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", true).Info("done", Err(nil))

	_, ok := decode(t, &buf)[KeyError]
	assert.False(t, ok)
}

func TestUser_IsAnonymized(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", true).Info("seeded", User("Alice@Example.com"))

	entry := decode(t, &buf)
	assert.Equal(t, AnonymizeEmail("alice@example.com"), entry[KeyUser])
	assert.NotContains(t, buf.String(), "example.com")
}

func TestAnonymizeEmail(t *testing.T) {
	a := AnonymizeEmail("bob@example.com")
	assert.Regexp(t, `^user:[0-9a-f]{16}$`, a)
	assert.Equal(t, a, AnonymizeEmail("  BOB@example.com "))
	assert.NotEqual(t, a, AnonymizeEmail("carol@example.com"))
	assert.Empty(t, AnonymizeEmail(" "))
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "<empty>", SanitizeToken(""))
	assert.Equal(t, "[token:9 chars]", SanitizeToken("ya29.abcd"))
}
