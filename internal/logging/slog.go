package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Attribute keys shared by every gworkspace log line.
const (
	KeyCommand  = "command"
	KeyService  = "service"
	KeyKind     = "kind"
	KeyDuration = "duration"
	KeyUser     = "user"
	KeyError    = "error"
)

// New builds the process logger writing to w, as JSON or as logfmt text.
func New(w io.Writer, level string, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level. It accepts the slog names
// with offsets ("INFO+2") and the aliases warning and critical. Anything
// else is info.
func ParseLevel(level string) slog.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	switch name {
	case "warning":
		return slog.LevelWarn
	case "critical", "fatal":
		return slog.LevelError
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Command names the extension command a line is about.
func Command(name string) slog.Attr { return slog.String(KeyCommand, name) }

// Service names the Google service (gmail, calendar, keep).
func Service(svc string) slog.Attr { return slog.String(KeyService, svc) }

// Kind is the failure classification of a command.
func Kind(kind string) slog.Attr { return slog.String(KeyKind, kind) }

// Duration records how long an operation took.
func Duration(d time.Duration) slog.Attr { return slog.Duration(KeyDuration, d) }

// User records a mailbox owner without exposing the address.
func User(email string) slog.Attr { return slog.String(KeyUser, AnonymizeEmail(email)) }

// Err records err under the error key. A nil error yields an empty group,
// which handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail hashes an address so log lines can be correlated without
// carrying it. Case and surrounding space do not change the hash.
func AnonymizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(sum[:8])
}

// SanitizeToken describes a credential by its length only.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
