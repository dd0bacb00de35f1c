package extension

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxResults is the page size used when a listing command gets none.
const DefaultMaxResults = 10

// Args are the loosely typed arguments of a command, as decoded from JSON.
type Args map[string]any

// String returns the required string argument name.
func (a Args) String(name string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgument, name, v)
	}
	return s, nil
}

// Required returns the required string arguments names, in order.
func (a Args) Required(names ...string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		s, err := a.String(name)
		if err != nil {
			return nil, err
		}
		values[i] = s
	}
	return values, nil
}

// OptionalString returns the string argument name, or "" when it is absent.
func (a Args) OptionalString(name string) (string, error) {
	if v, ok := a[name]; !ok || v == nil {
		return "", nil
	}
	return a.String(name)
}

// Int returns the integer argument name, or def when it is absent.
// Numbers encoded as strings are accepted.
func (a Args) Int(name string, def int) (int, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return def, nil
	}

	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidArgument, name, n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrInvalidArgument, name, err)
		}
		return int(i), nil
	case string:
		if strings.TrimSpace(n) == "" {
			return def, nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrInvalidArgument, name, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer, got %T", ErrInvalidArgument, name, v)
	}
}

// StringList returns the list argument name, or nil when it is absent.
// A single string is split on commas.
func (a Args) StringList(name string) ([]string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, nil
	}

	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		values := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] must be a string, got %T", ErrInvalidArgument, name, i, item)
			}
			values = append(values, s)
		}
		return values, nil
	case string:
		var values []string
		for _, s := range strings.Split(list, ",") {
			if s = strings.TrimSpace(s); s != "" {
				values = append(values, s)
			}
		}
		return values, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a list of strings, got %T", ErrInvalidArgument, name, v)
	}
}

// timeLayouts are tried in order by Time. Values without an offset are UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time returns the time argument name, or the zero time when it is absent.
func (a Args) Time(name string) (time.Time, error) {
	s, err := a.OptionalString(name)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	return ParseTime(s)
}

// ParseTime parses an RFC 3339 date-time, a date-time without offset, or a
// plain date. Values without an offset are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized time %q", ErrInvalidArgument, s)
}
