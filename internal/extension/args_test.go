package extension

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs_String(t *testing.T) {
	args := Args{"to": "a@example.com", "count": 3, "empty": nil}

	got, err := args.String("to")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got)

	_, err = args.String("missing")
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = args.String("empty")
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = args.String("count")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestArgs_Required(t *testing.T) {
	args := Args{"a": "1", "b": "2"}

	got, err := args.Required("b", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, got)

	_, err = args.Required("a", "c")
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestArgs_OptionalString(t *testing.T) {
	got, err := Args{}.OptionalString("query")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Args{"query": true}.OptionalString("query")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestArgs_Int(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{name: "absent", value: nil, want: 10},
		{name: "int", value: 3, want: 3},
		{name: "int64", value: int64(4), want: 4},
		{name: "json float", value: float64(5), want: 5},
		{name: "json number", value: json.Number("6"), want: 6},
		{name: "numeric string", value: " 7 ", want: 7},
		{name: "empty string", value: "", want: 10},
		{name: "fraction", value: 2.5, wantErr: true},
		{name: "word", value: "many", wantErr: true},
		{name: "bool", value: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := Args{}
			if tt.value != nil {
				args["n"] = tt.value
			}

			got, err := args.Int("n", 10)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgs_StringList(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    []string
		wantErr bool
	}{
		{name: "absent", value: nil, want: nil},
		{name: "string slice", value: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "json array", value: []any{"a", "b"}, want: []string{"a", "b"}},
		{name: "comma separated", value: "a@example.com, b@example.com,,", want: []string{"a@example.com", "b@example.com"}},
		{name: "mixed array", value: []any{"a", 1}, wantErr: true},
		{name: "number", value: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := Args{}
			if tt.value != nil {
				args["list"] = tt.value
			}

			got, err := args.StringList("list")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "2026-10-19T09:30:00+02:00", want: time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC)},
		{input: "2026-10-19T09:30:00Z", want: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)},
		{input: "2026-10-19T09:30:00", want: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)},
		{input: "2026-10-19 09:30:00", want: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)},
		{input: "2026-10-19", want: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
		{input: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestArgs_Time(t *testing.T) {
	got, err := Args{}.Time("start_date")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = Args{"start_date": ""}.Time("start_date")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
