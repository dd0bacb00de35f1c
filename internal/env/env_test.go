package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name     string
		variable string
		set      bool
		value    string
		expected string
	}{
		{"unset uses default", "AGIXT_URI", false, "", "http://localhost:7437"},
		{"set overrides default", "AGIXT_URI", true, "http://agixt:7437", "http://agixt:7437"},
		{"set empty stays empty", "LOG_LEVEL", true, "", ""},
		{"unknown unset is empty", "GWORKSPACE_TEST_UNKNOWN", false, "", ""},
		{"unknown set", "GWORKSPACE_TEST_UNKNOWN", true, "value", "value"},
		{"numeric default", "UVICORN_WORKERS", false, "", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv(tt.variable, tt.value)
			} else {
				unsetenv(t, tt.variable)
			}
			assert.Equal(t, tt.expected, Getenv(tt.variable))
		})
	}
}

func TestGetenv_Workspace(t *testing.T) {
	unsetenv(t, "WORKSPACE")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "WORKSPACE"), Getenv("WORKSPACE"))

	value, ok := Default("WORKSPACE")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(cwd, "WORKSPACE"), value)
}

func TestDefault(t *testing.T) {
	t.Setenv("DATABASE_PORT", "6543")

	value, ok := Default("DATABASE_PORT")
	assert.True(t, ok)
	assert.Equal(t, "5432", value)

	_, ok = Default("NOT_A_KNOWN_VARIABLE")
	assert.False(t, ok)
}

func TestBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("USING_JWT", tt.value)
			assert.Equal(t, tt.expected, Bool("USING_JWT"))
		})
	}
}

func TestDefaultSettings_ReturnsCopy(t *testing.T) {
	settings := DefaultSettings()
	assert.Equal(t, "gpt4free", settings["provider"])
	assert.Equal(t, 3, settings["websearch_depth"])

	settings["provider"] = "changed"
	assert.Equal(t, "gpt4free", DefaultSettings()["provider"])
}

func TestDefaultUser(t *testing.T) {
	t.Setenv("DEFAULT_USER", "Jane@Example.COM")
	assert.Equal(t, "jane@example.com", DefaultUser())

	unsetenv(t, "DEFAULT_USER")
	assert.Equal(t, "user", DefaultUser())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("GWORKSPACE_DOTENV_A=from-file\nGWORKSPACE_DOTENV_B=from-file\n"), 0600))

	unsetenv(t, "GWORKSPACE_DOTENV_A")
	t.Setenv("GWORKSPACE_DOTENV_B", "from-env")
	t.Cleanup(func() { os.Unsetenv("GWORKSPACE_DOTENV_A") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("GWORKSPACE_DOTENV_A"))
	assert.Equal(t, "from-env", os.Getenv("GWORKSPACE_DOTENV_B"), "existing variables must not be overridden")
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestGetTokens(t *testing.T) {
	count, err := GetTokens("hello world")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = GetTokens("")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// unsetenv removes a variable for the duration of the test and restores it afterwards.
func unsetenv(t *testing.T, name string) {
	t.Helper()
	if old, ok := os.LookupEnv(name); ok {
		t.Cleanup(func() { os.Setenv(name, old) })
	}
	os.Unsetenv(name)
}
