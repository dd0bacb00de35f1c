package env

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// defaultValues are returned by Getenv for variables that are not set.
var defaultValues = map[string]string{
	"AGIXT_URI":           "http://localhost:7437",
	"AGIXT_API_KEY":       "",
	"ALLOWED_DOMAINS":     "*",
	"ALLOWLIST":           "*",
	"APP_NAME":            "AGiXT",
	"EMAIL_SERVER":        "",
	"LOG_LEVEL":           "INFO",
	"LOG_FORMAT":          "%(asctime)s | %(levelname)s | %(message)s",
	"UVICORN_WORKERS":     "10",
	"DATABASE_NAME":       "postgres",
	"DATABASE_USER":       "postgres",
	"DATABASE_PASSWORD":   "postgres",
	"DATABASE_HOST":       "localhost",
	"DATABASE_PORT":       "5432",
	"DEFAULT_USER":        "user",
	"USING_JWT":           "false",
	"CHROMA_PORT":         "8000",
	"CHROMA_SSL":          "false",
	"DISABLED_EXTENSIONS": "",
	"DISABLED_PROVIDERS":  "",
	"AUTH_PROVIDER":       "",
}

// defaultSettings are the agent settings used when an agent has none configured.
var defaultSettings = map[string]any{
	"provider":                     "gpt4free",
	"mode":                         "prompt",
	"prompt_category":              "Default",
	"prompt_name":                  "Chat",
	"embeddings_provider":          "default",
	"tts_provider":                 "None",
	"transcription_provider":       "default",
	"translation_provider":         "default",
	"image_provider":               "None",
	"vision_provider":              "None",
	"AI_MODEL":                     "mixtral-8x7b",
	"AI_TEMPERATURE":               "0.7",
	"AI_TOP_P":                     "1",
	"MAX_TOKENS":                   "4096",
	"helper_agent_name":            "gpt4free",
	"websearch":                    false,
	"websearch_depth":              3,
	"WEBSEARCH_TIMEOUT":            0,
	"WAIT_BETWEEN_REQUESTS":        1,
	"WAIT_AFTER_FAILURE":           3,
	"WORKING_DIRECTORY":            "./WORKSPACE",
	"WORKING_DIRECTORY_RESTRICTED": true,
	"persona":                      "",
}

// Getenv returns the value of the environment variable name.
// If the variable is not present in the environment, the built-in default is
// returned, or "" when there is none.
func Getenv(name string) string {
	if value, ok := os.LookupEnv(name); ok {
		return value
	}
	if name == "WORKSPACE" {
		return workspaceDir()
	}
	return defaultValues[name]
}

// Default returns the built-in default for name without consulting the environment.
func Default(name string) (string, bool) {
	if name == "WORKSPACE" {
		return workspaceDir(), true
	}
	value, ok := defaultValues[name]
	return value, ok
}

// Bool reports whether the variable holds a truthy value ("true", "1", "yes", "on").
func Bool(name string) bool {
	value := strings.TrimSpace(strings.ToLower(Getenv(name)))
	if value == "yes" || value == "on" {
		return true
	}
	parsed, err := strconv.ParseBool(value)
	return err == nil && parsed
}

// DefaultSettings returns a copy of the default agent settings.
func DefaultSettings() map[string]any {
	return maps.Clone(defaultSettings)
}

// DefaultUser returns the lower-cased default user name.
func DefaultUser() string {
	return strings.ToLower(Getenv("DEFAULT_USER"))
}

// LoadDotEnv loads variables from the given .env files, or from ./.env when none
// are given. Variables already present in the environment are not overridden.
// Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

func workspaceDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "WORKSPACE"
	}
	return filepath.Join(cwd, "WORKSPACE")
}
