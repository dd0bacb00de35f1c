package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/gworkspace/internal/env"
	"github.com/teemow/gworkspace/internal/extension"
	"github.com/teemow/gworkspace/internal/logging"
)

// rootCmd represents the base command for the gworkspace application
var rootCmd = &cobra.Command{
	Use:   "gworkspace",
	Short: "Gmail, Google Calendar and Google Keep commands for AI agents",
	Long: `gworkspace exposes a fixed set of Google Workspace commands (Gmail,
Google Calendar and Google Keep) to AI agents.

It can run as:
  - An MCP (Model Context Protocol) server advertising every command as a tool
  - A CLI running single commands through the same registry`,
	SilenceUsage:      true,
	PersistentPreRunE: setupGlobals,
}

// version will be set by main
var version = "dev"

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	logLevel        string
	logJSON         bool
	envFiles        []string
	apiKey          string
	accessToken     string
	conversationDir string
}

var globals globalFlags

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gworkspace version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globals.logLevel, "log-level", "", "Log level: debug, info, warn, error (env: LOG_LEVEL)")
	flags.BoolVar(&globals.logJSON, "log-json", false, "Write logs as JSON")
	flags.StringSliceVar(&globals.envFiles, "env-file", []string{".env"}, "Files to load environment variables from")
	flags.StringVar(&globals.apiKey, "api-key", "", "Agent platform API key (env: AGIXT_API_KEY)")
	flags.StringVar(&globals.accessToken, "access-token", "", "Initial Google access token (env: GOOGLE_ACCESS_TOKEN)")
	flags.StringVar(&globals.conversationDir, "conversation-dir", "", "Directory attachments are saved to (default: "+extension.DefaultAttachmentsDir+")")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// setupGlobals loads .env files and installs the process logger. Flags win
// over the environment.
func setupGlobals(cmd *cobra.Command, _ []string) error {
	if err := env.LoadDotEnv(globals.envFiles...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	if !cmd.Flags().Changed("log-level") {
		globals.logLevel = env.Getenv("LOG_LEVEL")
	}
	if !cmd.Flags().Changed("api-key") {
		globals.apiKey = env.Getenv("AGIXT_API_KEY")
	}
	if !cmd.Flags().Changed("access-token") {
		globals.accessToken = env.Getenv("GOOGLE_ACCESS_TOKEN")
	}

	slog.SetDefault(logging.New(cmd.ErrOrStderr(), globals.logLevel, globals.logJSON))
	return nil
}
