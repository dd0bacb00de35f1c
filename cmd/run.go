package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/gworkspace/internal/extension"
)

// runOutput is the JSON document printed by the run command.
type runOutput struct {
	Command string `json:"command"`
	Value   any    `json:"value"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

func newRunCmd() *cobra.Command {
	var rawArgs string

	cmd := &cobra.Command{
		Use:   `run "<command name>"`,
		Short: "Run one command",
		Long: `Run one advertised command through the registry and print the result as JSON.

The command is named by its advertised name or its tool name:

  gworkspace run "Google - Get Emails" --args '{"max_emails": 5}'
  gworkspace run google_get_keep_notes

A failed command still prints its fallback value together with the error and
its kind (auth, api, invalid_argument, filesystem, unknown), and exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var cmdArgs extension.Args
			if strings.TrimSpace(rawArgs) != "" {
				dec := json.NewDecoder(strings.NewReader(rawArgs))
				dec.UseNumber()
				if err := dec.Decode(&cmdArgs); err != nil {
					return fmt.Errorf("invalid --args: %w", err)
				}
			}

			ext, cleanup, err := newExtension(ctx, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			name := resolveCommandName(ext, args[0])
			res := ext.Execute(ctx, name, cmdArgs)

			out := runOutput{Command: name, Value: res.Value}
			if !res.OK() {
				out.Error = res.Err.Error()
				out.Kind = string(res.Kind)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
			if !res.OK() {
				return fmt.Errorf("%s failed: %w", name, res.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rawArgs, "args", "", "Command arguments as a JSON object")

	return cmd
}

// resolveCommandName maps a tool name to its advertised command name.
// Anything else is returned unchanged.
func resolveCommandName(ext *extension.Extension, name string) string {
	for _, advertised := range ext.Commands() {
		if c, ok := ext.Command(advertised); ok && c.Slug() == name {
			return advertised
		}
	}
	return name
}
