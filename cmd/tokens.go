package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/gworkspace/internal/env"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [text]",
		Short: "Count the tokens of a text",
		Long: `Print the number of cl100k_base tokens of the arguments, joined by spaces,
or of standard input when no argument is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(b)
			}

			n, err := env.GetTokens(text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
