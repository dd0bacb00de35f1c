package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCommandsCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the advertised commands",
		Long: `Print the names of the commands the extension advertises, one per line.
Nothing is printed while GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET is unset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ext, cleanup, err := newExtension(ctx, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			for _, name := range ext.Commands() {
				if !verbose {
					fmt.Fprintln(out, name)
					continue
				}
				c, _ := ext.Command(name)
				fmt.Fprintf(out, "%s\t%s\t%s\n", name, c.Slug(), c.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the tool name and description")

	return cmd
}
