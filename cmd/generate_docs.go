package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/teemow/gworkspace/internal/extension"
	"github.com/teemow/gworkspace/internal/logging"
	"github.com/teemow/gworkspace/internal/resources"
)

// serviceTitles orders the reference sections.
var serviceTitles = []struct {
	service string
	title   string
}{
	{extension.ServiceGmail, "Gmail Tools"},
	{extension.ServiceCalendar, "Google Calendar Tools"},
	{extension.ServiceKeep, "Google Keep Tools"},
}

type docsSection struct {
	Title    string
	Anchor   string
	Commands []resources.CommandInfo
}

var toolsReference = template.Must(template.New("tools").Parse(`# MCP Tools Reference

Every tool below is served by ` + "`gworkspace serve`" + `. Tool names are the command names in snake case.

**Note:** This document is generated by ` + "`gworkspace generate-docs`" + `.

## Table of Contents

{{range .}}- [{{.Title}}](#{{.Anchor}})
{{end}}
## Error Results

A failing tool still answers with the command's fallback value. The result is marked as an error and names the error kind: ` +
	"`auth`, `api`, `invalid_argument`, `filesystem` or `unknown`" + `.
{{range .}}
## {{.Title}}
{{range .Commands}}
### {{.Slug}}

Command: ` + "`{{.Name}}`" + `{{if .ReadOnly}} (read-only){{end}}

{{.Description}}
{{if .Params}}
**Arguments:**
{{range .Params}}- ` + "`{{.Name}}`" + ` ({{.Type}}, {{if .Required}}required{{else}}optional{{end}}): {{.Description}}
{{end}}{{end}}{{end}}{{end}}`))

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate the MCP tool reference",
		Long:  `Generate the markdown reference of every MCP tool served by gworkspace.
The reference is rendered from the command table, so it always matches the
tools the server registers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Placeholder credentials advertise every command; nothing is called.
			ext := extension.New(context.Background(), extension.Config{
				ClientID:     "docs",
				ClientSecret: "docs",
			}, extension.Options{ConversationDirectory: os.TempDir(), Logger: logging.Discard()})

			if outputFile == "" {
				return writeToolsReference(cmd.OutOrStdout(), resources.Catalog(ext))
			}

			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			if err := writeToolsReference(f, resources.Catalog(ext)); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// writeToolsReference renders catalog as markdown, one section per Google
// service. Services without commands are left out.
func writeToolsReference(w io.Writer, catalog []resources.CommandInfo) error {
	sections := make([]docsSection, 0, len(serviceTitles))
	for _, st := range serviceTitles {
		section := docsSection{
			Title:  st.title,
			Anchor: strings.ToLower(strings.ReplaceAll(st.title, " ", "-")),
		}
		for _, info := range catalog {
			if info.Service == st.service {
				section.Commands = append(section.Commands, info)
			}
		}
		if len(section.Commands) > 0 {
			sections = append(sections, section)
		}
	}

	if err := toolsReference.Execute(w, sections); err != nil {
		return fmt.Errorf("failed to render tools reference: %w", err)
	}
	return nil
}
