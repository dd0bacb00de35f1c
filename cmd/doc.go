// Package cmd implements the command-line interface for gworkspace.
//
// This package provides the following commands:
//   - serve: Start the MCP server advertising every Google command as a tool
//   - commands: List the advertised commands
//   - run: Run one command and print its result as JSON
//   - tokens: Count the cl100k_base tokens of a text
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// Every command loads .env files first; flags take precedence over the
// environment.
package cmd
