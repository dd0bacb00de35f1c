// Package google_tools exposes the commands of the Google extension as MCP
// tools.
//
// Every advertised command becomes one tool named by the command's slug
// (e.g. "Google - Send Email" is served as google_send_email) with an
// argument schema built from the command's parameters. Calls run through
// the extension registry, so a failing command still answers with its
// fallback value, marked as an error result carrying the error kind.
//
// In read-only mode only commands that leave the Google account unchanged
// (listing, searching and downloading) are registered.
package google_tools
