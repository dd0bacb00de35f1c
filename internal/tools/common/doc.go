// Package common provides shared utilities for MCP tool implementations:
// the instrumentation wrapper every tool handler runs in and the conversion
// of extension results to MCP tool results.
package common
