// Package resources provides MCP resources describing the Google extension.
// Resources are read-only data sources that MCP clients can fetch:
//
//   - gworkspace://commands: the advertised commands with their arguments
//   - gworkspace://settings: timezone, attachment directory and credential mode
//
// Neither resource calls a Google API.
package resources
