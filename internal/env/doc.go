// Package env provides process-wide configuration defaults for gworkspace.
//
// Values are read from the environment first. When a variable is not set at all,
// a fixed default from the host agent framework's settings table is used instead.
// A variable that is set to the empty string stays empty.
//
// The package also loads .env files and counts model tokens for prompt budgeting.
package env
