// Package keep provides a client for Google Keep notes.
package keep
