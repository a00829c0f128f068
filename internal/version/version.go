// Package version contains information on the current version of the
// program. It is split from the main program for easy use by both cmd/
// binaries without either needing to import the other.
package version

// Current is the string representing the current version of recurtrace.
const Current = "0.1.0"

// ServerCurrent is the string representing the current version of the
// recurtrace execution server.
const ServerCurrent = "0.1.0"
