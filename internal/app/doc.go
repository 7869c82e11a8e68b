// Package app wires application dependencies for the CLI.
//
// It builds the HTTP relay client and the local keychain from Config,
// exposing them via the Wire struct for commands to use.
package app
