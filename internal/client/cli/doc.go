// Package cli provides the interactive Chatop command-line client.
//
// It wires configuration, the HTTP API client and session services into a
// REPL. Typical flow: register or log in, list rentals, message an owner.
//
// The cobra root command (NewRootCommand) starts the REPL; "ping" checks
// the server once and exits.
package cli
