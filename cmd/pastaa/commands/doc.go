// Package commands defines the pastaa CLI and wires dependencies for subcommands.
//
// Commands
//
//   - send     Encrypt a paste locally and print its share URL
//   - view     Fetch a paste by URL and decrypt it locally
//   - delete   Remove a paste from the server
//   - chat     Join an encrypted channel and exchange messages
//   - profile  Save or show the local chat profile
//
// # Implementation
//
// The root command builds the dependency graph (relay client, keychain)
// before any subcommand runs, so handlers share one app context. All
// encryption and decryption happens in this process; the server only
// ever sees ciphertext.
package commands
