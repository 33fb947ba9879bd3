// Package cli provides the Anniv command-line client.
//
// A single command (register, check, login, logout, info) runs once and
// exits; with no command an interactive prompt is started, which keeps the
// session cookie between commands so that login and logout can be tried in
// one sitting.
package cli
