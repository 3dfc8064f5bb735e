// Package cli provides the aura command-line interface.
//
// It wires configuration, the local SQLite store, the diary services and an
// interactive REPL. Typical flow: resume the saved session, start the
// background reminder watcher, then read commands until the user exits.
//
// Key features:
//   - Register / Login / Logout and the onboarding questionnaire
//   - Water quick-add and undo
//   - Meals from the reference food table or from an AI estimate
//   - Day details, notes, history and 7-day reports
//   - Settings and reminders
//   - Backup export to a directory and, optionally, S3
//   - Store check (doctor) and local data reset
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and NewRootCommand for details.
package cli
