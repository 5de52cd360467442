// Package dashboard is a character-cell terminal dashboard for acprocessor's
// --interactive mode: a scrolling raw-frame log beside a live status panel,
// supplementing the same two-pane layout the original curses tool used.
package dashboard
