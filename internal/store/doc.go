// Package store persists AB-bus packets and status snapshots to a local
// SQLite database, for optional packet/status logging enabled by the
// acprocessor CLI's --packetlog and --statuslog flags.
//
// Store is a passive consumer of session callbacks; it never calls back into
// the session and is not required for the processor to run.
package store
