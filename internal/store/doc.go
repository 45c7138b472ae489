// Package store persists serialized plan fragments in SQLite.
//
// Fragments are content addressed: the key is the fingerprint of the
// fragment's canonical encoding, so writes are idempotent and a stored
// body can be verified against its key on every read. Rows carry a plan
// identifier and a logical sequence position, never wall-clock timestamps.
package store
