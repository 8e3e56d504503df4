// Package queue persists the ingestion pipeline's state in SQLite and
// exposes helpers for driving the job lifecycle.
//
// The Store manages database connections, schema initialization, the
// enqueue/claim/terminal-status protocol, stale-entry recovery, video and
// caption persistence, cascading deletion, and the enumerated raw table
// readers used for operator inspection. Claims are a single conditional
// UPDATE stamping a per-attempt token; terminal writes are fenced on that
// token so a reaped straggler can never overwrite a newer attempt.
//
// Treat this package as the single source of truth for queue semantics; when
// you add new statuses or tables, update schema.sql and bump schemaVersion.
package queue
