package queue

import "errors"

// ErrClaimSuperseded indicates a terminal write lost its claim: the entry was
// requeued by the stale reaper (and possibly reclaimed) after this worker
// claimed it, so the write was discarded.
var ErrClaimSuperseded = errors.New("claim superseded")

// ErrUnknownTable indicates a table dump was requested for a table outside the
// enumerated set.
var ErrUnknownTable = errors.New("unknown table")
