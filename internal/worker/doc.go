// Package worker runs the single polling loop that drains the ingestion
// queue. Each cycle reaps stale claims, claims the oldest queued entry, and
// processes it end to end; a job failure is recorded on the entry and never
// terminates the loop.
package worker
