// Package daemon ties the worker loop and the HTTP API together behind a
// lock file that enforces a single running instance per queue database.
package daemon
