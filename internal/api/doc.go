// Package api defines the wire DTOs shared by the HTTP server and the CLI,
// plus the QueueService that maps them onto the queue store.
package api
