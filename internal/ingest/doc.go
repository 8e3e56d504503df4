// Package ingest turns raw subtitle blobs into scored, persisted caption
// segments for a video.
package ingest
