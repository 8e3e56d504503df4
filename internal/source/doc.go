// Package source resolves and downloads media for submitted URLs. The
// Resolver interface is the seam between the pipeline and yt-dlp; the worker
// only sees Metadata, local file paths, and raw subtitle blobs.
package source
