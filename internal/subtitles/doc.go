// Package subtitles parses raw SRT-style caption blobs into timed cues.
//
// Parsing is deliberately forgiving: malformed cue blocks are skipped and
// counted rather than aborting the transcript, since auto-generated caption
// tracks routinely contain garbage blocks between usable ones.
package subtitles
