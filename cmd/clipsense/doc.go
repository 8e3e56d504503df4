// Command clipsense is the operator CLI for the caption sentiment pipeline:
// submitting URLs, inspecting the queue, showing scored transcripts, and
// deleting videos with their derived data.
package main
