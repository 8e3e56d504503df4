package testsupport

// SampleSubtitleBlob is a small SRT-style blob with two well-formed cues and
// one malformed cue, used across parser and worker tests.
const SampleSubtitleBlob = "1\n00:00:01,000 --> 00:00:02,500\nI am happy\n\n2\nbad-timestamp\nskip me\n\n3\n00:00:03,000 --> 00:00:04,000\nI am sad\n"
