package source

import "context"

// CaptionTrack identifies one caption track by language code. Auto-generated
// tracks carry an "a." prefix ("a.en") to distinguish them from uploaded ones.
type CaptionTrack struct {
	Code string
}

// Auto reports whether the track is auto-generated.
func (t CaptionTrack) Auto() bool {
	return len(t.Code) > 2 && t.Code[:2] == "a."
}

// Language returns the bare language code without the auto prefix.
func (t CaptionTrack) Language() string {
	if t.Auto() {
		return t.Code[2:]
	}
	return t.Code
}

// Metadata is the result of resolving a URL.
type Metadata struct {
	Title         string
	CaptionTracks []CaptionTrack
	VideoFormat   string
	AudioFormat   string
}

// Resolver is the video-source collaborator. The pipeline treats it as an
// opaque capability; failures surface as *Error with a Kind the worker can
// report.
type Resolver interface {
	// Resolve fetches the title, available caption tracks, and stream format
	// handles for a URL without downloading anything.
	Resolve(ctx context.Context, url string) (*Metadata, error)
	// Download fetches the stream selected by format into destDir and returns
	// the local file path.
	Download(ctx context.Context, url, format, destDir string) (string, error)
	// SubtitleBlob fetches one caption track as a raw SRT-style blob.
	SubtitleBlob(ctx context.Context, url string, track CaptionTrack) (string, error)
}

// PreferredCaption picks the first track matching the ordered preference list.
func PreferredCaption(tracks []CaptionTrack, preferences []string) (CaptionTrack, bool) {
	for _, code := range preferences {
		for _, track := range tracks {
			if track.Code == code {
				return track, true
			}
		}
	}
	return CaptionTrack{}, false
}
