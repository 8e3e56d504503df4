package source

import (
	"errors"
	"fmt"
)

// Kind classifies a source failure by the operation that produced it.
type Kind string

const (
	KindResolve  Kind = "resolve"
	KindDownload Kind = "download"
	KindCaptions Kind = "captions"
)

// Error wraps a source-collaborator failure with the operation kind and URL.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) (Kind, bool) {
	var srcErr *Error
	if errors.As(err, &srcErr) {
		return srcErr.Kind, true
	}
	return "", false
}

func wrapError(kind Kind, url string, err error) error {
	return &Error{Kind: kind, URL: url, Err: err}
}
