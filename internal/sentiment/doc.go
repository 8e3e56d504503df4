// Package sentiment classifies caption text as positive, negative, or
// neutral. The Scorer interface keeps the classifier pluggable; the shipped
// implementation is a deterministic keyword lexicon.
package sentiment
