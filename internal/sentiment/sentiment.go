package sentiment

import "strings"

// Labels assigned by a Scorer.
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
)

// Result is a sentiment classification of one piece of text.
type Result struct {
	Label string
	Score float64
}

// Scorer classifies text. Implementations must be pure and total: any input
// string, including the empty string, yields a Result and never an error.
type Scorer interface {
	Score(text string) Result
}

// LexiconScorer is a keyword-lookup scorer. It stands in for a real model
// behind the same interface and keeps the pipeline free of network calls.
type LexiconScorer struct{}

// NewLexiconScorer returns the default keyword scorer.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

var (
	positiveWords = map[string]struct{}{
		"happy": {},
		"love":  {},
		"great": {},
		"good":  {},
	}
	negativeWords = map[string]struct{}{
		"sad":      {},
		"hate":     {},
		"terrible": {},
		"bad":      {},
	}
)

// Score classifies text by keyword lookup. Negative keywords win over
// positive ones when both occur; text matching neither is neutral with low
// confidence, as is empty input.
func (s *LexiconScorer) Score(text string) Result {
	var positive, negative bool
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"")
		if _, ok := positiveWords[word]; ok {
			positive = true
		}
		if _, ok := negativeWords[word]; ok {
			negative = true
		}
	}
	switch {
	case negative:
		return Result{Label: LabelNegative, Score: -0.8}
	case positive:
		return Result{Label: LabelPositive, Score: 0.9}
	default:
		return Result{Label: LabelNeutral, Score: 0.1}
	}
}
