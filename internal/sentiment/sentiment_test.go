package sentiment

import "testing"

func TestLexiconScorer(t *testing.T) {
	scorer := NewLexiconScorer()

	cases := []struct {
		text      string
		wantLabel string
		wantScore float64
	}{
		{"I am happy", LabelPositive, 0.9},
		{"I LOVE this!", LabelPositive, 0.9},
		{"I am sad", LabelNegative, -0.8},
		{"I hate waiting", LabelNegative, -0.8},
		{"the meeting starts at noon", LabelNeutral, 0.1},
		{"", LabelNeutral, 0.1},
		{"happy but also sad", LabelNegative, -0.8},
	}
	for _, tc := range cases {
		got := scorer.Score(tc.text)
		if got.Label != tc.wantLabel || got.Score != tc.wantScore {
			t.Fatalf("Score(%q) = %+v, want {%s %v}", tc.text, got, tc.wantLabel, tc.wantScore)
		}
	}
}

func TestLexiconScorerStripsPunctuation(t *testing.T) {
	scorer := NewLexiconScorer()
	if got := scorer.Score("so happy."); got.Label != LabelPositive {
		t.Fatalf("expected punctuation-adjacent keyword to match, got %+v", got)
	}
}
