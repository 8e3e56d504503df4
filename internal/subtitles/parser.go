package subtitles

import (
	"fmt"
	"strconv"
	"strings"
)

// Cue is one timed caption with start and end in fractional seconds.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Parse splits an SRT-style blob into cue blocks and returns the well-formed
// cues in input order plus a count of malformed blocks. A block missing its
// timestamp line, carrying unparseable numbers, or ending before it starts is
// skipped and counted; parsing always continues with the next block.
func Parse(blob string) ([]Cue, int) {
	content := strings.TrimSpace(strings.ReplaceAll(blob, "\r\n", "\n"))
	if content == "" {
		return nil, 0
	}

	var (
		cues    []Cue
		skipped int
	)
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		cue, err := parseBlock(block)
		if err != nil {
			skipped++
			continue
		}
		cues = append(cues, cue)
	}
	return cues, skipped
}

func parseBlock(block string) (Cue, error) {
	lines := strings.Split(block, "\n")
	timestampIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "-->") {
			timestampIdx = i
			break
		}
	}
	if timestampIdx == -1 {
		return Cue{}, fmt.Errorf("missing timestamp line")
	}

	parts := strings.Split(lines[timestampIdx], "-->")
	if len(parts) != 2 {
		return Cue{}, fmt.Errorf("invalid timestamp line %q", lines[timestampIdx])
	}
	start, err := parseTimestamp(parts[0])
	if err != nil {
		return Cue{}, err
	}
	end, err := parseTimestamp(parts[1])
	if err != nil {
		return Cue{}, err
	}
	if end < start {
		return Cue{}, fmt.Errorf("cue ends before it starts (%.3f > %.3f)", start, end)
	}

	var textParts []string
	for _, line := range lines[timestampIdx+1:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			textParts = append(textParts, trimmed)
		}
	}
	text := strings.Join(textParts, " ")
	if text == "" {
		return Cue{}, fmt.Errorf("cue has no text")
	}

	return Cue{Start: start, End: end, Text: text}, nil
}

// parseTimestamp converts "H:MM:SS,mmm" into fractional seconds. SRT uses a
// comma before the milliseconds; auto-generated tracks often use a period, so
// both are accepted.
func parseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, fmt.Errorf("negative timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
