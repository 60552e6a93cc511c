package llm

import (
	"regexp"
	"strings"

	"github.com/ppiankov/claimflow/internal/model"
)

// FallbackExtractor is the deterministic rule-based extractor used for
// offline runs and whenever the provider's structured output cannot be
// used.
type FallbackExtractor struct{}

var (
	fallbackDatePattern  = regexp.MustCompile(`(20\d{2}-\d{2}-\d{2})`)
	fallbackTimePattern  = regexp.MustCompile(`(\d{1,2}:\d{2})`)
	fallbackPlatePattern = regexp.MustCompile(`([A-Z]{2}\s?\d{3,6})`)
)

// Extract pulls claim fields out of raw document text with regex
// heuristics. Fields it cannot find are omitted from the result.
func (FallbackExtractor) Extract(text string) map[string]string {
	fields := make(map[string]string)

	if m := fallbackDatePattern.FindString(text); m != "" {
		fields[model.FieldDate] = m
	}
	if m := fallbackTimePattern.FindString(text); m != "" {
		fields[model.FieldTime] = m
	}
	if loc := guessLocation(text); loc != "" {
		fields[model.FieldLocation] = loc
	}
	if m := fallbackPlatePattern.FindString(text); m != "" {
		fields[model.FieldOtherVehiclePlate] = m
	}
	if strings.Contains(strings.ToLower(text), "injur") {
		fields[model.FieldInjuries] = "minor"
	}
	if desc := descriptionHead(text); desc != "" {
		fields[model.FieldDescription] = desc
	}

	return fields
}

// guessLocation scans for a "location:"-style line and returns the value
// after the colon.
func guessLocation(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), "location") {
			if _, after, found := strings.Cut(line, ":"); found {
				return strings.TrimSpace(after)
			}
			return strings.TrimSpace(line)
		}
	}
	return ""
}

// descriptionHead returns the leading slice of the text as a stand-in
// description.
func descriptionHead(text string) string {
	return truncateRunes(strings.TrimSpace(text), 200)
}
