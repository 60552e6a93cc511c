// Package reconcile normalizes clarification answers against
// document-extracted values.
package reconcile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/claimflow/internal/model"
)

// deferralPhrases mean "use the document's value" when they appear in a
// clarification answer.
var deferralPhrases = []string{
	"report", "document", "doc", "the report", "report one", "from report",
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`),
	regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`),
}

var (
	timeLikePattern = regexp.MustCompile(`^\d{1,2}:\d{2}`)
	timePattern     = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?$`)
)

// ValidAnswerFormat reports whether an answer matches the structural
// format expected for the field. Non-structural fields accept any
// non-empty answer.
func ValidAnswerFormat(answer, field string) bool {
	answer = strings.TrimSpace(answer)

	switch field {
	case model.FieldDate:
		// A time-like answer is never a valid date.
		if timeLikePattern.MatchString(answer) {
			return false
		}
		for _, p := range datePatterns {
			if p.MatchString(answer) {
				return true
			}
		}
		return false
	case model.FieldTime:
		return timePattern.MatchString(answer)
	}
	return answer != ""
}

// DefersToDocument reports whether the answer is a natural-language
// deferral to the document rather than a value.
func DefersToDocument(answer string) bool {
	lowered := strings.ToLower(strings.TrimSpace(answer))
	for _, phrase := range deferralPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// NormalizeClarification resolves a clarification answer to the value that
// should be stored:
//
//  1. Empty answer: use the document value if present, else keep the
//     empty answer.
//  2. Answer deferring to the document ("the report", "document", ...):
//     use the document value verbatim.
//  3. Date/time answers failing format validation: fall back to the
//     document value and tell the caller why via notify.
//  4. Otherwise the answer is used as-is.
func NormalizeClarification(answer, docValue, field string, notify func(string)) string {
	if answer == "" {
		if docValue != "" {
			return docValue
		}
		return answer
	}

	if DefersToDocument(answer) {
		return docValue
	}

	if (field == model.FieldDate || field == model.FieldTime) && !ValidAnswerFormat(answer, field) {
		if notify != nil {
			notify(fmt.Sprintf(
				"Answer %q doesn't match expected format for %s. Using document value %q instead.",
				answer, field, docValue))
		}
		if docValue != "" {
			return docValue
		}
		return answer
	}

	return answer
}
