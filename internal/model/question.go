package model

// Question is a structured prompt for the claimant. Field carries the
// record field the answer belongs to ("" for free-form prompts such as a
// document path request), so IO handlers can match answers by field
// instead of parsing tags out of the question text.
type Question struct {
	Field     string `json:"field,omitempty"`
	Text      string `json:"text"`
	Display   string `json:"display,omitempty"` // text without any technical framing
	UserValue string `json:"user_value,omitempty"`
	DocValue  string `json:"doc_value,omitempty"`
}

// DisplayText returns the question as it should be rendered to a person.
func (q Question) DisplayText() string {
	if q.Display != "" {
		return q.Display
	}
	return q.Text
}
