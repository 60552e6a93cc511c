package model

// Provenance tags recorded in ClaimRecord.FieldsSource
const (
	SourceUser      = "user"      // supplied directly by the claimant
	SourceDocument  = "document"  // extracted from an uploaded document
	SourceDefault   = "default"   // typed default after unanswered question
	SourceClarified = "clarified" // resolved through a clarification answer
)

// Domain field names. These are the only keys accepted by SetField/Field.
const (
	FieldDate                = "date"
	FieldTime                = "time"
	FieldLocation            = "location"
	FieldOtherVehicle        = "other_vehicle_involved"
	FieldOtherVehiclePlate   = "other_vehicle_plate"
	FieldInjuries            = "injuries"
	FieldDescription         = "description"
	FieldEstimatedDamageCost = "estimated_damage_cost"
)

// Message is a single question/answer exchange in the dialogue history.
type Message struct {
	Role    string `json:"role"` // "assistant" or "user"
	Content string `json:"content"`
}

// ClaimRecord is the central mutable entity for one claim. It is created
// once per workflow invocation, threaded through every node, and discarded
// once the terminal summary fields are populated.
type ClaimRecord struct {
	ClaimType string `json:"claim_type"`

	Date                string `json:"date,omitempty"`
	Time                string `json:"time,omitempty"`
	Location            string `json:"location,omitempty"`
	OtherVehicleInvolved *bool  `json:"other_vehicle_involved,omitempty"`
	OtherVehiclePlate   string `json:"other_vehicle_plate,omitempty"`
	Injuries            string `json:"injuries,omitempty"`
	Description         string `json:"description,omitempty"`
	// EstimatedDamageCost holds a float64 when the answer parsed as a
	// number, or the raw answer text when it did not.
	EstimatedDamageCost any `json:"estimated_damage_cost,omitempty"`

	FieldsSource       map[string]string `json:"fields_source"`
	Documents          []string          `json:"documents"`
	CompletenessScore  float64           `json:"completeness_score"`
	ConsistencyFlags   []string          `json:"consistency_flags"`
	ReasoningTrace     []string          `json:"reasoning_trace"`
	Messages           []Message         `json:"messages"`
	DocExtractedFields map[string]string `json:"doc_extracted_fields"`

	Summary          string `json:"summary,omitempty"`
	ReasoningSummary string `json:"reasoning_summary,omitempty"`

	CollectionAttempts   int     `json:"collection_attempts"`
	ValidationCycles     int     `json:"validation_cycles"`
	PreviousCompleteness float64 `json:"previous_completeness"`
}

// NewClaimRecord creates an empty record for the given claim type.
func NewClaimRecord(claimType string) *ClaimRecord {
	return &ClaimRecord{
		ClaimType:          claimType,
		FieldsSource:       make(map[string]string),
		Documents:          []string{},
		ConsistencyFlags:   []string{},
		ReasoningTrace:     []string{},
		Messages:           []Message{},
		DocExtractedFields: make(map[string]string),
	}
}

// fieldAccessor pairs a getter and setter for one domain field, so nodes
// can iterate schema fields generically without reflection.
type fieldAccessor struct {
	get func(*ClaimRecord) any
	set func(*ClaimRecord, any)
}

var fieldTable = map[string]fieldAccessor{
	FieldDate: {
		get: func(r *ClaimRecord) any { return stringOrNil(r.Date) },
		set: func(r *ClaimRecord, v any) { r.Date = asString(v) },
	},
	FieldTime: {
		get: func(r *ClaimRecord) any { return stringOrNil(r.Time) },
		set: func(r *ClaimRecord, v any) { r.Time = asString(v) },
	},
	FieldLocation: {
		get: func(r *ClaimRecord) any { return stringOrNil(r.Location) },
		set: func(r *ClaimRecord, v any) { r.Location = asString(v) },
	},
	FieldOtherVehicle: {
		get: func(r *ClaimRecord) any {
			if r.OtherVehicleInvolved == nil {
				return nil
			}
			return *r.OtherVehicleInvolved
		},
		set: func(r *ClaimRecord, v any) {
			switch val := v.(type) {
			case bool:
				r.OtherVehicleInvolved = &val
			case nil:
				r.OtherVehicleInvolved = nil
			default:
				// Unparsable yes/no answers are kept as text elsewhere;
				// here a non-bool means "answered but ambiguous", which we
				// record as involved=true only on explicit truthy strings.
				s := asString(v)
				b := s == "true" || s == "yes"
				r.OtherVehicleInvolved = &b
			}
		},
	},
	FieldOtherVehiclePlate: {
		get: func(r *ClaimRecord) any { return stringOrNil(r.OtherVehiclePlate) },
		set: func(r *ClaimRecord, v any) { r.OtherVehiclePlate = asString(v) },
	},
	FieldInjuries: {
		get: func(r *ClaimRecord) any { return stringOrNil(r.Injuries) },
		set: func(r *ClaimRecord, v any) { r.Injuries = asString(v) },
	},
	FieldDescription: {
		get: func(r *ClaimRecord) any { return stringOrNil(r.Description) },
		set: func(r *ClaimRecord, v any) { r.Description = asString(v) },
	},
	FieldEstimatedDamageCost: {
		get: func(r *ClaimRecord) any { return r.EstimatedDamageCost },
		set: func(r *ClaimRecord, v any) { r.EstimatedDamageCost = v },
	},
}

// KnownField reports whether name is a domain field of the record.
func KnownField(name string) bool {
	_, ok := fieldTable[name]
	return ok
}

// Field returns the current value of a domain field, or (nil, false) for
// unknown field names. Unset fields return nil.
func (r *ClaimRecord) Field(name string) (any, bool) {
	acc, ok := fieldTable[name]
	if !ok {
		return nil, false
	}
	return acc.get(r), true
}

// SetField sets a domain field and records its provenance. Unknown field
// names are ignored. Every written field always gets a provenance tag.
func (r *ClaimRecord) SetField(name string, value any, source string) {
	acc, ok := fieldTable[name]
	if !ok {
		return
	}
	acc.set(r, value)
	if r.FieldsSource == nil {
		r.FieldsSource = make(map[string]string)
	}
	r.FieldsSource[name] = source
}

// AddReasoning appends a single entry to the append-only reasoning log.
func (r *ClaimRecord) AddReasoning(entry string) {
	r.ReasoningTrace = append(r.ReasoningTrace, entry)
}

// AddMessage appends a chat-style message to the dialogue history.
func (r *ClaimRecord) AddMessage(role, content string) {
	r.Messages = append(r.Messages, Message{Role: role, Content: content})
}

func stringOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
