package ioport

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/claimflow/internal/model"
)

// similarityThreshold is the word-overlap ratio above which two untagged
// questions are considered the same. Known heuristic risk: high lexical
// overlap between semantically different questions would match; the
// fallback is therefore restricted to questions with no field tag.
const similarityThreshold = 0.7

// SessionStore holds per-session IO state (pending questions, answer
// maps, consumed-answer markers) with TTL-based expiry. Expiry is the
// abandonment mechanism; there is no explicit cancellation.
type SessionStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewSessionStore creates a store whose sessions expire after ttl.
func NewSessionStore(ttl, cleanupInterval time.Duration) *SessionStore {
	return &SessionStore{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Session binds an IO handler to one logical session.
func (s *SessionStore) Session(id string) *SessionIO {
	return &SessionIO{store: s, id: id}
}

// sessionState is the mutable per-session record kept in the cache.
// Consumed markers are scoped to one workflow invocation: they stop a
// stored answer from satisfying more than one question within a run, but
// a re-invocation replays the same answers, so BeginRun clears them.
type sessionState struct {
	Pending        []model.Question
	Answers        map[string]storedAnswer // keyed by question text
	FieldAnswers   map[string]string       // keyed by field name
	Consumed       map[string]bool         // question text -> handed back this run
	ConsumedFields map[string]bool         // field name -> handed back this run
	Notifications  []string
}

type storedAnswer struct {
	Answer string
	Tagged bool // question carried a field tag when the answer was stored
}

func (s *SessionStore) state(id string) *sessionState {
	if v, ok := s.cache.Get(id); ok {
		return v.(*sessionState)
	}
	st := &sessionState{
		Answers:        make(map[string]storedAnswer),
		FieldAnswers:   make(map[string]string),
		Consumed:       make(map[string]bool),
		ConsumedFields: make(map[string]bool),
	}
	s.cache.Set(id, st, s.ttl)
	return st
}

func (s *SessionStore) save(id string, st *sessionState) {
	s.cache.Set(id, st, s.ttl)
}

// SessionIO is an Asker whose answers arrive asynchronously from a front
// end. When no answer is available Ask returns ok=false after recording
// the question as pending, and the caller re-runs the workflow once
// SetAnswer has been called.
type SessionIO struct {
	store *SessionStore
	id    string
}

// Ask looks up an answer for the question. Answers are matched by exact
// question text; untagged questions may additionally match a stored
// untagged answer whose question text overlaps above the similarity
// threshold. Each answer is handed back at most once per run; a new run
// (BeginRun) re-arms every stored answer for replay.
func (io *SessionIO) Ask(q model.Question) (string, bool) {
	st := io.store.state(io.id)
	defer io.store.save(io.id, st)

	if answer, ok := io.takeAnswer(st, q); ok {
		return answer, true
	}

	if answer, ok := st.FieldAnswers[q.Field]; ok && q.Field != "" && !st.ConsumedFields[q.Field] {
		st.ConsumedFields[q.Field] = true
		return answer, true
	}

	io.addPending(st, q)
	return "", false
}

func (io *SessionIO) takeAnswer(st *sessionState, q model.Question) (string, bool) {
	if stored, ok := st.Answers[q.Text]; ok && stored.Answer != "" && !st.Consumed[q.Text] {
		st.Consumed[q.Text] = true
		return stored.Answer, true
	}

	if q.Field != "" {
		return "", false
	}

	// Fuzzy fallback for untagged legacy-style questions only.
	for text, stored := range st.Answers {
		if stored.Tagged || stored.Answer == "" || st.Consumed[text] {
			continue
		}
		if questionsSimilar(q.Text, text) {
			st.Consumed[text] = true
			return stored.Answer, true
		}
	}
	return "", false
}

func (io *SessionIO) addPending(st *sessionState, q model.Question) {
	for _, p := range st.Pending {
		if p.Text == q.Text {
			return
		}
	}
	st.Pending = append(st.Pending, q)
}

// Answers implements BatchAsker: it returns ok=true only when every
// question in the batch has an answer (empty string counts as an explicit
// blank answer). Returned answers are marked consumed.
func (io *SessionIO) Answers(questions []model.Question) (map[string]string, bool) {
	st := io.store.state(io.id)
	defer io.store.save(io.id, st)

	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		if stored, ok := st.Answers[q.Text]; ok {
			answers[q.Text] = strings.TrimSpace(stored.Answer)
			continue
		}
		if q.Field != "" {
			if answer, ok := st.FieldAnswers[q.Field]; ok {
				answers[q.Text] = strings.TrimSpace(answer)
				continue
			}
		}
	}

	if len(answers) < len(questions) {
		for _, q := range questions {
			if _, ok := answers[q.Text]; !ok {
				io.addPending(st, q)
			}
		}
		return nil, false
	}

	for _, q := range questions {
		st.Consumed[q.Text] = true
		if q.Field != "" {
			st.ConsumedFields[q.Field] = true
		}
	}
	return answers, true
}

// BeginRun resets the consumed markers so a re-invoked workflow replays
// previously supplied answers instead of re-asking for them. Stored
// answers themselves survive until the session expires.
func (io *SessionIO) BeginRun() {
	st := io.store.state(io.id)
	st.Consumed = make(map[string]bool)
	st.ConsumedFields = make(map[string]bool)
	io.store.save(io.id, st)
}

// Notify records the message for the front end to display.
func (io *SessionIO) Notify(message string) {
	st := io.store.state(io.id)
	st.Notifications = append(st.Notifications, message)
	io.store.save(io.id, st)
}

// SetAnswer supplies the answer for a previously asked question and
// removes it from the pending list.
func (io *SessionIO) SetAnswer(q model.Question, answer string) {
	st := io.store.state(io.id)
	defer io.store.save(io.id, st)

	st.Answers[q.Text] = storedAnswer{Answer: answer, Tagged: q.Field != ""}
	delete(st.Consumed, q.Text)
	for i, p := range st.Pending {
		if p.Text == q.Text {
			st.Pending = append(st.Pending[:i], st.Pending[i+1:]...)
			break
		}
	}
}

// SetFieldAnswer supplies an answer keyed by field, for front ends that
// collect clarification values per field rather than per question.
func (io *SessionIO) SetFieldAnswer(field, answer string) {
	st := io.store.state(io.id)
	st.FieldAnswers[field] = answer
	delete(st.ConsumedFields, field)
	io.store.save(io.id, st)
}

// PendingQuestions returns the questions still waiting for answers.
func (io *SessionIO) PendingQuestions() []model.Question {
	st := io.store.state(io.id)
	out := make([]model.Question, len(st.Pending))
	copy(out, st.Pending)
	return out
}

// Notifications returns the accumulated notices for this session.
func (io *SessionIO) Notifications() []string {
	st := io.store.state(io.id)
	out := make([]string, len(st.Notifications))
	copy(out, st.Notifications)
	return out
}

// Clear resets all session state.
func (io *SessionIO) Clear() {
	io.store.cache.Delete(io.id)
}

// questionsSimilar reports whether two questions share enough words to be
// treated as the same question.
func questionsSimilar(q1, q2 string) bool {
	words1 := wordSet(q1)
	words2 := wordSet(q2)
	if len(words1) == 0 || len(words2) == 0 {
		return false
	}
	overlap := 0
	for w := range words1 {
		if words2[w] {
			overlap++
		}
	}
	denom := len(words1)
	if len(words2) > denom {
		denom = len(words2)
	}
	return float64(overlap)/float64(denom) > similarityThreshold
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}
