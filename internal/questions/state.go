package questions

import (
	"github.com/rotar1/rota/internal/catalog"
	"github.com/rotar1/rota/internal/record"
)

// State is an immutable snapshot of the annotated questions and attempt
// statistics. Accessors return copies; a State never changes after it is
// produced.
type State struct {
	questions  []catalog.Question
	index      map[string]int // question ID -> position, shared between snapshots
	statistics map[string]record.AttemptStatistic
}

func newState(questions []catalog.Question, stats map[string]record.AttemptStatistic) State {
	index := make(map[string]int, len(questions))
	for i, q := range questions {
		if _, dup := index[q.ID]; !dup {
			index[q.ID] = i
		}
	}
	own := make([]catalog.Question, len(questions))
	for i, q := range questions {
		own[i] = q.Clone()
	}
	s := State{
		questions:  own,
		index:      index,
		statistics: make(map[string]record.AttemptStatistic, len(stats)),
	}
	for id, st := range stats {
		s.statistics[id] = st
	}
	return s
}

// Questions returns the annotated questions in catalog order.
func (s State) Questions() []catalog.Question {
	out := make([]catalog.Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.Clone()
	}
	return out
}

// Question returns the annotated question with the given ID.
func (s State) Question(id string) (catalog.Question, bool) {
	i, ok := s.index[id]
	if !ok {
		return catalog.Question{}, false
	}
	return s.questions[i].Clone(), true
}

// Len returns the number of questions.
func (s State) Len() int {
	return len(s.questions)
}

// Statistics returns a copy of the attempt statistics map.
func (s State) Statistics() map[string]record.AttemptStatistic {
	out := make(map[string]record.AttemptStatistic, len(s.statistics))
	for id, st := range s.statistics {
		out[id] = st
	}
	return out
}

// Statistic returns the attempt statistic for a question, if any answer has
// been recorded.
func (s State) Statistic(id string) (record.AttemptStatistic, bool) {
	st, ok := s.statistics[id]
	return st, ok
}

// Record returns the persisted projection of s.
func (s State) Record() record.Record {
	return record.Derive(s.questions, s.statistics)
}

// withQuestion returns a copy of s with fn applied to question id.
// ok is false if id is not in the catalog.
func (s State) withQuestion(id string, fn func(*catalog.Question)) (State, bool) {
	i, ok := s.index[id]
	if !ok {
		return s, false
	}
	qs := make([]catalog.Question, len(s.questions))
	copy(qs, s.questions)
	fn(&qs[i])

	next := s
	next.questions = qs
	return next, true
}

// withStatistics returns a copy of s with the given statistics map, which
// must not be shared with any other State.
func (s State) withStatistics(stats map[string]record.AttemptStatistic) State {
	next := s
	next.statistics = stats
	return next
}
