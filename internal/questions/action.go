package questions

import (
	"github.com/rotar1/rota/internal/catalog"
	"github.com/rotar1/rota/internal/record"
)

// Action is a mutation of the question state. The set of actions is closed.
type Action interface {
	// apply returns the next state. changed is false when the action
	// targets an unknown question and nothing happened.
	apply(s State) (next State, changed bool)
}

// ToggleFavorite flips IsFavorited on a question.
type ToggleFavorite struct {
	QuestionID string
}

func (a ToggleFavorite) apply(s State) (State, bool) {
	return s.withQuestion(a.QuestionID, func(q *catalog.Question) {
		q.IsFavorited = !q.IsFavorited
	})
}

// ToggleSave flips IsSaved on a question.
type ToggleSave struct {
	QuestionID string
}

func (a ToggleSave) apply(s State) (State, bool) {
	return s.withQuestion(a.QuestionID, func(q *catalog.Question) {
		q.IsSaved = !q.IsSaved
	})
}

// UpdateNote replaces a question's note verbatim. An empty Text clears it.
type UpdateNote struct {
	QuestionID string
	Text       string
}

func (a UpdateNote) apply(s State) (State, bool) {
	return s.withQuestion(a.QuestionID, func(q *catalog.Question) {
		q.Note = a.Text
	})
}

// RecordAnswer counts one attempt for a question, and one correct answer
// if Correct is set. Repeated answers all count.
type RecordAnswer struct {
	QuestionID string
	Correct    bool
}

func (a RecordAnswer) apply(s State) (State, bool) {
	stats := s.Statistics()
	st := stats[a.QuestionID]
	st.Attempts++
	if a.Correct {
		st.Correct++
	}
	stats[a.QuestionID] = st
	return s.withStatistics(stats), true
}

// ResetStatistics clears every attempt statistic. Favorites, saved flags
// and notes are kept.
type ResetStatistics struct{}

func (ResetStatistics) apply(s State) (State, bool) {
	return s.withStatistics(map[string]record.AttemptStatistic{}), true
}
