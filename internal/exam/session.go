package exam

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rotar1/rota/internal/catalog"
	"github.com/rotar1/rota/internal/questions"
	"github.com/rotar1/rota/internal/record"
)

// AnswerRecorder receives every exam answer. *questions.Container
// implements it.
type AnswerRecorder interface {
	RecordAnswer(ctx context.Context, id string, correct bool) (questions.State, record.Outcome)
}

// HistoryWriter stores finished exams. *record.Adapter implements it.
type HistoryWriter interface {
	AppendExamResult(ctx context.Context, res record.ExamResult) error
}

// Feedback is the result of answering one exam question.
type Feedback struct {
	Question catalog.Question
	Selected catalog.Alternative
	Correct  bool
	Answer   catalog.Alternative // the correct alternative, if the catalog has one
}

// Session tracks one exam in progress.
type Session struct {
	plan     *Plan
	recorder AnswerRecorder
	history  HistoryWriter
	log      *zap.Logger
	now      func() time.Time

	started  time.Time
	current  int
	answers  []record.ExamAnswer
	finished bool
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Start begins an exam over plan.
func Start(plan *Plan, rec AnswerRecorder, hist HistoryWriter, opts ...Option) *Session {
	s := &Session{
		plan:     plan,
		recorder: rec,
		history:  hist,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.started = s.now()
	return s
}

// Name returns the exam name.
func (s *Session) Name() string {
	return s.plan.Name
}

// Total returns the number of questions in the exam.
func (s *Session) Total() int {
	return len(s.plan.Questions)
}

// Position returns the 1-based index of the current question.
func (s *Session) Position() int {
	return s.current + 1
}

// Current returns the question awaiting an answer. ok is false once every
// question is answered or the exam is finished.
func (s *Session) Current() (catalog.Question, bool) {
	if s.finished || s.current >= len(s.plan.Questions) {
		return catalog.Question{}, false
	}
	return s.plan.Questions[s.current], true
}

// Answer submits an alternative letter for the current question, records
// the attempt and advances.
func (s *Session) Answer(ctx context.Context, letter string, spent time.Duration) (Feedback, error) {
	q, ok := s.Current()
	if !ok {
		return Feedback{}, ErrFinished
	}

	selected, ok := q.Alternative(strings.ToLower(strings.TrimSpace(letter)))
	if !ok {
		return Feedback{}, fmt.Errorf("%w %q for question %s", ErrUnknownAlternative, letter, q.ID)
	}

	fb := Feedback{Question: q, Selected: selected, Correct: selected.IsCorrect}
	fb.Answer, _ = q.CorrectAlternative()

	if _, out := s.recorder.RecordAnswer(ctx, q.ID, fb.Correct); !out.OK() {
		s.log.Warn("exam answer not persisted", zap.String("question", q.ID), zap.Error(out.Err))
	}

	s.answers = append(s.answers, record.ExamAnswer{
		QuestionID:     q.ID,
		SelectedAnswer: selected.ID,
		IsCorrect:      fb.Correct,
		TimeSpent:      int(spent.Round(time.Second) / time.Second),
	})
	s.current++
	return fb, nil
}

// Skip advances past the current question without recording an answer.
func (s *Session) Skip() error {
	if _, ok := s.Current(); !ok {
		return ErrFinished
	}
	s.current++
	return nil
}

// Finish scores the exam and appends it to the history. Unanswered
// questions count as incorrect. The result is returned even if the history
// write fails.
func (s *Session) Finish(ctx context.Context) (record.ExamResult, error) {
	if s.finished {
		return record.ExamResult{}, ErrFinished
	}
	s.finished = true

	end := s.now()
	res := record.ExamResult{
		ID:             uuid.NewString(),
		Name:           s.plan.Name,
		Date:           end.UTC().Format(time.RFC3339),
		TotalQuestions: len(s.plan.Questions),
		TimeSpent:      int(end.Sub(s.started).Round(time.Second) / time.Second),
		Questions:      append([]record.ExamAnswer(nil), s.answers...),
	}
	for _, a := range s.answers {
		if a.IsCorrect {
			res.CorrectAnswers++
		}
	}
	res.IncorrectAnswers = res.TotalQuestions - res.CorrectAnswers

	if err := s.history.AppendExamResult(ctx, res); err != nil {
		return res, fmt.Errorf("save exam result: %w", err)
	}
	return res, nil
}
