// Package questions holds the authoritative in-memory question state and is
// the only place annotations and attempt statistics change.
package questions

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rotar1/rota/internal/catalog"
	"github.com/rotar1/rota/internal/record"
)

// Persister loads the persisted record at startup and writes a new one after
// every applied action, and reports skipped writes for actions that change
// nothing. *record.Adapter implements it.
type Persister interface {
	Load(ctx context.Context) record.Record
	Write(ctx context.Context, r record.Record) record.Outcome
	Skip() record.Outcome
}

// Container owns the current State. Actions are applied synchronously in
// call order; it is not safe for concurrent use.
type Container struct {
	state     State
	persister Persister
	log       *zap.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the container's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds the initial state from the catalog and the persisted record.
// A missing or unreadable record yields an unannotated catalog and empty
// statistics; New never fails.
func New(ctx context.Context, questions []catalog.Question, p Persister, opts ...Option) *Container {
	c := &Container{persister: p, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}

	r := p.Load(ctx)
	c.state = newState(record.Overlay(questions, r), r.Statistics)
	c.log.Debug("question state loaded",
		zap.Int("questions", c.state.Len()),
		zap.Int("favorites", len(r.Favorites)),
		zap.Int("saved", len(r.Saved)),
		zap.Int("notes", len(r.Notes)),
		zap.Int("statistics", len(r.Statistics)))
	return c
}

// State returns the current snapshot.
func (c *Container) State() State {
	return c.state
}

// ApplyAndPersist applies a and writes the resulting record. The new state
// stands even if the write fails; the Outcome says what happened. Actions
// on unknown question IDs change nothing and skip the write.
func (c *Container) ApplyAndPersist(ctx context.Context, a Action) (State, record.Outcome) {
	next, changed := a.apply(c.state)
	if !changed {
		c.log.Debug("action on unknown question ignored", zap.String("action", fmt.Sprintf("%+v", a)))
		return c.state, c.persister.Skip()
	}

	c.state = next
	out := c.persister.Write(ctx, next.Record())
	if out.Err != nil {
		c.log.Warn("state changed but not persisted",
			zap.String("action", fmt.Sprintf("%T", a)), zap.Error(out.Err))
	}
	return next, out
}

// ToggleFavorite applies ToggleFavorite{id}.
func (c *Container) ToggleFavorite(ctx context.Context, id string) (State, record.Outcome) {
	return c.ApplyAndPersist(ctx, ToggleFavorite{QuestionID: id})
}

// ToggleSave applies ToggleSave{id}.
func (c *Container) ToggleSave(ctx context.Context, id string) (State, record.Outcome) {
	return c.ApplyAndPersist(ctx, ToggleSave{QuestionID: id})
}

// UpdateNote applies UpdateNote{id, text}.
func (c *Container) UpdateNote(ctx context.Context, id, text string) (State, record.Outcome) {
	return c.ApplyAndPersist(ctx, UpdateNote{QuestionID: id, Text: text})
}

// RecordAnswer applies RecordAnswer{id, correct}.
func (c *Container) RecordAnswer(ctx context.Context, id string, correct bool) (State, record.Outcome) {
	return c.ApplyAndPersist(ctx, RecordAnswer{QuestionID: id, Correct: correct})
}

// ResetStatistics applies ResetStatistics{}.
func (c *Container) ResetStatistics(ctx context.Context) (State, record.Outcome) {
	return c.ApplyAndPersist(ctx, ResetStatistics{})
}
