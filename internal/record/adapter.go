package record

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rotar1/rota/internal/store"
)

// Adapter reads and writes the persisted record under a fixed key.
// It holds no record state of its own.
type Adapter struct {
	kv  store.KV
	key string
	log *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLogger sets the logger used for recovered failures.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// NewAdapter returns an Adapter over kv.
func NewAdapter(kv store.KV, opts ...Option) *Adapter {
	a := &Adapter{kv: kv, key: DefaultKey, log: zap.NewNop()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Key returns the storage key.
func (a *Adapter) Key() string {
	return a.key
}

// TryLoad reads and decodes the stored record. It returns ErrNotFound when
// nothing is stored, *CorruptError when the text cannot be decoded and
// *StoreError when the store read fails.
func (a *Adapter) TryLoad(ctx context.Context) (Record, error) {
	raw, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return Empty(), &StoreError{Op: "read", Key: a.key, Err: err}
	}
	if !ok {
		return Empty(), ErrNotFound
	}
	r, err := Decode(raw)
	if err != nil {
		return Empty(), err
	}
	return r, nil
}

// Load is TryLoad with a fallback: any failure yields Empty().
func (a *Adapter) Load(ctx context.Context) Record {
	r, err := a.TryLoad(ctx)
	switch {
	case err == nil:
		return r
	case errors.Is(err, ErrNotFound):
		a.log.Debug("no persisted record, starting empty", zap.String("key", a.key))
	default:
		a.log.Warn("persisted record unusable, starting empty",
			zap.String("key", a.key), zap.Error(err))
	}
	return Empty()
}

// Outcome reports what a write did. Callers may ignore it.
type Outcome struct {
	Key     string
	Written bool  // the store accepted the new document
	Skipped bool  // no write was attempted because nothing changed
	Bytes   int   // size of the written document
	Err     error // nil unless the write failed
}

// OK reports whether the write succeeded or was skipped.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Skip returns the Outcome for a mutation that changed nothing.
func (a *Adapter) Skip() Outcome {
	return Outcome{Key: a.key, Skipped: true}
}

// Write merges r into the stored document and replaces it in full.
// Failures are logged and reported in the Outcome, never panicked or
// retried.
func (a *Adapter) Write(ctx context.Context, r Record) Outcome {
	out := Outcome{Key: a.key}

	base, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		out.Err = &StoreError{Op: "read", Key: a.key, Err: err}
		a.log.Warn("persist record: read existing", zap.String("key", a.key), zap.Error(err))
		return out
	}
	if ok {
		if _, derr := Decode(base); derr != nil {
			a.log.Warn("persist record: replacing corrupt document",
				zap.String("key", a.key), zap.Error(derr))
		}
	}

	doc, err := Encode(base, r)
	if err != nil {
		out.Err = err
		a.log.Warn("persist record: encode", zap.String("key", a.key), zap.Error(err))
		return out
	}

	if err := a.kv.Set(ctx, a.key, doc); err != nil {
		out.Err = &StoreError{Op: "write", Key: a.key, Err: err}
		a.log.Warn("persist record: write", zap.String("key", a.key), zap.Error(err))
		return out
	}

	out.Written = true
	out.Bytes = len(doc)
	return out
}
