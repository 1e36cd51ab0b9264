package questions

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/rotar1/rota/internal/catalog"
	"github.com/rotar1/rota/internal/record"
	"github.com/rotar1/rota/internal/store"
)

// countingKV wraps a KV, counts writes and can fail them.
type countingKV struct {
	store.KV
	sets   int
	setErr error
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	return c.KV.Set(ctx, key, value)
}

func testCatalog() []catalog.Question {
	return []catalog.Question{
		{ID: "1", Area: "CLÍNICA MÉDICA", Alternatives: []catalog.Alternative{{ID: "a", IsCorrect: true}}},
		{ID: "2", Area: "CLÍNICA CIRÚRGICA", Alternatives: []catalog.Alternative{{ID: "a", IsCorrect: true}}},
		{ID: "3", Area: "ANESTESIOLOGIA", Alternatives: []catalog.Alternative{{ID: "a", IsCorrect: true}}},
	}
}

type fixture struct {
	kv        *countingKV
	adapter   *record.Adapter
	container *Container
}

func newFixture(t *testing.T, questions []catalog.Question) *fixture {
	t.Helper()
	kv := &countingKV{KV: store.NewMemory()}
	adapter := record.NewAdapter(kv)
	return &fixture{
		kv:        kv,
		adapter:   adapter,
		container: New(context.Background(), questions, adapter),
	}
}

func (f *fixture) persisted(t *testing.T) record.Record {
	t.Helper()
	r, err := f.adapter.TryLoad(context.Background())
	require.NoError(t, err)
	return r
}

func (f *fixture) raw(t *testing.T) string {
	t.Helper()
	raw, _, err := f.kv.Get(context.Background(), record.DefaultKey)
	require.NoError(t, err)
	return raw
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []catalog.Question{{ID: "1"}})
	c := f.container

	state, out := c.ToggleFavorite(ctx, "1")
	require.True(t, out.Written)
	q, _ := state.Question("1")
	assert.True(t, q.IsFavorited)
	assert.Equal(t, []string{"1"}, f.persisted(t).Favorites)

	c.RecordAnswer(ctx, "1", true)
	state, _ = c.RecordAnswer(ctx, "1", false)
	assert.Equal(t, map[string]record.AttemptStatistic{"1": {Attempts: 2, Correct: 1}}, state.Statistics())
	assert.Equal(t, map[string]record.AttemptStatistic{"1": {Attempts: 2, Correct: 1}}, f.persisted(t).Statistics)

	state, out = c.ResetStatistics(ctx)
	require.True(t, out.Written)
	assert.Empty(t, state.Statistics())
	assert.Empty(t, f.persisted(t).Statistics)
	assert.Equal(t, []string{"1"}, f.persisted(t).Favorites)
	assert.Equal(t, `{}`, gjson.Get(f.raw(t), "statistics").Raw)
}

func TestToggleInvolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog())

	for _, q := range testCatalog() {
		before, _ := f.container.State().Question(q.ID)

		s1, _ := f.container.ToggleFavorite(ctx, q.ID)
		mid, _ := s1.Question(q.ID)
		assert.Equal(t, !before.IsFavorited, mid.IsFavorited)
		assert.Contains(t, f.persisted(t).Favorites, q.ID)

		s2, _ := f.container.ToggleFavorite(ctx, q.ID)
		after, _ := s2.Question(q.ID)
		assert.Equal(t, before.IsFavorited, after.IsFavorited)
		assert.NotContains(t, f.persisted(t).Favorites, q.ID)
	}
}

func TestToggleSave(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog())

	state, _ := f.container.ToggleSave(ctx, "2")
	q, _ := state.Question("2")
	assert.True(t, q.IsSaved)
	assert.Equal(t, []string{"2"}, f.persisted(t).Saved)
	assert.Empty(t, f.persisted(t).Favorites)

	state, _ = f.container.ToggleSave(ctx, "2")
	q, _ = state.Question("2")
	assert.False(t, q.IsSaved)
	assert.Empty(t, f.persisted(t).Saved)
}

func TestNoteClearingRemovesPersistedEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog())

	long := "<b>sem sanitização</b>\n" + strings.Repeat("furosemida ", 500)
	f.container.UpdateNote(ctx, "1", long)
	f.container.UpdateNote(ctx, "2", "outra")
	assert.Equal(t, map[string]string{"1": long, "2": "outra"}, f.persisted(t).Notes)

	state, out := f.container.UpdateNote(ctx, "1", "")
	require.True(t, out.Written)
	q, _ := state.Question("1")
	assert.Empty(t, q.Note)
	assert.Equal(t, map[string]string{"2": "outra"}, f.persisted(t).Notes)
	assert.False(t, gjson.Get(f.raw(t), "notes.1").Exists())
}

func TestStatisticAccumulation(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(1, 2))

	for trial := 0; trial < 20; trial++ {
		f := newFixture(t, testCatalog())
		n := rng.IntN(30) + 1
		k := 0
		for i := 0; i < n; i++ {
			correct := rng.IntN(2) == 1
			if correct {
				k++
			}
			f.container.RecordAnswer(ctx, "3", correct)
		}

		st, ok := f.container.State().Statistic("3")
		require.True(t, ok)
		assert.Equal(t, record.AttemptStatistic{Attempts: n, Correct: k}, st)
		assert.Equal(t, st, f.persisted(t).Statistics["3"])

		state, _ := f.container.ResetStatistics(ctx)
		assert.Empty(t, state.Statistics())
		assert.Empty(t, f.persisted(t).Statistics)
	}
}

func TestRecordAnswerNotCheckedAgainstCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog())

	state, out := f.container.RecordAnswer(ctx, "legacy-42", true)
	assert.True(t, out.Written)
	st, ok := state.Statistic("legacy-42")
	assert.True(t, ok)
	assert.Equal(t, record.AttemptStatistic{Attempts: 1, Correct: 1}, st)
}

func TestUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog())
	f.container.ToggleFavorite(ctx, "1")
	f.container.UpdateNote(ctx, "2", "nota")

	rawBefore := f.raw(t)
	setsBefore := f.kv.sets
	before := f.container.State().Questions()

	actions := []Action{
		ToggleFavorite{QuestionID: "404"},
		ToggleSave{QuestionID: "404"},
		UpdateNote{QuestionID: "404", Text: "x"},
	}
	for _, a := range actions {
		_, out := f.container.ApplyAndPersist(ctx, a)
		assert.True(t, out.Skipped, "%T", a)
		assert.Equal(t, record.DefaultKey, out.Key)
		assert.True(t, out.OK())
		assert.False(t, out.Written)
	}

	assert.Equal(t, before, f.container.State().Questions())
	assert.Equal(t, rawBefore, f.raw(t))
	assert.Equal(t, setsBefore, f.kv.sets)
}

func TestInitialStateOverlaysPersistedRecord(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Set(ctx, record.DefaultKey,
		`{"favorites":["2"],"saved":["3","999"],"notes":{"1":"rever"},"statistics":{"1":{"attempts":4,"correct":3},"999":{"attempts":1,"correct":0}}}`))

	c := New(ctx, testCatalog(), record.NewAdapter(kv))
	s := c.State()

	q1, _ := s.Question("1")
	q2, _ := s.Question("2")
	q3, _ := s.Question("3")
	assert.Equal(t, "rever", q1.Note)
	assert.True(t, q2.IsFavorited)
	assert.False(t, q2.IsSaved)
	assert.True(t, q3.IsSaved)

	// Statistics are adopted verbatim, including IDs outside the catalog.
	assert.Equal(t, map[string]record.AttemptStatistic{
		"1":   {Attempts: 4, Correct: 3},
		"999": {Attempts: 1, Correct: 0},
	}, s.Statistics())
}

func TestCorruptStoreRecovery(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{`{"favorites": [`, `null`, `not json at all`} {
		kv := store.NewMemory()
		require.NoError(t, kv.Set(ctx, record.DefaultKey, raw))

		c := New(ctx, testCatalog(), record.NewAdapter(kv))
		s := c.State()
		require.Equal(t, 3, s.Len())
		for _, q := range s.Questions() {
			assert.False(t, q.IsFavorited)
			assert.False(t, q.IsSaved)
			assert.Empty(t, q.Note)
		}
		assert.Empty(t, s.Statistics())

		// The next action overwrites the corrupt document.
		_, out := c.ToggleFavorite(ctx, "1")
		assert.True(t, out.Written)
	}
}

func TestPersistFailureKeepsNewState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog())
	f.kv.setErr = errors.New("quota exceeded")

	state, out := f.container.ToggleFavorite(ctx, "1")
	assert.False(t, out.OK())
	assert.False(t, out.Written)
	q, _ := state.Question("1")
	assert.True(t, q.IsFavorited)

	current, _ := f.container.State().Question("1")
	assert.True(t, current.IsFavorited, "in-memory state is not rolled back")
}

func TestSnapshotsAreImmutable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog())

	s0 := f.container.State()
	f.container.ToggleFavorite(ctx, "1")
	f.container.RecordAnswer(ctx, "1", true)

	q, _ := s0.Question("1")
	assert.False(t, q.IsFavorited)
	_, ok := s0.Statistic("1")
	assert.False(t, ok)

	qs := f.container.State().Questions()
	qs[0].Note = "mutated by caller"
	q, _ = f.container.State().Question("1")
	assert.Empty(t, q.Note)

	qs[0].Alternatives[0].IsCorrect = false
	qs[0].Alternatives[0].Text = "mutated by caller"
	q, _ = f.container.State().Question("1")
	assert.True(t, q.Alternatives[0].IsCorrect)
	assert.Empty(t, q.Alternatives[0].Text)

	q.Alternatives[0].IsCorrect = false
	again, _ := f.container.State().Question("1")
	assert.True(t, again.Alternatives[0].IsCorrect)

	stats := f.container.State().Statistics()
	stats["1"] = record.AttemptStatistic{Attempts: 100}
	st, _ := f.container.State().Statistic("1")
	assert.Equal(t, 1, st.Attempts)
}

func TestStateDoesNotAliasInputCatalog(t *testing.T) {
	qs := testCatalog()
	f := newFixture(t, qs)

	qs[0].Alternatives[0].IsCorrect = false
	q, _ := f.container.State().Question("1")
	assert.True(t, q.Alternatives[0].IsCorrect)
}

func TestActionsApplyInOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testCatalog())

	f.container.UpdateNote(ctx, "1", "primeira")
	f.container.UpdateNote(ctx, "1", "segunda")
	f.container.ToggleSave(ctx, "1")

	assert.Equal(t, map[string]string{"1": "segunda"}, f.persisted(t).Notes)
	assert.Equal(t, []string{"1"}, f.persisted(t).Saved)
	assert.Equal(t, 3, f.kv.sets)
}
