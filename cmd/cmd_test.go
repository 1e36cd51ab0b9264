package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotar1/rota/internal/catalog"
	"github.com/rotar1/rota/internal/questions"
	"github.com/rotar1/rota/internal/record"
	"github.com/rotar1/rota/internal/store"
)

// resetFlags restores every flag of the command tree to its default so
// successive executions of the shared rootCmd do not leak state.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type harness struct {
	t      *testing.T
	config string
	db     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{"ROTA_STORAGE", "ROTA_DB", "ROTA_REDIS_URL", "ROTA_STORAGE_KEY", "ROTA_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return &harness{
		t:      t,
		config: filepath.Join(dir, "config.yaml"),
		db:     filepath.Join(dir, "rota.db"),
	}
}

// run executes rota with args against the harness database and returns
// stdout.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", h.config, "--db", h.db}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err)
	return out
}

func TestListAndFilters(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("list")
	assert.Contains(t, out, "5 question(s)")
	assert.Contains(t, out, "CLÍNICA MÉDICA")

	out = h.mustRun("list", "--area", "anestesiologia")
	assert.Contains(t, out, "1 question(s)")
	assert.Contains(t, out, "ANESTESIOLOGIA")
	assert.NotContains(t, out, "CLÍNICA MÉDICA")

	out = h.mustRun("list", "--favorites")
	assert.Contains(t, out, "No questions match.")
}

func TestFavoriteSaveAndNotePersist(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.mustRun("favorite", "2"), "added to favorites")
	assert.Contains(t, h.mustRun("save", "3"), "saved for later")
	assert.Contains(t, h.mustRun("note", "2", "revisar", "apendicite"), "Note saved")

	out := h.mustRun("list", "--favorites")
	assert.Contains(t, out, "1 question(s)")
	assert.Contains(t, out, "CLÍNICA CIRÚRGICA")

	out = h.mustRun("list", "--saved")
	assert.Contains(t, out, "DIAGNÓSTICO POR IMAGEM")

	out = h.mustRun("show", "2")
	assert.Contains(t, out, "Note: revisar apendicite")

	assert.Contains(t, h.mustRun("favorite", "2"), "removed from favorites")
	assert.Contains(t, h.mustRun("note", "2"), "Note cleared")
	assert.NotContains(t, h.mustRun("show", "2"), "Note:")
}

func TestAnnotateUnknownQuestionIsNotAnError(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("favorite", "999")
	assert.Contains(t, out, `No question with ID "999"`)
}

func TestShowUnknownQuestion(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "show", "999")
	assert.ErrorIs(t, err, catalog.ErrUnknownQuestion)
}

func TestAnswerAndStats(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("answer", "1", "D")
	assert.Contains(t, out, "Correct!")
	assert.Contains(t, out, "Question 1: 1/1 correct")

	out = h.mustRun("answer", "1", "a")
	assert.Contains(t, out, "Wrong.")
	assert.Contains(t, out, "Question 1: 1/2 correct")

	_, err := h.run("", "answer", "1", "z")
	assert.Error(t, err)

	out = h.mustRun("stats")
	assert.Contains(t, out, "2 answers, 1 correct, 1 wrong, 1 of 5 questions seen")
	assert.Contains(t, out, "By area")
	assert.Contains(t, out, "FARMACOLOGIA")
}

func TestStatsEmpty(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.mustRun("stats"), "No answers recorded yet.")
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	h.mustRun("answer", "4", "b")

	out, err := h.run("n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
	assert.Contains(t, h.mustRun("stats"), "1 answers")

	out, err = h.run("y\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Statistics cleared.")
	assert.Contains(t, h.mustRun("stats"), "No answers recorded yet.")

	h.mustRun("answer", "4", "b")
	assert.Contains(t, h.mustRun("reset", "--yes"), "Statistics cleared.")
}

// readOnlyKV rejects every write.
type readOnlyKV struct {
	*store.Memory
}

func (readOnlyKV) Set(context.Context, string, string) error {
	return errors.New("read-only store")
}

func TestResetWriteFailureIsAWarning(t *testing.T) {
	ctx := context.Background()
	qs, err := catalog.Default()
	require.NoError(t, err)

	kv := readOnlyKV{Memory: store.NewMemory()}
	require.NoError(t, kv.Memory.Set(ctx, record.DefaultKey, `{"statistics":{"1":{"attempts":2,"correct":1}}}`))
	c := questions.New(ctx, qs, record.NewAdapter(kv))
	require.Equal(t, 2, c.State().Statistics()["1"].Attempts)

	var out, errOut bytes.Buffer
	resetStatistics(ctx, c, &out, &errOut)

	assert.Contains(t, out.String(), "Statistics cleared.")
	assert.Contains(t, errOut.String(), "warning: reset not saved: ")
	assert.Contains(t, errOut.String(), "read-only store")
	assert.Empty(t, c.State().Statistics())
}

func TestExamStartAndHistory(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.mustRun("exam", "history"), "No simulated exams taken yet.")

	// Only one question in the area, so the answer is known.
	out, err := h.run("x\nb\n", "exam", "start", "--name", "Treino", "--area", "anestesiologia", "--count", "1", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Treino: 1 question(s)")
	assert.Contains(t, out, `No alternative "x"`)
	assert.Contains(t, out, "Correct!")
	assert.Contains(t, out, "Summary: 1/1 correct")

	out = h.mustRun("exam", "history")
	assert.Contains(t, out, "Treino")
	assert.Contains(t, out, "1/1")

	assert.Contains(t, h.mustRun("stats"), "1 answers, 1 correct")
}

func TestExamQuitEarly(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("\nq\n", "exam", "start", "--count", "3", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "(skipped)")
	assert.Contains(t, out, "Summary: 0/3 correct")
}

func TestExamUnknownArea(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "exam", "start", "--area", "zootecnia")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.mustRun("version"), "rota (devel)")
}

func TestInvalidBackend(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "--backend", "mongo", "list")
	assert.Error(t, err)
}
