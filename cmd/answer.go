package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rotar1/rota/internal/catalog"
	"github.com/rotar1/rota/internal/exam"
)

var answerCmd = &cobra.Command{
	Use:   "answer <id> <letter>",
	Short: "Answer a question and record the attempt",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		q, ok := a.Questions.State().Question(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", catalog.ErrUnknownQuestion, args[0])
		}
		selected, ok := q.Alternative(strings.ToLower(strings.TrimSpace(args[1])))
		if !ok {
			return fmt.Errorf("%w %q for question %s", exam.ErrUnknownAlternative, args[1], q.ID)
		}

		st, res := a.Questions.RecordAnswer(cmd.Context(), q.ID, selected.IsCorrect)
		w := cmd.OutOrStdout()
		printFeedback(w, q, selected)
		if s, ok := st.Statistic(q.ID); ok {
			fmt.Fprintf(w, "\nQuestion %s: %d/%d correct\n", q.ID, s.Correct, s.Attempts)
		}
		warnNotSaved(cmd.ErrOrStderr(), "answer", res)
		return nil
	},
}
