package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rotar1/rota/internal/questions"
	"github.com/rotar1/rota/internal/record"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Toggle the favorite flag of a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return annotate(cmd, args[0], func(c *questions.Container) (questions.State, record.Outcome) {
			return c.ToggleFavorite(cmd.Context(), args[0])
		}, func(st questions.State) string {
			if q, _ := st.Question(args[0]); q.IsFavorited {
				return "Question " + args[0] + " added to favorites."
			}
			return "Question " + args[0] + " removed from favorites."
		})
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <id>",
	Short: "Toggle the saved-for-later flag of a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return annotate(cmd, args[0], func(c *questions.Container) (questions.State, record.Outcome) {
			return c.ToggleSave(cmd.Context(), args[0])
		}, func(st questions.State) string {
			if q, _ := st.Question(args[0]); q.IsSaved {
				return "Question " + args[0] + " saved for later."
			}
			return "Question " + args[0] + " removed from saved."
		})
	},
}

var noteCmd = &cobra.Command{
	Use:   "note <id> [text...]",
	Short: "Set the note of a question; no text clears it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args[1:], " ")
		return annotate(cmd, args[0], func(c *questions.Container) (questions.State, record.Outcome) {
			return c.UpdateNote(cmd.Context(), args[0], text)
		}, func(st questions.State) string {
			if q, _ := st.Question(args[0]); q.Note != "" {
				return "Note saved for question " + args[0] + "."
			}
			return "Note cleared for question " + args[0] + "."
		})
	},
}

// annotate applies an annotation action. An unknown ID is reported and is
// not an error.
func annotate(cmd *cobra.Command, id string, apply func(*questions.Container) (questions.State, record.Outcome), describe func(questions.State) string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if _, ok := a.Questions.State().Question(id); !ok {
		fmt.Fprintf(out, "No question with ID %q.\n", id)
		return nil
	}

	st, res := apply(a.Questions)
	fmt.Fprintln(out, describe(st))
	warnNotSaved(cmd.ErrOrStderr(), "change", res)
	return nil
}

// warnNotSaved reports a failed write. Write failures never fail a command.
func warnNotSaved(w io.Writer, what string, res record.Outcome) {
	if !res.OK() {
		fmt.Fprintf(w, "warning: %s not saved: %v\n", what, res.Err)
	}
}
