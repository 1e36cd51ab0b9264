package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/rotar1/rota/internal/exam"
	"github.com/rotar1/rota/internal/stats"
	"github.com/rotar1/rota/internal/ui/theme"
)

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Take simulated exams and review past results",
}

var examStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an interactive simulated exam",
	Long: `Start an interactive simulated exam.

Questions are drawn at random from the selected areas. Type the letter of an
alternative to answer, press enter on an empty line to skip, or type q to
finish early. Every answer counts toward your statistics.`,
	RunE: runExam,
}

var examHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past simulated exams, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.Records.ExamResults(cmd.Context())
		if err != nil {
			return fmt.Errorf("load exam history: %w", err)
		}
		printExamResults(cmd.OutOrStdout(), results)
		return nil
	},
}

func init() {
	examStartCmd.Flags().String("name", "", "Exam name (default \"Simulado\")")
	examStartCmd.Flags().StringSlice("area", nil, "Areas to draw from (repeatable; default all)")
	examStartCmd.Flags().IntP("count", "n", 10, "Number of questions (0 for all)")
	examStartCmd.Flags().Uint64("seed", 0, "Shuffle seed for a reproducible exam (0 for random)")

	examCmd.AddCommand(examStartCmd)
	examCmd.AddCommand(examHistoryCmd)
}

func runExam(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	areas, _ := cmd.Flags().GetStringSlice("area")
	count, _ := cmd.Flags().GetInt("count")
	seed, _ := cmd.Flags().GetUint64("seed")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ec := exam.Config{Name: name, Areas: areas, Count: count}
	if seed != 0 {
		ec.Rand = rand.New(rand.NewPCG(seed, seed))
	}
	plan, err := exam.BuildPlan(a.Questions.State().Questions(), ec)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	session := exam.Start(plan, a.Questions, a.Records, exam.WithLogger(logger.Named("exam")))
	scanner := bufio.NewScanner(cmd.InOrStdin())

	lipgloss.Fprintln(out, theme.Title.Render(fmt.Sprintf("%s: %d question(s)", session.Name(), session.Total())))
	fmt.Fprintln(out)

loop:
	for {
		q, ok := session.Current()
		if !ok {
			break
		}

		lipgloss.Fprintln(out, theme.Subtitle.Render(fmt.Sprintf("── Question %d/%d ── %s", session.Position(), session.Total(), q.Area)))
		fmt.Fprintln(out, q.Body)
		for _, alt := range q.Alternatives {
			fmt.Fprintf(out, "  %s) %s\n", alt.ID, alt.Text)
		}
		shown := time.Now()

		for {
			fmt.Fprint(out, "\nYour answer: ")
			if !scanner.Scan() {
				fmt.Fprintln(out, "\n(input closed)")
				break loop
			}
			input := strings.TrimSpace(scanner.Text())
			switch strings.ToLower(input) {
			case "q":
				break loop
			case "":
				_ = session.Skip()
				fmt.Fprintln(out, "(skipped)")
				fmt.Fprintln(out)
				continue loop
			}

			fb, err := session.Answer(ctx, input, time.Since(shown))
			if errors.Is(err, exam.ErrUnknownAlternative) {
				fmt.Fprintf(out, "No alternative %q; choose one of the letters above.\n", input)
				continue
			}
			if err != nil {
				return err
			}
			printFeedback(out, fb.Question, fb.Selected)
			fmt.Fprintln(out)
			break
		}
	}

	res, err := session.Finish(ctx)
	pct := stats.Percent(res.CorrectAnswers, res.TotalQuestions)
	lipgloss.Fprintln(out, theme.Title.Render(fmt.Sprintf("── Summary: %d/%d correct ──", res.CorrectAnswers, res.TotalQuestions)))
	lipgloss.Fprintln(out, theme.Accuracy(pct).Render(fmt.Sprintf("%.0f%%", pct)), theme.Hint.Render("in "+formatDuration(res.TimeSpent)))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: exam result not saved:", err)
	}
	return nil
}
