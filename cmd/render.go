package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/rotar1/rota/internal/catalog"
	"github.com/rotar1/rota/internal/record"
	"github.com/rotar1/rota/internal/stats"
	"github.com/rotar1/rota/internal/ui/components"
	"github.com/rotar1/rota/internal/ui/theme"
)

const barWidth = 40

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Title.PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})
}

// marks renders the favorite and saved flags of q.
func marks(q catalog.Question) string {
	var b strings.Builder
	if q.IsFavorited {
		b.WriteString(theme.Favorite.Render("★"))
	}
	if q.IsSaved {
		b.WriteString(theme.Saved.Render("⚑"))
	}
	if q.Note != "" {
		b.WriteString(theme.Hint.Render("✎"))
	}
	return b.String()
}

func printQuestionList(w io.Writer, qs []catalog.Question, st map[string]record.AttemptStatistic) {
	if len(qs) == 0 {
		fmt.Fprintln(w, "No questions match.")
		return
	}

	t := newTable("ID", "Area", "Theme", "Faculty", "Year", "", "Attempts")
	for _, q := range qs {
		attempts := "-"
		if s, ok := st[q.ID]; ok {
			attempts = fmt.Sprintf("%d/%d", s.Correct, s.Attempts)
		}
		t.Row(q.ID, q.Area, q.Theme, q.Faculty, q.Year, marks(q), attempts)
	}
	lipgloss.Fprintln(w, t.Render())
	lipgloss.Fprintln(w, theme.Hint.Render(fmt.Sprintf("%d question(s)", len(qs))))
}

func printQuestion(w io.Writer, q catalog.Question, st record.AttemptStatistic, hasStat bool) {
	header := fmt.Sprintf("Question %s", q.ID)
	if m := marks(q); m != "" {
		header += "  " + m
	}
	lipgloss.Fprintln(w, theme.Title.Render(header))

	var meta []string
	for _, v := range []string{q.Faculty, q.Year, q.Area, q.Theme} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	if len(meta) > 0 {
		lipgloss.Fprintln(w, theme.Subtitle.Render(strings.Join(meta, " · ")))
	}

	fmt.Fprintln(w)
	lipgloss.Fprintln(w, theme.Body.Render(q.Body))
	fmt.Fprintln(w)
	for _, a := range q.Alternatives {
		fmt.Fprintf(w, "  %s) %s\n", a.ID, a.Text)
	}

	if hasStat {
		fmt.Fprintln(w)
		line := fmt.Sprintf("Answered %d time(s), %d correct (%.0f%%)",
			st.Attempts, st.Correct, stats.Percent(st.Correct, st.Attempts))
		lipgloss.Fprintln(w, theme.Hint.Render(line))
	}
	if q.Note != "" {
		fmt.Fprintln(w)
		lipgloss.Fprintln(w, theme.Card.Render("Note: "+q.Note))
	}
}

// printFeedback shows whether selected was right, then the explanations.
func printFeedback(w io.Writer, q catalog.Question, selected catalog.Alternative) {
	if selected.IsCorrect {
		lipgloss.Fprintln(w, theme.Correct.Render("✓ Correct!"))
	} else {
		msg := "✗ Wrong."
		if c, ok := q.CorrectAlternative(); ok {
			msg += fmt.Sprintf(" Answer: %s) %s", c.ID, c.Text)
		}
		lipgloss.Fprintln(w, theme.Incorrect.Render(msg))
	}
	if selected.Explanation != "" {
		fmt.Fprintf(w, "%s) %s\n", selected.ID, selected.Explanation)
	}
	if q.Explanation != "" {
		lipgloss.Fprintln(w, theme.Hint.Render("Explanation: "+q.Explanation))
	}
}

func printReport(w io.Writer, r stats.Report, weakest int) {
	if r.Overall.Attempts == 0 {
		fmt.Fprintln(w, "No answers recorded yet.")
		return
	}

	lipgloss.Fprintln(w, theme.Title.Render("Overall"))
	fmt.Fprintf(w, "%d answers, %d correct, %d wrong, %d of %d questions seen\n",
		r.Overall.Attempts, r.Overall.Correct, r.Overall.Incorrect(), r.Overall.Answered, r.Overall.Questions)
	lipgloss.Fprintln(w, components.NewProgressBar("Accuracy", r.Overall.Accuracy()/100, true, barWidth).View())

	fmt.Fprintln(w)
	lipgloss.Fprintln(w, theme.Title.Render("By area"))
	t := newTable("Area", "Questions", "Seen", "Answers", "Correct", "Accuracy")
	for _, l := range r.Areas {
		t.Row(l.Name,
			fmt.Sprint(l.Questions),
			fmt.Sprint(l.Answered),
			fmt.Sprint(l.Attempts),
			fmt.Sprint(l.Correct),
			accuracyCell(l.Attempts, l.Accuracy()))
	}
	lipgloss.Fprintln(w, t.Render())

	if weakest != 0 {
		if lines := r.Weakest(1, weakest); len(lines) > 0 {
			fmt.Fprintln(w)
			lipgloss.Fprintln(w, theme.Title.Render("Weakest themes"))
			for _, l := range lines {
				lipgloss.Fprintln(w, components.NewProgressBar(fmt.Sprintf("%-28s", truncate(l.Name, 28)), l.Accuracy()/100, true, barWidth+30).View())
			}
		}
	}

	if len(r.Questions) > 0 {
		fmt.Fprintln(w)
		lipgloss.Fprintln(w, theme.Title.Render("By question"))
		qt := newTable("ID", "Area", "Answers", "Correct", "Accuracy")
		for _, q := range r.Questions {
			qt.Row(q.QuestionID, q.Area, fmt.Sprint(q.Attempts), fmt.Sprint(q.Correct), accuracyCell(q.Attempts, q.Accuracy()))
		}
		lipgloss.Fprintln(w, qt.Render())
	}
}

func accuracyCell(attempts int, pct float64) string {
	if attempts == 0 {
		return theme.Hint.Render("-")
	}
	return theme.Accuracy(pct).Render(fmt.Sprintf("%.0f%%", pct))
}

func printExamResults(w io.Writer, results []record.ExamResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No simulated exams taken yet.")
		return
	}
	t := newTable("Date", "Name", "Score", "Accuracy", "Time")
	for _, r := range results {
		date := r.Date
		if ts, err := time.Parse(time.RFC3339, r.Date); err == nil {
			date = ts.Local().Format("2006-01-02 15:04")
		}
		pct := stats.Percent(r.CorrectAnswers, r.TotalQuestions)
		t.Row(date, r.Name,
			fmt.Sprintf("%d/%d", r.CorrectAnswers, r.TotalQuestions),
			theme.Accuracy(pct).Render(fmt.Sprintf("%.0f%%", pct)),
			formatDuration(r.TimeSpent))
	}
	lipgloss.Fprintln(w, t.Render())
}

func formatDuration(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
