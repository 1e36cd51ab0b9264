// Package stats derives display aggregates from the question state.
package stats

import (
	"sort"

	"github.com/rotar1/rota/internal/catalog"
	"github.com/rotar1/rota/internal/record"
)

// DefaultGroup is the bucket for questions without an area or theme.
const DefaultGroup = "Geral"

// Line aggregates attempts over a group of questions.
type Line struct {
	Name      string
	Questions int // questions in the group
	Answered  int // questions with at least one attempt
	Attempts  int
	Correct   int
}

// Incorrect returns the number of wrong attempts.
func (l Line) Incorrect() int {
	return l.Attempts - l.Correct
}

// Accuracy returns the correct share of attempts as a percentage.
func (l Line) Accuracy() float64 {
	return Percent(l.Correct, l.Attempts)
}

// Progress returns the answered share of questions as a percentage.
func (l Line) Progress() float64 {
	return Percent(l.Answered, l.Questions)
}

func (l *Line) add(st record.AttemptStatistic, attempted bool) {
	l.Questions++
	if attempted {
		l.Answered++
		l.Attempts += st.Attempts
		l.Correct += st.Correct
	}
}

// QuestionLine is the statistic of a single question.
type QuestionLine struct {
	QuestionID string
	Area       string
	Attempts   int
	Correct    int
}

// Accuracy returns the correct share of attempts as a percentage.
func (q QuestionLine) Accuracy() float64 {
	return Percent(q.Correct, q.Attempts)
}

// Report is the full set of aggregates for one state snapshot.
type Report struct {
	Overall   Line
	Areas     []Line         // in order of first appearance in the catalog
	Themes    []Line         // in order of first appearance in the catalog
	Questions []QuestionLine // attempted questions, most attempts first
}

// Percent returns part/whole*100, or 0 when whole is not positive.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Build aggregates statistics over the catalog questions. Statistics for
// IDs outside the catalog are ignored.
func Build(questions []catalog.Question, stats map[string]record.AttemptStatistic) Report {
	r := Report{Overall: Line{Name: "Total"}}
	areas := newGroups()
	themes := newGroups()

	for _, q := range questions {
		st, ok := stats[q.ID]
		attempted := ok && st.Attempts > 0

		r.Overall.add(st, attempted)
		areas.get(groupName(q.Area)).add(st, attempted)
		themes.get(groupName(q.Theme)).add(st, attempted)

		if attempted {
			r.Questions = append(r.Questions, QuestionLine{
				QuestionID: q.ID,
				Area:       q.Area,
				Attempts:   st.Attempts,
				Correct:    st.Correct,
			})
		}
	}

	sort.Slice(r.Questions, func(i, j int) bool {
		a, b := r.Questions[i], r.Questions[j]
		if a.Attempts != b.Attempts {
			return a.Attempts > b.Attempts
		}
		return lessID(a.QuestionID, b.QuestionID)
	})

	r.Areas = areas.lines()
	r.Themes = themes.lines()
	return r
}

// Weakest returns up to n themes with at least minAttempts attempts,
// lowest accuracy first.
func (r Report) Weakest(minAttempts, n int) []Line {
	var out []Line
	for _, l := range r.Themes {
		if l.Attempts >= minAttempts && l.Attempts > 0 {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Accuracy() < out[j].Accuracy()
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Area returns the line for an area name.
func (r Report) Area(name string) (Line, bool) {
	for _, l := range r.Areas {
		if l.Name == name {
			return l, true
		}
	}
	return Line{}, false
}

// lessID orders numeric IDs numerically ("2" before "10") and falls back
// to plain string order.
func lessID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func groupName(s string) string {
	if s == "" {
		return DefaultGroup
	}
	return s
}

// groups keeps lines keyed by name in insertion order.
type groups struct {
	order []string
	byKey map[string]*Line
}

func newGroups() *groups {
	return &groups{byKey: make(map[string]*Line)}
}

func (g *groups) get(name string) *Line {
	if l, ok := g.byKey[name]; ok {
		return l
	}
	l := &Line{Name: name}
	g.byKey[name] = l
	g.order = append(g.order, name)
	return l
}

func (g *groups) lines() []Line {
	out := make([]Line, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, *g.byKey[name])
	}
	return out
}
