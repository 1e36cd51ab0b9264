package catalog

import "fmt"

// Problem describes a structural issue in a catalog question.
type Problem struct {
	QuestionID string
	Reason     string
}

func (p Problem) String() string {
	return fmt.Sprintf("question %s: %s", p.QuestionID, p.Reason)
}

// Check reports questions that do not have exactly one correct alternative
// or that reuse an alternative ID. Problems are informational; the catalog
// is still usable.
func Check(questions []Question) []Problem {
	var problems []Problem
	for _, q := range questions {
		correct := 0
		ids := make(map[string]bool, len(q.Alternatives))
		for _, a := range q.Alternatives {
			if a.IsCorrect {
				correct++
			}
			if ids[a.ID] {
				problems = append(problems, Problem{
					QuestionID: q.ID,
					Reason:     fmt.Sprintf("duplicate alternative id %q", a.ID),
				})
			}
			ids[a.ID] = true
		}
		if correct != 1 {
			problems = append(problems, Problem{
				QuestionID: q.ID,
				Reason:     fmt.Sprintf("%d correct alternatives, want 1", correct),
			})
		}
	}
	return problems
}
