package catalog

import (
	"errors"
	"slices"
)

// ErrUnknownQuestion is returned when a question ID is not in the catalog.
var ErrUnknownQuestion = errors.New("unknown question")

// Alternative is one selectable answer option within a Question.
type Alternative struct {
	ID          string `json:"id"` // single letter, a-e
	Text        string `json:"text"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation,omitempty"`
}

// Question is a multiple-choice exam item. The catalog fields are static;
// IsFavorited, IsSaved and Note are user annotations overlaid at startup
// and changed only through the question state container.
type Question struct {
	ID           string        `json:"id"`
	Faculty      string        `json:"faculty,omitempty"`
	Year         string        `json:"year,omitempty"`
	Area         string        `json:"area,omitempty"`
	Theme        string        `json:"theme,omitempty"`
	Body         string        `json:"question"`
	Alternatives []Alternative `json:"alternatives"`
	Explanation  string        `json:"explanation,omitempty"`

	IsFavorited bool   `json:"-"`
	IsSaved     bool   `json:"-"`
	Note        string `json:"-"`
}

// Clone returns a copy of q that shares no slices with it.
func (q Question) Clone() Question {
	q.Alternatives = slices.Clone(q.Alternatives)
	return q
}

// Alternative returns the alternative with the given ID.
func (q Question) Alternative(id string) (Alternative, bool) {
	for _, a := range q.Alternatives {
		if a.ID == id {
			return a, true
		}
	}
	return Alternative{}, false
}

// CorrectAlternative returns the first alternative flagged as correct.
func (q Question) CorrectAlternative() (Alternative, bool) {
	for _, a := range q.Alternatives {
		if a.IsCorrect {
			return a, true
		}
	}
	return Alternative{}, false
}
