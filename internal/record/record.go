// Package record translates between in-memory question state and the single
// persisted JSON document that holds favorites, saved questions, notes and
// attempt statistics.
//
// The document is always rewritten in full under one key. Top-level fields
// the adapter does not model (exam history, assistant transcripts, older
// app versions' fields) are carried over unchanged on every write.
package record

import "github.com/rotar1/rota/internal/catalog"

// DefaultKey is the storage key of the persisted record.
const DefaultKey = "rota-r1-data"

// AttemptStatistic counts answers recorded for one question.
// Invariant: 0 <= Correct <= Attempts.
type AttemptStatistic struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
}

// Record is the durable projection of the question state.
type Record struct {
	Favorites  []string
	Saved      []string
	Notes      map[string]string // only non-empty notes
	Statistics map[string]AttemptStatistic
}

// Empty returns a structurally complete record with no data.
func Empty() Record {
	return Record{
		Favorites:  []string{},
		Saved:      []string{},
		Notes:      map[string]string{},
		Statistics: map[string]AttemptStatistic{},
	}
}

// Derive projects annotated questions and statistics onto a Record.
// Favorites and saved IDs follow catalog order; empty notes are omitted.
func Derive(questions []catalog.Question, stats map[string]AttemptStatistic) Record {
	r := Empty()
	for _, q := range questions {
		if q.IsFavorited {
			r.Favorites = append(r.Favorites, q.ID)
		}
		if q.IsSaved {
			r.Saved = append(r.Saved, q.ID)
		}
		if q.Note != "" {
			r.Notes[q.ID] = q.Note
		}
	}
	for id, st := range stats {
		r.Statistics[id] = st
	}
	return r
}

// Overlay copies questions and sets IsFavorited, IsSaved and Note from r.
func Overlay(questions []catalog.Question, r Record) []catalog.Question {
	favorites := toSet(r.Favorites)
	saved := toSet(r.Saved)

	out := make([]catalog.Question, len(questions))
	for i, q := range questions {
		q.IsFavorited = favorites[q.ID]
		q.IsSaved = saved[q.ID]
		q.Note = r.Notes[q.ID]
		out[i] = q
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
