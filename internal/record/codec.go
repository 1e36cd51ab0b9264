package record

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Top-level field names in the persisted document.
const (
	fieldFavorites  = "favorites"
	fieldSaved      = "saved"
	fieldNotes      = "notes"
	fieldStatistics = "statistics"
)

// Decode parses a persisted document. Fields with an unexpected shape are
// treated as empty; only text that is not a JSON object is corrupt.
func Decode(raw string) (Record, error) {
	if !gjson.Valid(raw) {
		return Record{}, &CorruptError{Err: errors.New("invalid JSON")}
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return Record{}, &CorruptError{Err: fmt.Errorf("top-level %s is not an object", doc.Type)}
	}

	r := Empty()
	r.Favorites = decodeIDs(doc.Get(fieldFavorites))
	r.Saved = decodeIDs(doc.Get(fieldSaved))
	r.Notes = decodeNotes(doc.Get(fieldNotes))
	r.Statistics = decodeStatistics(doc.Get(fieldStatistics))
	return r, nil
}

// Encode merges r into base and returns the full document. Fields of base
// that Record does not model are preserved. A base that is empty or not a
// JSON object is replaced by a fresh object.
func Encode(base string, r Record) (string, error) {
	doc := base
	if !gjson.Valid(doc) || !gjson.Parse(doc).IsObject() {
		doc = "{}"
	}

	fields := []struct {
		path  string
		value any
	}{
		{fieldFavorites, nonNilIDs(r.Favorites)},
		{fieldSaved, nonNilIDs(r.Saved)},
		{fieldNotes, nonEmptyNotes(r.Notes)},
		{fieldStatistics, nonNilStats(r.Statistics)},
	}
	for _, f := range fields {
		raw, err := json.Marshal(f.value)
		if err != nil {
			return "", fmt.Errorf("marshal %s: %w", f.path, err)
		}
		doc, err = sjson.SetRaw(doc, f.path, string(raw))
		if err != nil {
			return "", fmt.Errorf("set %s: %w", f.path, err)
		}
	}
	return doc, nil
}

func decodeIDs(v gjson.Result) []string {
	ids := []string{}
	if !v.IsArray() {
		return ids
	}
	seen := make(map[string]bool)
	v.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String && !seen[item.Str] {
			seen[item.Str] = true
			ids = append(ids, item.Str)
		}
		return true
	})
	return ids
}

// decodeNotes accepts the current map form and the older array form
// [{"questionId": "...", "note": "...", "timestamp": 0}].
func decodeNotes(v gjson.Result) map[string]string {
	notes := map[string]string{}
	switch {
	case v.IsObject():
		v.ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.String && value.Str != "" {
				notes[key.String()] = value.Str
			}
			return true
		})
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			id := item.Get("questionId")
			note := item.Get("note")
			if id.Type != gjson.String || note.Type != gjson.String {
				return true
			}
			if note.Str == "" {
				delete(notes, id.Str)
			} else {
				notes[id.Str] = note.Str
			}
			return true
		})
	}
	return notes
}

// decodeStatistics keeps entries shaped like {"attempts": n, "correct": m}
// with 0 <= m <= n. The older aggregate form (totalAnswered, areaStats, ...)
// contributes nothing.
func decodeStatistics(v gjson.Result) map[string]AttemptStatistic {
	stats := map[string]AttemptStatistic{}
	if !v.IsObject() {
		return stats
	}
	v.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		attempts := value.Get("attempts")
		if attempts.Type != gjson.Number {
			return true
		}
		st := AttemptStatistic{
			Attempts: int(attempts.Int()),
			Correct:  int(value.Get("correct").Int()),
		}
		if st.Correct < 0 || st.Correct > st.Attempts {
			return true
		}
		stats[key.String()] = st
		return true
	})
	return stats
}

func nonNilIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func nonEmptyNotes(notes map[string]string) map[string]string {
	out := make(map[string]string, len(notes))
	for id, n := range notes {
		if n != "" {
			out[id] = n
		}
	}
	return out
}

func nonNilStats(stats map[string]AttemptStatistic) map[string]AttemptStatistic {
	if stats == nil {
		return map[string]AttemptStatistic{}
	}
	return stats
}
