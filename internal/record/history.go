package record

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const fieldExamResults = "simuladoResults"

// ExamAnswer is one answered question inside an exam result.
type ExamAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
	TimeSpent      int    `json:"timeSpent"` // seconds
}

// ExamResult is a finished simulated exam as kept in the record's exam
// history.
type ExamResult struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Date             string       `json:"date"` // RFC 3339
	TotalQuestions   int          `json:"totalQuestions"`
	CorrectAnswers   int          `json:"correctAnswers"`
	IncorrectAnswers int          `json:"incorrectAnswers"`
	TimeSpent        int          `json:"timeSpent"` // seconds
	Questions        []ExamAnswer `json:"questions"`
}

// AppendExamResult appends res to the exam history, leaving every other
// field of the document untouched.
func (a *Adapter) AppendExamResult(ctx context.Context, res ExamResult) error {
	base, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return &StoreError{Op: "read", Key: a.key, Err: err}
	}
	if !ok || !gjson.Valid(base) || !gjson.Parse(base).IsObject() {
		base = "{}"
	}

	var items []json.RawMessage
	existing := gjson.Get(base, fieldExamResults)
	if existing.IsArray() {
		existing.ForEach(func(_, item gjson.Result) bool {
			items = append(items, json.RawMessage(item.Raw))
			return true
		})
	}

	entry, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal exam result: %w", err)
	}
	items = append(items, entry)

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal exam history: %w", err)
	}
	doc, err := sjson.SetRaw(base, fieldExamResults, string(raw))
	if err != nil {
		return fmt.Errorf("set exam history: %w", err)
	}

	if err := a.kv.Set(ctx, a.key, doc); err != nil {
		return &StoreError{Op: "write", Key: a.key, Err: err}
	}
	return nil
}

// ExamResults returns the stored exam history, newest first. Malformed
// entries are skipped.
func (a *Adapter) ExamResults(ctx context.Context) ([]ExamResult, error) {
	raw, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return nil, &StoreError{Op: "read", Key: a.key, Err: err}
	}
	if !ok || !gjson.Valid(raw) {
		return nil, nil
	}

	var results []ExamResult
	history := gjson.Get(raw, fieldExamResults)
	if !history.IsArray() {
		return nil, nil
	}
	history.ForEach(func(_, item gjson.Result) bool {
		var res ExamResult
		if err := json.Unmarshal([]byte(item.Raw), &res); err == nil {
			results = append(results, res)
		}
		return true
	})

	sort.SliceStable(results, func(i, j int) bool {
		return parseDate(results[i].Date).After(parseDate(results[j].Date))
	})
	return results, nil
}

func parseDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
