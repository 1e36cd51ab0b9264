package catalog

import "strings"

// Filter narrows a question list. Zero-valued fields match everything.
type Filter struct {
	Area      string // case-insensitive exact match
	Theme     string // case-insensitive exact match
	Faculty   string
	Year      string
	Search    string // case-insensitive substring of body, area or theme
	Favorited bool
	Saved     bool
}

// Match reports whether q satisfies every set field of f.
func (f Filter) Match(q Question) bool {
	if f.Area != "" && !strings.EqualFold(q.Area, f.Area) {
		return false
	}
	if f.Theme != "" && !strings.EqualFold(q.Theme, f.Theme) {
		return false
	}
	if f.Faculty != "" && q.Faculty != f.Faculty {
		return false
	}
	if f.Year != "" && q.Year != f.Year {
		return false
	}
	if f.Favorited && !q.IsFavorited {
		return false
	}
	if f.Saved && !q.IsSaved {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(q.Body), term) &&
			!strings.Contains(strings.ToLower(q.Area), term) &&
			!strings.Contains(strings.ToLower(q.Theme), term) {
			return false
		}
	}
	return true
}

// Apply returns the questions matching f, in catalog order.
func (f Filter) Apply(questions []Question) []Question {
	var out []Question
	for _, q := range questions {
		if f.Match(q) {
			out = append(out, q)
		}
	}
	return out
}

// Areas returns the distinct non-empty areas in catalog order.
func Areas(questions []Question) []string {
	return distinct(questions, func(q Question) string { return q.Area })
}

// Themes returns the distinct non-empty themes in catalog order.
func Themes(questions []Question) []string {
	return distinct(questions, func(q Question) string { return q.Theme })
}

func distinct(questions []Question, key func(Question) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range questions {
		k := key(q)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
