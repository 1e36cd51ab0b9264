// Package exam runs simulated exams: a named, shuffled selection of catalog
// questions answered in sequence and scored at the end.
package exam

import (
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/rotar1/rota/internal/catalog"
)

var (
	ErrNoQuestions        = errors.New("exam: no questions match the selection")
	ErrFinished           = errors.New("exam: already finished")
	ErrUnknownAlternative = errors.New("exam: unknown alternative")
)

// Config selects the questions of an exam.
type Config struct {
	Name  string
	Areas []string   // case-insensitive; empty means every area
	Count int        // 0 or more than available means all matching questions
	Rand  *rand.Rand // nil uses the global source
}

// Plan is the ordered question list of one exam.
type Plan struct {
	Name      string
	Questions []catalog.Question
}

// BuildPlan selects and shuffles questions according to cfg.
func BuildPlan(questions []catalog.Question, cfg Config) (*Plan, error) {
	var pool []catalog.Question
	for _, q := range questions {
		if matchesArea(q, cfg.Areas) {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}

	swap := func(i, j int) { pool[i], pool[j] = pool[j], pool[i] }
	if cfg.Rand != nil {
		cfg.Rand.Shuffle(len(pool), swap)
	} else {
		rand.Shuffle(len(pool), swap)
	}

	if cfg.Count > 0 && cfg.Count < len(pool) {
		pool = pool[:cfg.Count]
	}

	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "Simulado"
	}
	return &Plan{Name: name, Questions: pool}, nil
}

func matchesArea(q catalog.Question, areas []string) bool {
	if len(areas) == 0 {
		return true
	}
	for _, a := range areas {
		if (catalog.Filter{Area: a}).Match(q) {
			return true
		}
	}
	return false
}
