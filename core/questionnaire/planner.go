// Package questionnaire plans the clarifying questions asked before an
// estimate is produced.
//
// A plan always holds between MinQuestions and the configured cap: the
// per-type base list, then one follow-up per mapped missing field, then up
// to three historically common questions, deduplicated by string equality
// and padded from the generic list when too short.
package questionnaire

import (
	"sow-estimator/core/catalog"
	"sow-estimator/core/types"
)

const (
	// MinQuestions is the smallest plan ever returned
	MinQuestions = 3

	// MaxQuestions is the default plan cap
	MaxQuestions = 7

	// MaxHistorical caps the historically mined questions appended
	MaxHistorical = 3
)

// Planner produces ordered, deduplicated question plans
type Planner struct {
	catalog *catalog.Catalog

	// cap is the plan length limit, MaxQuestions unless configured lower
	cap int
}

// Option configures a Planner
type Option func(*Planner)

// WithCap lowers the plan length limit (e.g. 6 when historical questions
// are not drawn from base+specific pools)
func WithCap(cap int) Option {
	return func(p *Planner) {
		if cap >= MinQuestions {
			p.cap = cap
		}
	}
}

// NewPlanner creates a planner over the given catalog
func NewPlanner(c *catalog.Catalog, opts ...Option) *Planner {
	p := &Planner{catalog: c, cap: MaxQuestions}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan builds the question list for a project type, its missing fields,
// and the historically common questions of similar past projects.
func (p *Planner) Plan(projectType types.ProjectType, missingFields []string, historical []string) []string {
	questions := []string{}
	seen := make(map[string]bool)

	appendUnique := func(q string) {
		if q == "" || seen[q] {
			return
		}
		questions = append(questions, q)
		seen[q] = true
	}

	for _, q := range p.catalog.BaseQuestions[projectType] {
		appendUnique(q)
	}

	// One follow-up per mapped missing field; unmapped fields are skipped
	for _, field := range missingFields {
		if q, ok := p.catalog.FieldQuestions[field]; ok {
			appendUnique(q)
		}
	}

	added := 0
	for _, q := range historical {
		if added >= MaxHistorical {
			break
		}
		if !seen[q] && q != "" {
			appendUnique(q)
			added++
		}
	}

	if len(questions) > p.cap {
		questions = questions[:p.cap]
	}

	// Pad from the generic pool so a plan never falls below the minimum
	for _, q := range p.catalog.GenericQuestions {
		if len(questions) >= MinQuestions {
			break
		}
		appendUnique(q)
	}

	return questions
}
