// Package recommend turns an enriched, classified ad collection into
// concrete operator actions: which ads to duplicate and scale, which to
// pause or review, and why the best of the rest did not qualify.
package recommend

import (
	"fmt"
	"sort"

	"github.com/adscope/meta-ads-monitor/internal/config"
	"github.com/adscope/meta-ads-monitor/internal/domain"
)

// ActionType is the kind of intervention an action asks for.
type ActionType string

const (
	ActionPause  ActionType = "PAUSE"
	ActionReview ActionType = "REVIEW"
	ActionScale  ActionType = "SCALE"
)

// Priority orders actions for the operator.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Candidate is an ad recommended for duplication, with the audit trail
// that justifies it.
type Candidate struct {
	Name           string                `json:"ad_name"`
	Score          float64               `json:"score"`
	Score100       float64               `json:"score_100"`
	CPA            float64               `json:"cpa"`
	Spend          float64               `json:"spend"`
	Activity       domain.ActivityState  `json:"activity"`
	Trend          domain.TrendState     `json:"trend"`
	Classification domain.Classification `json:"classification"`
	Score7d        float64               `json:"score_7d"`
	Reasons        []string              `json:"reasons"`
	Priority       int                   `json:"priority"`
	Playbook       []string              `json:"playbook"`
}

// Action is a pause or review recommendation for a single ad.
type Action struct {
	Type      ActionType `json:"type"`
	Priority  Priority   `json:"priority"`
	Name      string     `json:"ad_name"`
	Reason    string     `json:"reason"`
	Detail    string     `json:"detail"`
	Suggested string     `json:"suggested_action"`
}

// NonCandidate explains why a high-scoring ad failed the duplication
// criteria. Purely explanatory.
type NonCandidate struct {
	Name     string               `json:"ad_name"`
	Score    float64              `json:"score"`
	CPA      *float64             `json:"cpa"`
	Activity domain.ActivityState `json:"activity"`
	Trend    domain.TrendState    `json:"trend"`
	Problems []string             `json:"problems"`
}

// Summary is the executive digest placed at the top of every report.
type Summary struct {
	TotalScale      int             `json:"total_scale"`
	TotalPause      int             `json:"total_pause"`
	TotalReview     int             `json:"total_review"`
	PriorityActions []SummaryAction `json:"priority_actions"`
}

// SummaryAction is one line of the executive digest.
type SummaryAction struct {
	Type   ActionType `json:"type"`
	Ad     string     `json:"ad"`
	Reason string     `json:"reason"`
}

// scalePlaybook is the fixed checklist attached to every duplication
// candidate. Duplicating the creative itself resets its social proof,
// so the playbook always swaps it.
var scalePlaybook = []string{
	"Duplicate the ad set configuration and audience, not the creative",
	"Use a fresh image or video not running in other campaigns",
	"Keep the same targeting",
	"Start with the same budget as the original",
}

// Engine produces recommendations from enriched collections using an
// immutable threshold table.
type Engine struct {
	thresholds config.ThresholdConfig
}

// NewEngine creates a recommendation engine from the run configuration.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{thresholds: cfg.Thresholds}
}

// DuplicateCandidates returns up to 5 ads worth duplicating, ordered by
// priority then score. An ad qualifies when its volume clears the
// minimum, its CPA sits at or under the allowed ratio of the median,
// and it showed recent activity (or there is no 7-day data to hold
// against it).
func (e *Engine) DuplicateCandidates(set *domain.AdSet, medianCPA float64) []Candidate {
	var candidates []Candidate

	for i := range set.Ads {
		ad := &set.Ads[i]
		cpa, cpaValid := ad.CPAValue()
		cpaValid = cpaValid && cpa > 0

		meetsScore := ad.Score >= e.thresholds.DuplicateScoreMin
		meetsCPA := cpaValid && cpa <= medianCPA*e.thresholds.DuplicateCPARatioMax
		meetsActivity := ad.Activity == domain.ActivityActive ||
			ad.Activity == domain.ActivitySpending ||
			ad.Activity == domain.ActivityNoData7D

		if !meetsScore || !meetsCPA || !meetsActivity {
			continue
		}

		c := Candidate{
			Name:           ad.Name,
			Score:          ad.Score,
			Score100:       ad.Score100,
			CPA:            cpa,
			Spend:          ad.Spend,
			Activity:       ad.Activity,
			Trend:          ad.Trend,
			Classification: ad.Classification,
			Score7d:        ad.Score7d,
			Playbook:       scalePlaybook,
		}

		if ad.Score >= 20 {
			c.addReason(3, fmt.Sprintf("HIGH VOLUME: %.0f weighted conversions", ad.Score))
		} else {
			c.addReason(1, fmt.Sprintf("GOOD VOLUME: %.0f weighted conversions", ad.Score))
		}

		switch {
		case cpa <= medianCPA*0.7:
			saving := (1 - cpa/medianCPA) * 100
			c.addReason(3, fmt.Sprintf("VERY EFFICIENT: CPA %.0f (%.0f%% below median)", cpa, saving))
		case cpa <= medianCPA:
			c.addReason(2, fmt.Sprintf("EFFICIENT: CPA %.0f (under median)", cpa))
		default:
			c.addReason(1, fmt.Sprintf("ACCEPTABLE CPA: %.0f", cpa))
		}

		if ad.Activity == domain.ActivityActive {
			c.addReason(2, fmt.Sprintf("ACTIVE: %.1f conversions in the last 7 days", ad.Score7d))
		}
		if ad.Trend == domain.TrendAscending {
			c.addReason(2, "POSITIVE TREND: performance is accelerating")
		}
		if ad.Classification == domain.ClassHero {
			c.addReason(3, "CLASSIFIED HERO: exceptional all-round performance")
		}

		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > 5 {
		candidates = candidates[:5]
	}
	return candidates
}

func (c *Candidate) addReason(bonus int, reason string) {
	c.Priority += bonus
	c.Reasons = append(c.Reasons, reason)
}

// PauseActions returns the pause and review recommendations, HIGH
// priority first. Rules are mutually exclusive per ad: only the first
// matching rule fires.
func (e *Engine) PauseActions(set *domain.AdSet, medianCPA float64) []Action {
	var actions []Action

	for i := range set.Ads {
		ad := &set.Ads[i]
		cpa, cpaValid := ad.CPAValue()
		cpaValid = cpaValid && cpa > 0
		cpaTooHigh := cpaValid && cpa > medianCPA*e.thresholds.PauseCPARatio

		switch {
		case ad.Score == 0 && ad.Spend > e.thresholds.PauseSpendMin:
			actions = append(actions, Action{
				Type:      ActionPause,
				Priority:  PriorityHigh,
				Name:      ad.Name,
				Reason:    fmt.Sprintf("Spent %.0f without a single conversion", ad.Spend),
				Detail:    "Consuming budget with no results",
				Suggested: "Pause immediately",
			})

		case ad.Classification == domain.ClassDead && ad.Spend7d > 0:
			actions = append(actions, Action{
				Type:      ActionPause,
				Priority:  PriorityHigh,
				Name:      ad.Name,
				Reason:    fmt.Sprintf("Dead ad still spending (%.0f in the last 7 days)", ad.Spend7d),
				Detail:    "No performance but still consuming budget",
				Suggested: "Pause and reallocate the budget",
			})

		case cpaTooHigh && (ad.Trend == domain.TrendDeclining || ad.Trend == domain.TrendCritical):
			ratio := cpa / medianCPA
			actions = append(actions, Action{
				Type:      ActionReview,
				Priority:  PriorityMedium,
				Name:      ad.Name,
				Reason:    fmt.Sprintf("CPA %.0f is %.1fx the median and falling", cpa, ratio),
				Detail:    fmt.Sprintf("Trend: %s", ad.Trend),
				Suggested: "Lower the bid 20% or pause if it does not improve in 3 days",
			})

		case ad.Activity == domain.ActivitySpending && cpaTooHigh:
			actions = append(actions, Action{
				Type:      ActionReview,
				Priority:  PriorityMedium,
				Name:      ad.Name,
				Reason:    fmt.Sprintf("Spending without converting, high CPA (%.0f)", cpa),
				Detail:    "No conversions in the last 7 days",
				Suggested: "Review targeting and creative",
			})
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return priorityRank[actions[i].Priority] < priorityRank[actions[j].Priority]
	})
	return actions
}

// NonCandidates explains, for the 5 best-scoring ads that failed the
// duplication filter, which criteria they missed. Runs only over ads
// with at least one identifiable problem.
func (e *Engine) NonCandidates(set *domain.AdSet, medianCPA float64) []NonCandidate {
	excluded := make(map[string]bool)
	for _, c := range e.DuplicateCandidates(set, medianCPA) {
		excluded[c.Name] = true
	}

	rest := make([]*domain.Ad, 0, len(set.Ads))
	for i := range set.Ads {
		if !excluded[set.Ads[i].Name] {
			rest = append(rest, &set.Ads[i])
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Score > rest[j].Score
	})
	if len(rest) > 5 {
		rest = rest[:5]
	}

	var out []NonCandidate
	for _, ad := range rest {
		var problems []string

		if ad.Score < e.thresholds.DuplicateScoreMin {
			problems = append(problems,
				fmt.Sprintf("Score too low: %.1f (needs %.0f)", ad.Score, e.thresholds.DuplicateScoreMin))
		}
		if cpa, ok := ad.CPAValue(); ok && cpa > medianCPA*e.thresholds.DuplicateCPARatioMax {
			maxCPA := medianCPA * e.thresholds.DuplicateCPARatioMax
			problems = append(problems,
				fmt.Sprintf("CPA too high: %.0f (maximum %.0f)", cpa, maxCPA))
		}
		if ad.Activity == domain.ActivityInactive {
			problems = append(problems, "No activity in the last 7 days")
		}
		if ad.Trend == domain.TrendCritical || ad.Trend == domain.TrendDeclining {
			problems = append(problems, fmt.Sprintf("Negative trend: %s", ad.Trend))
		}
		if ad.Classification == domain.ClassDead {
			problems = append(problems, "Classified DEAD")
		}

		if len(problems) == 0 {
			continue
		}
		out = append(out, NonCandidate{
			Name:     ad.Name,
			Score:    ad.Score,
			CPA:      ad.CPA,
			Activity: ad.Activity,
			Trend:    ad.Trend,
			Problems: problems,
		})
	}
	return out
}

// Summarize builds the executive digest: action counts plus the 3 most
// urgent actions and the 2 best scale candidates.
func Summarize(candidates []Candidate, actions []Action) Summary {
	s := Summary{TotalScale: len(candidates)}

	for _, a := range actions {
		switch a.Type {
		case ActionPause:
			s.TotalPause++
		case ActionReview:
			s.TotalReview++
		}
	}

	for i, a := range actions {
		if i == 3 {
			break
		}
		s.PriorityActions = append(s.PriorityActions, SummaryAction{
			Type:   a.Type,
			Ad:     a.Name,
			Reason: a.Reason,
		})
	}
	for i, c := range candidates {
		if i == 2 {
			break
		}
		reason := "Strong performance"
		if len(c.Reasons) > 0 {
			reason = c.Reasons[0]
		}
		s.PriorityActions = append(s.PriorityActions, SummaryAction{
			Type:   ActionScale,
			Ad:     c.Name,
			Reason: reason,
		})
	}
	return s
}
