// Package objective detects the real campaign objective of each ad from
// its populated metrics and the objective text Meta exported, then
// produces per-objective insight alerts.
package objective

import (
	"strings"

	"github.com/adscope/meta-ads-monitor/internal/config"
	"github.com/adscope/meta-ads-monitor/internal/domain"
)

// criteria describes the evidence that an ad belongs to one objective.
type criteria struct {
	required []string
	optional []string
	keywords []string
}

// detection is evaluated in declaration order; on a score tie the
// earlier objective wins.
var detection = []struct {
	objective domain.Objective
	criteria  criteria
}{
	{domain.ObjectiveMessaging, criteria{
		required: []string{"msg_init", "msg_contacts"},
		optional: []string{"ig_profile"},
		keywords: []string{"message", "mensaje", "conversation", "conversacion", "whatsapp"},
	}},
	{domain.ObjectiveTraffic, criteria{
		required: []string{"link_clicks"},
		optional: []string{"ctr", "cpc", "ig_profile"},
		keywords: []string{"traffic", "trafico", "link_click", "landing"},
	}},
	{domain.ObjectiveEngagement, criteria{
		required: []string{"interactions"},
		optional: []string{"video_views", "thruplay", "ig_profile"},
		keywords: []string{"engagement", "interaccion", "post_engagement", "video_view"},
	}},
	{domain.ObjectiveLeads, criteria{
		required: []string{"leads"},
		optional: []string{"cpl", "link_clicks"},
		keywords: []string{"lead", "registro", "form"},
	}},
	{domain.ObjectiveSales, criteria{
		required: []string{"purchases"},
		optional: []string{"roas", "conversion_value"},
		keywords: []string{"sale", "venta", "purchase", "catalog"},
	}},
}

// minScore is the confidence floor: anything weaker falls back to the
// general profile.
const minScore = 10.0

// Detect scores every known objective against one ad and returns the
// best match. Evidence weights: all required metrics populated +50,
// a partial set +20 scaled by the fraction present, each populated
// optional metric +5, a keyword hit in the declared objective +30.
func Detect(ad *domain.Ad) domain.Objective {
	declared := strings.ToLower(ad.DeclaredObjective)

	best := domain.ObjectiveGeneral
	bestScore := 0.0

	for _, d := range detection {
		score := 0.0

		present := 0
		for _, col := range d.criteria.required {
			if ad.Metric(col) > 0 {
				present++
			}
		}
		if n := len(d.criteria.required); n > 0 && present == n {
			score += 50
		} else if present > 0 {
			score += 20 * float64(present) / float64(len(d.criteria.required))
		}

		for _, col := range d.criteria.optional {
			if ad.Metric(col) > 0 {
				score += 5
			}
		}

		for _, kw := range d.criteria.keywords {
			if strings.Contains(declared, kw) {
				score += 30
				break
			}
		}

		if score > bestScore {
			bestScore = score
			best = d.objective
		}
	}

	if bestScore < minScore {
		return domain.ObjectiveGeneral
	}
	return best
}

// ClassifyPass assigns a detected objective to every ad in the set.
func ClassifyPass(set *domain.AdSet) {
	if set == nil {
		return
	}
	for i := range set.Ads {
		set.Ads[i].Objective = Detect(&set.Ads[i])
	}
}

// InsightKind separates warnings from critical findings.
type InsightKind string

const (
	InsightAlert    InsightKind = "alert"
	InsightCritical InsightKind = "critical"
)

// Insight is one finding over the ads sharing an objective.
type Insight struct {
	Kind        InsightKind `json:"kind"`
	Message     string      `json:"message"`
	AdsAffected int         `json:"ads_affected"`
}

// Insights inspects the ads of one objective for known failure modes:
// saturated audiences on messaging campaigns, weak CTR on traffic,
// clicks that never become leads.
func Insights(set *domain.AdSet, obj domain.Objective, cfg config.AnomalyConfig) []Insight {
	var ads []*domain.Ad
	for i := range set.Ads {
		if set.Ads[i].Objective == obj {
			ads = append(ads, &set.Ads[i])
		}
	}
	if len(ads) == 0 {
		return nil
	}

	var out []Insight
	switch obj {
	case domain.ObjectiveMessaging:
		saturated := 0
		burning := 0
		for _, ad := range ads {
			if ad.Frequency > cfg.FrequencyHigh {
				saturated++
			}
			if ad.Spend > 1000 && ad.MsgInit == 0 {
				burning++
			}
		}
		if saturated > 0 {
			out = append(out, Insight{InsightAlert,
				"High frequency suggests a saturated audience", saturated})
		}
		if burning > 0 {
			out = append(out, Insight{InsightCritical,
				"Significant spend without a single conversation started", burning})
		}

	case domain.ObjectiveTraffic:
		weak := 0
		for _, ad := range ads {
			if ad.CTR < cfg.CTRLow {
				weak++
			}
		}
		if weak > 0 {
			out = append(out, Insight{InsightAlert,
				"CTR below the acceptable floor", weak})
		}

	case domain.ObjectiveLeads:
		leaky := 0
		for _, ad := range ads {
			if ad.LinkClicks > 50 && ad.Leads == 0 {
				leaky++
			}
		}
		if leaky > 0 {
			out = append(out, Insight{InsightAlert,
				"Clicks are not converting into leads", leaky})
		}
	}
	return out
}
