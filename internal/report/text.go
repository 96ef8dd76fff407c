package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/osteele/liquid"
)

// textTemplate is the operator-facing plain text report. Rendering
// happens over the JSON form of the report so field names match the
// dashboard document.
const textTemplate = `============================================================
 META ADS REPORT - {{ client }}
 Generated: {{ generated_at }}
 Run: {{ run_id }}
============================================================

ACCOUNT SUMMARY
  Total spend:        {{ summary.total_spend | money }}
  Weighted score:     {{ summary.total_score | round1 }}
  Global CPA:         {{ summary.global_cpa | money }}
  Median CPA:         {{ median_cpa | money }}
  Avg quality (0-100): {{ summary.avg_score_100 | round1 }}
  Ads analyzed:       {{ summary.total_ads }} ({{ summary.with_conversions }} converting)

ACTION PLAN
  Scale: {{ action_plan.total_scale }}  Pause: {{ action_plan.total_pause }}  Review: {{ action_plan.total_review }}
{% for item in action_plan.priority_actions %}  [{{ item.type }}] {{ item.ad }} - {{ item.reason }}
{% endfor %}
DUPLICATION CANDIDATES
{% unless duplicate_candidates and duplicate_candidates.size > 0 %}  No ads meet the duplication criteria.
{% endunless %}{% for c in duplicate_candidates %}  {{ forloop.index }}. {{ c.ad_name }} (priority {{ c.priority }})
     score {{ c.score | round1 }} | CPA {{ c.cpa | money }} | {{ c.activity }} | {{ c.trend }}
{% for reason in c.reasons %}     - {{ reason }}
{% endfor %}{% endfor %}
PAUSE / REVIEW
{% unless actions and actions.size > 0 %}  Nothing to pause or review.
{% endunless %}{% for a in actions %}  [{{ a.priority }}] {{ a.type }} {{ a.ad_name }}
     {{ a.reason }}
     -> {{ a.suggested_action }}
{% endfor %}
ANOMALIES
{% unless anomalies and anomalies.size > 0 %}  None detected.
{% endunless %}{% for an in anomalies %}  [{{ an.severity }}] {{ an.ad_name }}: {{ an.message }}
{% endfor %}
TOP IMPACT
{% for e in rankings.impact %}  {{ forloop.index }}. {{ e.ad_name }} - score {{ e.score | round1 }}, spend {{ e.spend | money }}
{% endfor %}
TOP EFFICIENCY
{% unless rankings.efficiency and rankings.efficiency.size > 0 %}  No ads with enough conversions.
{% endunless %}{% for e in rankings.efficiency %}  {{ forloop.index }}. {{ e.ad_name }} - CPA {{ e.cpa | money }}
{% endfor %}{% if historical %}
HISTORY
{% for p in historical %}  {{ p.period }}: score {{ p.score | round1 }}, spend {{ p.spend | money }}, CPA {{ p.cpa | money }} ({{ p.ads }} ads)
{% endfor %}{% endif %}
============================================================
`

// TextRenderer renders the plain text report with a cached Liquid
// engine.
type TextRenderer struct {
	engine *liquid.Engine
}

// NewTextRenderer creates a renderer with the report's number filters
// registered.
func NewTextRenderer() *TextRenderer {
	engine := liquid.NewEngine()

	engine.RegisterFilter("money", func(value interface{}) string {
		return fmt.Sprintf("$%.0f", toFloat(value))
	})
	engine.RegisterFilter("round1", func(value interface{}) string {
		return fmt.Sprintf("%.1f", toFloat(value))
	})
	engine.RegisterFilter("pct", func(value interface{}) string {
		return fmt.Sprintf("%.1f%%", toFloat(value))
	})

	return &TextRenderer{engine: engine}
}

func toFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case nil:
		return 0
	default:
		return 0
	}
}

// Render produces the report text.
func (t *TextRenderer) Render(r *Report) (string, error) {
	bindings, err := bindingsFor(r)
	if err != nil {
		return "", err
	}
	out, err := t.engine.ParseAndRenderString(textTemplate, bindings)
	if err != nil {
		return "", fmt.Errorf("rendering text report: %w", err)
	}
	return out, nil
}

// WriteText renders the report and writes it under dir. Returns the
// full path written.
func (t *TextRenderer) WriteText(r *Report, dir string) (string, error) {
	out, err := t.Render(r)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}
	path := filepath.Join(dir, TextFilename(r.Client))
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("writing text report: %w", err)
	}
	return path, nil
}

// bindingsFor exposes the report to Liquid through its JSON form, so
// template variables share names with the dashboard document.
func bindingsFor(r *Report) (map[string]interface{}, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("preparing template bindings: %w", err)
	}
	var bindings map[string]interface{}
	if err := json.Unmarshal(data, &bindings); err != nil {
		return nil, fmt.Errorf("preparing template bindings: %w", err)
	}
	return bindings, nil
}
