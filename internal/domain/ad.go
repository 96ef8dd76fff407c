package domain

// EfficiencyTier grades an ad's CPA relative to the account median.
type EfficiencyTier string

const (
	EfficiencyNoData        EfficiencyTier = "NO_DATA"
	EfficiencyVeryEfficient EfficiencyTier = "VERY_EFFICIENT"
	EfficiencyEfficient     EfficiencyTier = "EFFICIENT"
	EfficiencyNormal        EfficiencyTier = "NORMAL"
	EfficiencyExpensive     EfficiencyTier = "EXPENSIVE"
)

// ActivityState describes what an ad did in the most recent 7-day window.
type ActivityState string

const (
	ActivityActive   ActivityState = "ACTIVE"
	ActivitySpending ActivityState = "SPENDING"
	ActivityInactive ActivityState = "INACTIVE"
	ActivityNoData7D ActivityState = "NO_DATA_7D"
)

// TrendState compares the 7-day daily rate against the 30-day daily rate.
type TrendState string

const (
	TrendNoData    TrendState = "NO_DATA"
	TrendNew       TrendState = "NEW"
	TrendAscending TrendState = "ASCENDING"
	TrendStable    TrendState = "STABLE"
	TrendDeclining TrendState = "DECLINING"
	TrendCritical  TrendState = "CRITICAL"
)

// Classification is the final verdict that drives recommendations.
type Classification string

const (
	ClassHero    Classification = "HERO"
	ClassHealthy Classification = "HEALTHY"
	ClassAlert   Classification = "ALERT"
	ClassDead    Classification = "DEAD"
)

// Objective is the detected campaign objective, used to select the
// weight profile for the normalized score.
type Objective string

const (
	ObjectiveMessaging  Objective = "messaging"
	ObjectiveTraffic    Objective = "traffic"
	ObjectiveEngagement Objective = "engagement"
	ObjectiveLeads      Objective = "leads"
	ObjectiveSales      Objective = "sales"
	ObjectiveGeneral    Objective = "general"
)

// AllObjectives returns every detectable objective.
func AllObjectives() []Objective {
	return []Objective{
		ObjectiveMessaging,
		ObjectiveTraffic,
		ObjectiveEngagement,
		ObjectiveLeads,
		ObjectiveSales,
		ObjectiveGeneral,
	}
}

// Ad is one advertisement row for a single reporting window, plus the
// derived fields written by the enrichment pipeline.
type Ad struct {
	Name              string `json:"ad_name"`
	Manager           string `json:"manager,omitempty"`
	DeclaredObjective string `json:"declared_objective,omitempty"`
	Period            string `json:"period,omitempty"` // set on historical rows only

	// Raw counters. Missing columns are coerced to 0 at the loader
	// boundary; the enrichment pipeline never re-validates them.
	Spend           float64 `json:"spend"`
	Results         float64 `json:"results"`
	MsgInit         float64 `json:"msg_init"`
	MsgContacts     float64 `json:"msg_contacts"`
	LinkClicks      float64 `json:"link_clicks"`
	IGProfile       float64 `json:"ig_profile"`
	Leads           float64 `json:"leads"`
	Purchases       float64 `json:"purchases"`
	Interactions    float64 `json:"interactions"`
	VideoViews      float64 `json:"video_views"`
	ThruPlays       float64 `json:"thruplay"`
	Reach           float64 `json:"reach"`
	Impressions     float64 `json:"impressions"`
	Frequency       float64 `json:"frequency"`
	CTR             float64 `json:"ctr"`
	CPC             float64 `json:"cpc"`
	CPM             float64 `json:"cpm"`
	CPL             float64 `json:"cpl"`
	ROAS            float64 `json:"roas"`
	ConversionValue float64 `json:"conversion_value"`

	// Derived fields, written in order by the enrichment passes.
	// CPA is nil when the ad has no conversions; "no conversions" and
	// "zero-cost conversions" must stay distinguishable or the median
	// computation is corrupted.
	Score          float64        `json:"score"`
	CPA            *float64       `json:"cpa"`
	Efficiency     EfficiencyTier `json:"efficiency"`
	Score7d        float64        `json:"score_7d"`
	Spend7d        float64        `json:"spend_7d"`
	Activity       ActivityState  `json:"activity"`
	Trend          TrendState     `json:"trend"`
	TrendRatio     float64        `json:"trend_ratio"`
	Score100       float64        `json:"score_100"`
	Objective      Objective      `json:"objective"`
	Classification Classification `json:"classification"`
}

// CPAValue returns the ad's CPA and whether it is defined.
func (a *Ad) CPAValue() (float64, bool) {
	if a.CPA == nil {
		return 0, false
	}
	return *a.CPA, true
}

// Metric looks up a metric by its normalized column name. Undefined CPA
// reads as 0, matching how the normalized score treats missing costs.
func (a *Ad) Metric(name string) float64 {
	switch name {
	case "spend":
		return a.Spend
	case "results":
		return a.Results
	case "msg_init":
		return a.MsgInit
	case "msg_contacts":
		return a.MsgContacts
	case "link_clicks":
		return a.LinkClicks
	case "ig_profile":
		return a.IGProfile
	case "leads":
		return a.Leads
	case "purchases":
		return a.Purchases
	case "interactions":
		return a.Interactions
	case "video_views":
		return a.VideoViews
	case "thruplay":
		return a.ThruPlays
	case "reach":
		return a.Reach
	case "impressions":
		return a.Impressions
	case "frequency":
		return a.Frequency
	case "ctr":
		return a.CTR
	case "cpc":
		return a.CPC
	case "cpm":
		return a.CPM
	case "cpl":
		return a.CPL
	case "roas":
		return a.ROAS
	case "conversion_value":
		return a.ConversionValue
	case "score":
		return a.Score
	case "score_7d":
		return a.Score7d
	case "cpa":
		if a.CPA == nil {
			return 0
		}
		return *a.CPA
	default:
		return 0
	}
}

// CostMetrics are the lower-is-better metrics; the normalized score
// inverts them.
var CostMetrics = map[string]bool{
	"cpa": true,
	"cpc": true,
	"cpl": true,
	"cpm": true,
}

// AdSet is the full collection of ads for one client and one reporting
// window, together with the aggregate every per-row efficiency decision
// depends on.
type AdSet struct {
	Client    string  `json:"client"`
	Window    string  `json:"window"`
	Ads       []Ad    `json:"ads"`
	MedianCPA float64 `json:"median_cpa"`
}

// Empty reports whether the set has no ads.
func (s *AdSet) Empty() bool {
	return s == nil || len(s.Ads) == 0
}

// ByName indexes the set's ads by name. Names are not guaranteed unique
// across files; the first occurrence wins.
func (s *AdSet) ByName() map[string]*Ad {
	out := make(map[string]*Ad, len(s.Ads))
	for i := range s.Ads {
		ad := &s.Ads[i]
		if _, ok := out[ad.Name]; !ok {
			out[ad.Name] = ad
		}
	}
	return out
}
