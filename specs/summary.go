package specs

// SummarySpec represents status counts over a scope of battery records.
//
// Summaries are recomputed on demand and never stored. An empty scope is a
// valid input and yields a zero-valued summary.
type SummarySpec struct {
	// Number of records in the scope.
	Total int `json:"total"`

	// Number of records per status.
	Reusable   int `json:"reusable"`
	Recyclable int `json:"recyclable"`
	Hazardous  int `json:"hazardous"`

	// Share of hazardous records as a percentage, as a decimal string.
	//
	// 100 * Hazardous / Total, or "0" when Total is 0. Not rounded: presentation
	// decides the displayed precision. Examples: "0", "50", "33.33333333333333333333333333333333".
	HazardPercent string `json:"hazard_percent"`
}

// WardSummarySpec is the summary of a single ward.
type WardSummarySpec struct {
	WardID  string      `json:"ward_id"`
	Zone    string      `json:"zone"`
	Summary SummarySpec `json:"summary"`
}

// ZoneSummarySpec is the summary of a single zone.
type ZoneSummarySpec struct {
	Zone    string      `json:"zone"`
	Summary SummarySpec `json:"summary"`
}

// GridSpec holds one summary per ward of the topology.
//
// Wards appear in topology order (zones in declared order, then ward index),
// independent of the order records were added. Wards without records are
// present with a zero-valued summary.
type GridSpec struct {
	Wards []WardSummarySpec `json:"wards"`
}

// ZoneGridSpec holds one summary per zone, in declared zone order. Zones
// without records are present with a zero-valued summary.
type ZoneGridSpec struct {
	Zones []ZoneSummarySpec `json:"zones"`
}

// Summarize computes counts and hazard percentage over an already-filtered
// sequence of records.
//
// Counting matches Status names exactly. Returns error if a record carries an
// unknown status.
//
// This is the primitive-typed interface of the specs package.
// See internal.Summarize for the reference implementation.
type Summarize func(records []BatteryRecordSpec) (SummarySpec, error)
