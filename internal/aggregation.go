package internal

import (
	"fmt"

	"github.com/chrisconley/greencity/specs"
)

var hundred = NewDecimalFromInt64(100)

// Summarize implements specs.Summarize.
// Converts specs to domain objects, aggregates, and converts back to specs.
func Summarize(recordSpecs []specs.BatteryRecordSpec) (specs.SummarySpec, error) {
	statuses := make([]Status, len(recordSpecs))
	for i, spec := range recordSpecs {
		status, err := ParseStatus(spec.Status)
		if err != nil {
			return specs.SummarySpec{}, fmt.Errorf("invalid record at index %d: %w", i, err)
		}
		statuses[i] = status
	}
	return summarizeStatuses(statuses).ToSpec(), nil
}

// Summary holds status counts for one scope. The zero value is the summary
// of an empty scope.
type Summary struct {
	counts [statusCount]int
}

// summarize counts records by status. O(n) in len(records).
func summarize(records []BatteryRecord) Summary {
	var s Summary
	for _, r := range records {
		s.counts[r.Status]++
	}
	return s
}

func summarizeStatuses(statuses []Status) Summary {
	var s Summary
	for _, status := range statuses {
		s.counts[status]++
	}
	return s
}

func (s Summary) Total() int {
	total := 0
	for _, c := range s.counts {
		total += c
	}
	return total
}

func (s Summary) Count(status Status) int {
	if !status.valid() {
		return 0
	}
	return s.counts[status]
}

// Share returns the percentage of the scope with the given status, or zero
// for an empty scope.
func (s Summary) Share(status Status) Decimal {
	total := s.Total()
	if total == 0 {
		return NewDecimalFromInt64(0)
	}
	pct, err := NewDecimalFromInt64(int64(s.Count(status))).Mul(hundred).Div(NewDecimalFromInt64(int64(total)))
	if err != nil {
		return NewDecimalFromInt64(0)
	}
	return pct
}

// HazardPercent is 100 * hazardous / total, defined as zero when total is zero.
func (s Summary) HazardPercent() Decimal {
	return s.Share(Hazardous)
}

func (s Summary) ToSpec() specs.SummarySpec {
	return specs.SummarySpec{
		Total:         s.Total(),
		Reusable:      s.Count(Reusable),
		Recyclable:    s.Count(Recyclable),
		Hazardous:     s.Count(Hazardous),
		HazardPercent: s.HazardPercent().String(),
	}
}

type WardSummary struct {
	Ward    WardID
	Zone    ZoneName
	Summary Summary
}

type ZoneSummary struct {
	Zone    ZoneName
	Summary Summary
}

// grid summarizes every ward of topology in topology order. Wards without
// records get a zero summary.
func grid(topology Topology, records []BatteryRecord) []WardSummary {
	byWard := make(map[WardID][]BatteryRecord)
	for _, r := range records {
		byWard[r.Ward] = append(byWard[r.Ward], r)
	}

	out := make([]WardSummary, 0, len(topology.wardZone))
	for _, z := range topology.zones {
		for _, w := range z.wards {
			out = append(out, WardSummary{Ward: w, Zone: z.name, Summary: summarize(byWard[w])})
		}
	}
	return out
}

// zoneGrid summarizes every zone of topology in declared order.
func zoneGrid(topology Topology, records []BatteryRecord) []ZoneSummary {
	byZone := make(map[ZoneName][]BatteryRecord)
	for _, r := range records {
		byZone[r.Zone] = append(byZone[r.Zone], r)
	}

	out := make([]ZoneSummary, 0, len(topology.zones))
	for _, z := range topology.zones {
		out = append(out, ZoneSummary{Zone: z.name, Summary: summarize(byZone[z.name])})
	}
	return out
}

func GridToSpec(wards []WardSummary) specs.GridSpec {
	out := specs.GridSpec{Wards: make([]specs.WardSummarySpec, len(wards))}
	for i, w := range wards {
		out.Wards[i] = specs.WardSummarySpec{
			WardID:  w.Ward.ToString(),
			Zone:    w.Zone.ToString(),
			Summary: w.Summary.ToSpec(),
		}
	}
	return out
}

func ZoneGridToSpec(zones []ZoneSummary) specs.ZoneGridSpec {
	out := specs.ZoneGridSpec{Zones: make([]specs.ZoneSummarySpec, len(zones))}
	for i, z := range zones {
		out.Zones[i] = specs.ZoneSummarySpec{
			Zone:    z.Zone.ToString(),
			Summary: z.Summary.ToSpec(),
		}
	}
	return out
}
