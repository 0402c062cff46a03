// Package report renders dashboard state as aligned text for the terminal.
// Presentation policy such as status colours and hazard tiers lives here and
// never in the core.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/chrisconley/greencity/internal"
)

// Tier buckets a hazard percentage for display.
type Tier string

const (
	TierOK       Tier = "ok"
	TierWarn     Tier = "warn"
	TierCritical Tier = "critical"
)

const (
	warnThreshold     = 20.0
	criticalThreshold = 50.0
)

// HazardTier returns ok below 20 percent, warn below 50 and critical otherwise.
func HazardTier(percent float64) Tier {
	switch {
	case percent < warnThreshold:
		return TierOK
	case percent < criticalThreshold:
		return TierWarn
	default:
		return TierCritical
	}
}

// StatusHint is the display colour name of a status.
func StatusHint(s internal.Status) string {
	switch s {
	case internal.Reusable:
		return "green"
	case internal.Recyclable:
		return "orange"
	case internal.Hazardous:
		return "red"
	default:
		return "none"
	}
}

// Terminals have no orange; yellow stands in for it.
var hintColors = map[string]*color.Color{
	"green":  color.New(color.FgGreen),
	"orange": color.New(color.FgYellow),
	"red":    color.New(color.FgRed, color.Bold),
}

var tierColors = map[Tier]*color.Color{
	TierOK:       color.New(color.FgGreen),
	TierWarn:     color.New(color.FgYellow),
	TierCritical: color.New(color.FgRed, color.Bold),
}

func paintStatus(s internal.Status) string {
	if c, ok := hintColors[StatusHint(s)]; ok {
		return c.Sprint(s.String())
	}
	return s.String()
}

func paintTier(t Tier) string {
	return tierColors[t].Sprint(string(t))
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WriteRecords prints one row per battery in the given order.
func WriteRecords(w io.Writer, records []internal.BatteryRecord) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tZONE\tWARD\tOCV (V)\tLOAD (V)\tCURRENT (A)\tTEMP (°C)\tR (Ω)\tSTATUS")
	for _, r := range records {
		m := r.Measurement
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID.ToString(),
			r.Zone.ToString(),
			r.Ward.ToString(),
			m.OpenCircuitVoltage(),
			m.LoadVoltage(),
			m.Current(),
			m.Temperature(),
			r.Resistance,
			paintStatus(r.Status))
	}
	return tw.Flush()
}

// WriteSummary prints the status breakdown of one scope.
func WriteSummary(w io.Writer, scope internal.Scope, s internal.Summary) error {
	if _, err := fmt.Fprintf(w, "Summary (%s): %d batteries\n", scope, s.Total()); err != nil {
		return err
	}
	tw := newTable(w)
	for _, status := range internal.AllStatuses() {
		share, err := percent(s.Share(status))
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s%%\n", paintStatus(status), s.Count(status), share)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	pct, tier, err := hazardCells(s.HazardPercent())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Hazard: %s%% [%s]\n", pct, tier)
	return err
}

// WriteGrid prints one row per ward in the order given, normally topology order.
func WriteGrid(w io.Writer, wards []internal.WardSummary) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ZONE\tWARD\tTOTAL\tREUSABLE\tRECYCLABLE\tHAZARDOUS\tHAZARD %\tTIER")
	for _, ws := range wards {
		s := ws.Summary
		pct, tier, err := hazardCells(s.HazardPercent())
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			ws.Zone.ToString(),
			ws.Ward.ToString(),
			s.Total(),
			s.Count(internal.Reusable),
			s.Count(internal.Recyclable),
			s.Count(internal.Hazardous),
			pct,
			tier)
	}
	return tw.Flush()
}

func WriteZoneGrid(w io.Writer, zones []internal.ZoneSummary) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ZONE\tTOTAL\tHAZARDOUS\tHAZARD %\tTIER")
	for _, zs := range zones {
		pct, tier, err := hazardCells(zs.Summary.HazardPercent())
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
			zs.Zone.ToString(),
			zs.Summary.Total(),
			zs.Summary.Count(internal.Hazardous),
			pct,
			tier)
	}
	return tw.Flush()
}

// WriteSeries prints the per-battery values of one metric.
func WriteSeries(w io.Writer, metric internal.Metric, points []internal.MetricPoint) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID\tWARD\t%s (%s)\tSTATUS\n", metric, metric.Unit())
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.BatteryID.ToString(), p.Ward.ToString(), p.Value, paintStatus(p.Status))
	}
	return tw.Flush()
}

func WriteTopology(w io.Writer, topology internal.Topology) error {
	for _, z := range topology.Zones() {
		if _, err := fmt.Fprintf(w, "%s\n", z.Name().ToString()); err != nil {
			return err
		}
		for _, ward := range z.Wards() {
			if _, err := fmt.Fprintf(w, "  %s\n", ward.ToString()); err != nil {
				return err
			}
		}
	}
	return nil
}

func percent(d internal.Decimal) (string, error) {
	r, err := d.Round(1)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// hazardCells renders a hazard percentage and its colored tier.
func hazardCells(hazard internal.Decimal) (string, string, error) {
	pct, err := percent(hazard)
	if err != nil {
		return "", "", err
	}
	f, err := hazard.Float64()
	if err != nil {
		return "", "", err
	}
	return pct, paintTier(HazardTier(f)), nil
}
