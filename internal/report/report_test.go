package report

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisconley/greencity/internal"
)

func init() {
	color.NoColor = true
}

type replaySampler struct {
	values []float64
	next   int
}

func (s *replaySampler) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Three batteries: BAT1 Reusable and BAT2 Hazardous in Res-W1, BAT3
// Recyclable in Ind-W2.
func newReportDashboard(t *testing.T) *internal.Dashboard {
	t.Helper()
	draws := []float64{
		0.75, 0.8, 0.6, 0.5,
		0, 0, 0, 0,
		0.5, 0.9, 0.2, 0.5,
	}
	d := internal.NewDashboard(internal.DefaultTopology(), internal.WithSampler(&replaySampler{values: draws}))
	for _, add := range [][2]string{{"Res-W1", "Residential"}, {"Res-W1", "Residential"}, {"Ind-W2", "Industrial"}} {
		_, err := d.AddBattery(add[0], add[1])
		require.NoError(t, err)
	}
	return d
}

// lineFields returns the whitespace-separated fields of the first line whose
// leading fields match those of prefix.
func lineFields(t *testing.T, out, prefix string) []string {
	t.Helper()
	want := strings.Fields(prefix)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= len(want) && slices.Equal(fields[:len(want)], want) {
			return fields
		}
	}
	t.Fatalf("no line starting with %q in:\n%s", prefix, out)
	return nil
}

func TestHazardTier(t *testing.T) {
	t.Run("below twenty percent is ok", func(t *testing.T) {
		assert.Equal(t, TierOK, HazardTier(0))
		assert.Equal(t, TierOK, HazardTier(19.99))
	})

	t.Run("twenty up to fifty percent is warn", func(t *testing.T) {
		assert.Equal(t, TierWarn, HazardTier(20))
		assert.Equal(t, TierWarn, HazardTier(49.9))
	})

	t.Run("fifty percent and above is critical", func(t *testing.T) {
		assert.Equal(t, TierCritical, HazardTier(50))
		assert.Equal(t, TierCritical, HazardTier(100))
	})
}

func TestStatusHint(t *testing.T) {
	assert.Equal(t, "green", StatusHint(internal.Reusable))
	assert.Equal(t, "orange", StatusHint(internal.Recyclable))
	assert.Equal(t, "red", StatusHint(internal.Hazardous))
	assert.Equal(t, "none", StatusHint(internal.Status(9)))
}

func TestWriteRecords(t *testing.T) {
	d := newReportDashboard(t)
	var buf bytes.Buffer

	require.NoError(t, WriteRecords(&buf, d.All()))

	out := buf.String()
	assert.Equal(t, []string{"BAT1", "Residential", "Res-W1", "1.50", "1.42", "0.32", "30.0", "0.25", "Reusable"},
		lineFields(t, out, "BAT1"))
	assert.Equal(t, []string{"BAT2", "Residential", "Res-W1", "1.20", "1.10", "0.05", "20.0", "2.00", "Hazardous"},
		lineFields(t, out, "BAT2"))
	assert.Equal(t, "Recyclable", lineFields(t, out, "BAT3")[8])
}

func TestWriteSummary(t *testing.T) {
	t.Run("city scope shows shares and the hazard tier", func(t *testing.T) {
		d := newReportDashboard(t)
		var buf bytes.Buffer

		require.NoError(t, WriteSummary(&buf, internal.City(), d.Summary(internal.City())))

		out := buf.String()
		assert.Contains(t, out, "Summary (city): 3 batteries")
		assert.Equal(t, []string{"Hazardous", "1", "33.3%"}, lineFields(t, out, "Hazardous"))
		assert.Contains(t, out, "Hazard: 33.3% [warn]")
	})

	t.Run("empty scope reports zeros", func(t *testing.T) {
		d := internal.NewDashboard(internal.DefaultTopology())
		var buf bytes.Buffer

		require.NoError(t, WriteSummary(&buf, internal.City(), d.Summary(internal.City())))

		out := buf.String()
		assert.Contains(t, out, "0 batteries")
		assert.Contains(t, out, "Hazard: 0.0% [ok]")
	})
}

func TestWriteGrid(t *testing.T) {
	d := newReportDashboard(t)
	var buf bytes.Buffer

	require.NoError(t, WriteGrid(&buf, d.Grid()))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 9)
	assert.Equal(t, []string{"Residential", "Res-W1", "2", "1", "0", "1", "50.0", "critical"},
		lineFields(t, out, "Residential  Res-W1"))
	assert.Equal(t, []string{"Industrial", "Ind-W2", "1", "0", "1", "0", "0.0", "ok"},
		lineFields(t, out, "Industrial  Ind-W2"))
	assert.Equal(t, []string{"Commercial", "Com-W1", "0", "0", "0", "0", "0.0", "ok"},
		lineFields(t, out, "Commercial  Com-W1"))
}

func TestWriteZoneGrid(t *testing.T) {
	d := newReportDashboard(t)
	var buf bytes.Buffer

	require.NoError(t, WriteZoneGrid(&buf, d.ZoneGrid()))

	out := buf.String()
	assert.Equal(t, []string{"Residential", "2", "1", "50.0", "critical"}, lineFields(t, out, "Residential"))
	assert.Equal(t, []string{"Industrial", "1", "0", "0.0", "ok"}, lineFields(t, out, "Industrial"))
}

func TestWriteSeries(t *testing.T) {
	d := newReportDashboard(t)
	ward, _, ok := d.Topology().LookupWard("Res-W1")
	require.True(t, ok)
	var buf bytes.Buffer

	require.NoError(t, WriteSeries(&buf, internal.MetricResistance, d.MetricSeries(internal.WardOf(ward), internal.MetricResistance)))

	out := buf.String()
	assert.Contains(t, out, "resistance (Ω)")
	assert.Equal(t, []string{"BAT2", "Res-W1", "2.00", "Hazardous"}, lineFields(t, out, "BAT2"))
	assert.NotContains(t, out, "BAT3")
}

func TestWriteTopology(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteTopology(&buf, internal.DefaultTopology()))

	assert.Equal(t, "Residential\n  Res-W1\n  Res-W2\n"+
		"Industrial\n  Ind-W1\n  Ind-W2\n"+
		"Commercial\n  Com-W1\n  Com-W2\n"+
		"Public Services\n  Pub-W1\n  Pub-W2\n", buf.String())
}
