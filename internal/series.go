package internal

import (
	"fmt"

	"github.com/chrisconley/greencity/specs"
)

// Metric names a per-battery quantity that can be charted.
type Metric int

const (
	MetricOpenCircuitVoltage Metric = iota
	MetricLoadVoltage
	MetricTemperature
	MetricResistance
)

func AllMetrics() []Metric {
	return []Metric{MetricOpenCircuitVoltage, MetricLoadVoltage, MetricTemperature, MetricResistance}
}

func (m Metric) String() string {
	switch m {
	case MetricOpenCircuitVoltage:
		return "ocv"
	case MetricLoadVoltage:
		return "load_voltage"
	case MetricTemperature:
		return "temperature"
	case MetricResistance:
		return "resistance"
	default:
		return "unknown"
	}
}

// Unit is the display unit of the metric.
func (m Metric) Unit() string {
	switch m {
	case MetricOpenCircuitVoltage, MetricLoadVoltage:
		return "V"
	case MetricTemperature:
		return "°C"
	case MetricResistance:
		return "Ω"
	default:
		return ""
	}
}

func ParseMetric(value string) (Metric, error) {
	for _, m := range AllMetrics() {
		if m.String() == value {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid metric: %q", value)
}

func (m Metric) valueOf(r BatteryRecord) Decimal {
	switch m {
	case MetricLoadVoltage:
		return r.Measurement.LoadVoltage()
	case MetricTemperature:
		return r.Measurement.Temperature()
	case MetricResistance:
		return r.Resistance
	default:
		return r.Measurement.OpenCircuitVoltage()
	}
}

type MetricPoint struct {
	BatteryID BatteryID
	Ward      WardID
	Value     Decimal
	Status    Status
}

func series(records []BatteryRecord, metric Metric) []MetricPoint {
	out := make([]MetricPoint, len(records))
	for i, r := range records {
		out[i] = MetricPoint{BatteryID: r.ID, Ward: r.Ward, Value: metric.valueOf(r), Status: r.Status}
	}
	return out
}

func SeriesToSpec(scope Scope, metric Metric, points []MetricPoint) specs.MetricSeriesSpec {
	out := specs.MetricSeriesSpec{
		Scope:  scope.ToSpec(),
		Metric: metric.String(),
		Points: make([]specs.MetricPointSpec, len(points)),
	}
	for i, p := range points {
		out.Points[i] = specs.MetricPointSpec{
			BatteryID: p.BatteryID.ToString(),
			WardID:    p.Ward.ToString(),
			Value:     p.Value.String(),
			Status:    p.Status.String(),
		}
	}
	return out
}
