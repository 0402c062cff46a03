package specs

// MetricSeriesSpec lists one metric of every record in a scope, in insertion order.
//
// Metric is one of "ocv", "load_voltage", "temperature", "resistance". Each
// point keeps the record's status so a chart can colour it.
type MetricSeriesSpec struct {
	Scope  ScopeSpec         `json:"scope"`
	Metric string            `json:"metric"`
	Points []MetricPointSpec `json:"points"`
}

type MetricPointSpec struct {
	BatteryID string `json:"battery_id"`
	WardID    string `json:"ward_id"`
	Value     string `json:"value"`
	Status    string `json:"status"`
}
