package specs

// MeasurementSpec represents one raw battery reading before classification.
//
// All quantities are decimal strings to preserve the exact rounded values the
// sensor produced; classification thresholds compare against these values
// exactly. Internal resistance is not part of the raw reading: it is derived
// once during classification and carried on the resulting record.
type MeasurementSpec struct {
	// Open circuit voltage in volts, measured with no load applied.
	//
	// Sampled in [1.2, 1.6] and rounded to 2 decimals. Examples: "1.20", "1.57".
	OpenCircuitVoltage string `json:"ocv"`

	// Voltage in volts measured while current is drawn.
	//
	// Sampled in [1.1, OpenCircuitVoltage] and rounded to 2 decimals. Never
	// exceeds OpenCircuitVoltage.
	LoadVoltage string `json:"load_voltage"`

	// Drawn current in amperes.
	//
	// Sampled in [0.05, 0.5] and rounded to 2 decimals. Must be positive: it is
	// the divisor of the internal resistance.
	Current string `json:"current"`

	// Cell temperature in degrees Celsius.
	//
	// Sampled in [20, 40] and rounded to 1 decimal. Examples: "20.0", "39.4".
	Temperature string `json:"temperature"`
}

// ClassificationSpec is the outcome of classifying one measurement.
type ClassificationSpec struct {
	// Internal resistance in ohms: (ocv - load_voltage) / current, rounded to 2 decimals.
	InternalResistance string `json:"internal_resistance"`

	// Disposal status: "Reusable", "Recyclable" or "Hazardous".
	Status string `json:"status"`
}

// Classify maps a raw measurement to a disposal status.
//
// Rules, first match wins:
//  1. temperature > 40, resistance > 1.0 or ocv < 1.3 → "Hazardous"
//  2. resistance <= 0.5 and ocv >= 1.5 → "Reusable"
//  3. otherwise → "Recyclable"
//
// Hazard comparisons are strict and the reusable comparisons are inclusive, so
// a battery at exactly 40°C, 1.0Ω or 1.3V is not hazardous by that rule.
//
// Returns error if any quantity is not a decimal or current is not positive.
//
// This is the primitive-typed interface of the specs package.
// See internal.Classify for the reference implementation.
type Classify func(measurement MeasurementSpec) (ClassificationSpec, error)
