package internal

import (
	"fmt"

	"github.com/chrisconley/greencity/specs"
)

// Classification thresholds. These are contractual values, not tunables.
var (
	hazardTemperature     = MustDecimal("40")
	hazardResistance      = MustDecimal("1.0")
	hazardMinVoltage      = MustDecimal("1.3")
	reusableMaxResistance = MustDecimal("0.5")
	reusableMinVoltage    = MustDecimal("1.5")
)

const resistancePlaces = 2

// Classify implements specs.Classify.
// Converts specs to domain objects, classifies, and converts back to specs.
func Classify(spec specs.MeasurementSpec) (specs.ClassificationSpec, error) {
	m, err := NewMeasurement(spec)
	if err != nil {
		return specs.ClassificationSpec{}, err
	}

	c, err := classify(m)
	if err != nil {
		return specs.ClassificationSpec{}, err
	}

	return specs.ClassificationSpec{
		InternalResistance: c.Resistance.String(),
		Status:             c.Status.String(),
	}, nil
}

// Classification is the derived part of a battery record.
type Classification struct {
	Resistance Decimal
	Status     Status
}

// classify derives the internal resistance of m once and applies the status
// rules to it.
func classify(m Measurement) (Classification, error) {
	resistance, err := DeriveResistance(m.OpenCircuitVoltage(), m.LoadVoltage(), m.Current())
	if err != nil {
		return Classification{}, err
	}
	return Classification{
		Resistance: resistance,
		Status:     statusFor(m.OpenCircuitVoltage(), resistance, m.Temperature()),
	}, nil
}

// DeriveResistance returns round((ocv - load) / current, 2).
//
// Returns ErrInvalidMeasurement if current is not positive.
func DeriveResistance(ocv, load, current Decimal) (Decimal, error) {
	if current.Sign() <= 0 {
		return Decimal{}, fmt.Errorf("%w: current must be positive, got %s", ErrInvalidMeasurement, current)
	}
	q, err := ocv.Sub(load).Div(current)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: %v", ErrInvalidMeasurement, err)
	}
	r, err := q.Round(resistancePlaces)
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: %v", ErrInvalidMeasurement, err)
	}
	return r, nil
}

// statusFor applies the rules in order; the first match wins.
func statusFor(ocv, resistance, temperature Decimal) Status {
	if temperature.Cmp(hazardTemperature) > 0 ||
		resistance.Cmp(hazardResistance) > 0 ||
		ocv.Cmp(hazardMinVoltage) < 0 {
		return Hazardous
	}
	if resistance.Cmp(reusableMaxResistance) <= 0 && ocv.Cmp(reusableMinVoltage) >= 0 {
		return Reusable
	}
	return Recyclable
}
