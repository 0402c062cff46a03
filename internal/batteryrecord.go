package internal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chrisconley/greencity/specs"
)

const batteryIDPrefix = "BAT"

// Measurement is one raw reading. Load voltage never exceeds open circuit
// voltage and current is always positive.
type Measurement struct {
	ocv         Decimal
	load        Decimal
	current     Decimal
	temperature Decimal
}

func NewMeasurement(spec specs.MeasurementSpec) (Measurement, error) {
	ocv, err := NewDecimal(spec.OpenCircuitVoltage)
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: open circuit voltage: %v", ErrInvalidMeasurement, err)
	}

	load, err := NewDecimal(spec.LoadVoltage)
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: load voltage: %v", ErrInvalidMeasurement, err)
	}

	current, err := NewDecimal(spec.Current)
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: current: %v", ErrInvalidMeasurement, err)
	}

	temperature, err := NewDecimal(spec.Temperature)
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: temperature: %v", ErrInvalidMeasurement, err)
	}

	return newMeasurement(ocv, load, current, temperature)
}

func newMeasurement(ocv, load, current, temperature Decimal) (Measurement, error) {
	if load.Cmp(ocv) > 0 {
		return Measurement{}, fmt.Errorf("%w: load voltage %s exceeds open circuit voltage %s", ErrInvalidMeasurement, load, ocv)
	}
	if current.Sign() <= 0 {
		return Measurement{}, fmt.Errorf("%w: current must be positive, got %s", ErrInvalidMeasurement, current)
	}
	return Measurement{ocv: ocv, load: load, current: current, temperature: temperature}, nil
}

func (m Measurement) OpenCircuitVoltage() Decimal { return m.ocv }
func (m Measurement) LoadVoltage() Decimal        { return m.load }
func (m Measurement) Current() Decimal            { return m.current }
func (m Measurement) Temperature() Decimal        { return m.temperature }

func (m Measurement) ToSpec() specs.MeasurementSpec {
	return specs.MeasurementSpec{
		OpenCircuitVoltage: m.ocv.String(),
		LoadVoltage:        m.load.String(),
		Current:            m.current.String(),
		Temperature:        m.temperature.String(),
	}
}

type BatteryID struct {
	value string
	seq   int
}

func NewBatteryID(value string) (BatteryID, error) {
	digits, ok := strings.CutPrefix(value, batteryIDPrefix)
	if !ok {
		return BatteryID{}, fmt.Errorf("battery ID %q must start with %q", value, batteryIDPrefix)
	}
	seq, err := strconv.Atoi(digits)
	if err != nil || seq < 1 || strconv.Itoa(seq) != digits {
		return BatteryID{}, fmt.Errorf("battery ID %q must end with a positive sequence number", value)
	}
	return BatteryID{value: value, seq: seq}, nil
}

func batteryIDFromSequence(seq int) BatteryID {
	return BatteryID{value: batteryIDPrefix + strconv.Itoa(seq), seq: seq}
}

func (id BatteryID) ToString() string {
	return id.value
}

// Sequence returns n of "BAT<n>".
func (id BatteryID) Sequence() int {
	return id.seq
}

// BatteryRecord is a classified battery. Resistance and Status are derived
// from Measurement at construction and never change.
type BatteryRecord struct {
	ID          BatteryID
	Ward        WardID
	Zone        ZoneName
	Measurement Measurement
	Resistance  Decimal
	Status      Status
}

// newBatteryRecord classifies m and assembles the record.
func newBatteryRecord(id BatteryID, ward WardID, zone ZoneName, m Measurement) (BatteryRecord, error) {
	c, err := classify(m)
	if err != nil {
		return BatteryRecord{}, err
	}
	return BatteryRecord{
		ID:          id,
		Ward:        ward,
		Zone:        zone,
		Measurement: m,
		Resistance:  c.Resistance,
		Status:      c.Status,
	}, nil
}

// NewBatteryRecord rebuilds a record from its primitive form against topology.
//
// Resistance and status are re-derived from the measurement; if the input
// carries them they must agree with the derived values.
func NewBatteryRecord(spec specs.BatteryRecordSpec, topology Topology) (BatteryRecord, error) {
	id, err := NewBatteryID(spec.ID)
	if err != nil {
		return BatteryRecord{}, fmt.Errorf("invalid ID: %w", err)
	}

	ward, zone, err := topology.Validate(spec.WardID, spec.Zone)
	if err != nil {
		return BatteryRecord{}, err
	}

	m, err := NewMeasurement(spec.Measurement)
	if err != nil {
		return BatteryRecord{}, fmt.Errorf("invalid measurement: %w", err)
	}

	record, err := newBatteryRecord(id, ward, zone, m)
	if err != nil {
		return BatteryRecord{}, err
	}

	if spec.InternalResistance != "" {
		given, err := NewDecimal(spec.InternalResistance)
		if err != nil {
			return BatteryRecord{}, fmt.Errorf("invalid internal resistance: %w", err)
		}
		if !given.Equal(record.Resistance) {
			return BatteryRecord{}, fmt.Errorf("%w: internal resistance %s does not match derived %s", ErrInvalidMeasurement, given, record.Resistance)
		}
	}

	if spec.Status != "" {
		given, err := ParseStatus(spec.Status)
		if err != nil {
			return BatteryRecord{}, err
		}
		if given != record.Status {
			return BatteryRecord{}, fmt.Errorf("%w: status %s does not match derived %s", ErrInvalidMeasurement, given, record.Status)
		}
	}

	return record, nil
}

func (r BatteryRecord) ToSpec() specs.BatteryRecordSpec {
	return specs.BatteryRecordSpec{
		ID:                 r.ID.ToString(),
		WardID:             r.Ward.ToString(),
		Zone:               r.Zone.ToString(),
		Measurement:        r.Measurement.ToSpec(),
		InternalResistance: r.Resistance.String(),
		Status:             r.Status.String(),
	}
}
