package internal

import (
	"fmt"
	"math/rand/v2"
)

// Sampler yields uniformly distributed values in [0, 1).
// *rand.Rand satisfies it.
type Sampler interface {
	Float64() float64
}

// NewSeededSampler returns a deterministic sampler for reproducible sessions.
func NewSeededSampler(seed uint64) Sampler {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type sampleRange struct {
	min    float64
	places int32
}

var (
	ocvRange         = sampleRange{min: 1.2, places: 2}
	ocvMax           = 1.6
	loadVoltageRange = sampleRange{min: 1.1, places: 2}
	currentRange     = sampleRange{min: 0.05, places: 2}
	currentMax       = 0.5
	temperatureRange = sampleRange{min: 20, places: 1}
	temperatureMax   = 40.0
)

// RawMeasurement is a generated reading with the identifiers assigned to it.
// Resistance and status are not part of it; they are derived once by the
// record constructor.
type RawMeasurement struct {
	ID          BatteryID
	Ward        WardID
	Zone        ZoneName
	Measurement Measurement
}

// Generator produces synthetic readings and owns the battery counter of one
// session. It is not safe for concurrent use; Dashboard serializes access.
type Generator struct {
	sampler Sampler
	issued  int
}

func NewGenerator(sampler Sampler) *Generator {
	if sampler == nil {
		sampler = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{sampler: sampler}
}

// Issued returns how many battery IDs have been assigned.
func (g *Generator) Issued() int {
	return g.issued
}

// Generate assigns the next battery ID and samples a reading for ward.
//
// The caller is responsible for ward belonging to zone. The counter only
// advances once a valid reading has been sampled, so a failed call leaves no
// gap in the ID sequence.
func (g *Generator) Generate(ward WardID, zone ZoneName) (RawMeasurement, error) {
	id := batteryIDFromSequence(g.issued + 1)

	ocv, err := g.draw(ocvRange, ocvMax)
	if err != nil {
		return RawMeasurement{}, fmt.Errorf("sampling open circuit voltage: %w", err)
	}

	// The load voltage upper bound is the open circuit voltage just drawn.
	ocvUpper, err := ocv.Float64()
	if err != nil {
		return RawMeasurement{}, fmt.Errorf("sampling load voltage: %w", err)
	}
	load, err := g.draw(loadVoltageRange, ocvUpper)
	if err != nil {
		return RawMeasurement{}, fmt.Errorf("sampling load voltage: %w", err)
	}

	current, err := g.draw(currentRange, currentMax)
	if err != nil {
		return RawMeasurement{}, fmt.Errorf("sampling current: %w", err)
	}

	temperature, err := g.draw(temperatureRange, temperatureMax)
	if err != nil {
		return RawMeasurement{}, fmt.Errorf("sampling temperature: %w", err)
	}

	m, err := newMeasurement(ocv, load, current, temperature)
	if err != nil {
		return RawMeasurement{}, err
	}

	g.issued++
	return RawMeasurement{ID: id, Ward: ward, Zone: zone, Measurement: m}, nil
}

func (g *Generator) draw(r sampleRange, upper float64) (Decimal, error) {
	v := r.min + (upper-r.min)*g.sampler.Float64()
	d, err := NewDecimalFromFloat64(v)
	if err != nil {
		return Decimal{}, err
	}
	return d.Round(r.places)
}
