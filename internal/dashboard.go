package internal

import (
	"sync"

	"github.com/chrisconley/greencity/internal/infra"
	"github.com/chrisconley/greencity/specs"
)

// BatteryAddedEvent is published after a battery has been stored.
type BatteryAddedEvent struct {
	Record specs.BatteryRecordSpec
}

func (e BatteryAddedEvent) EventType() infra.EventType {
	return infra.BatteryAdded
}

// Publisher receives dashboard events. *infra.Bus satisfies it.
type Publisher interface {
	Publish(infra.Event)
}

type DashboardOption func(*Dashboard)

// WithSampler makes the session's readings reproducible.
func WithSampler(s Sampler) DashboardOption {
	return func(d *Dashboard) { d.generator = NewGenerator(s) }
}

func WithPublisher(p Publisher) DashboardOption {
	return func(d *Dashboard) { d.publisher = p }
}

// Dashboard is the state of one session: its battery counter and record
// store, over a shared read-only topology. All methods are safe for
// concurrent use; ID assignment and append happen under one lock.
type Dashboard struct {
	mu        sync.Mutex
	topology  Topology
	generator *Generator
	store     *RecordStore
	publisher Publisher
}

func NewDashboard(topology Topology, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		topology: topology,
		store:    NewRecordStore(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.generator == nil {
		d.generator = NewGenerator(nil)
	}
	return d
}

// AddBattery validates that wardID belongs to zone, generates and classifies
// a reading and appends it.
//
// Returns ErrInvalidWard if the ward is unknown or owned by another zone; the
// battery counter does not advance in that case.
func (d *Dashboard) AddBattery(wardID, zone string) (BatteryRecord, error) {
	ward, owner, err := d.topology.Validate(wardID, zone)
	if err != nil {
		return BatteryRecord{}, err
	}

	record, err := d.addBattery(ward, owner)
	if err != nil {
		return BatteryRecord{}, err
	}

	if d.publisher != nil {
		d.publisher.Publish(BatteryAddedEvent{Record: record.ToSpec()})
	}
	return record, nil
}

func (d *Dashboard) addBattery(ward WardID, zone ZoneName) (BatteryRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	raw, err := d.generator.Generate(ward, zone)
	if err != nil {
		return BatteryRecord{}, err
	}

	record, err := newBatteryRecord(raw.ID, raw.Ward, raw.Zone, raw.Measurement)
	if err != nil {
		return BatteryRecord{}, err
	}

	d.store.Append(record)
	return record, nil
}

// All returns every record in insertion order.
func (d *Dashboard) All() []BatteryRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.All()
}

func (d *Dashboard) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Len()
}

// Records returns the records selected by scope in insertion order.
func (d *Dashboard) Records(scope Scope) []BatteryRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return scope.resolve(d.store)
}

// Summary aggregates the records in scope. An empty scope yields a zero summary.
func (d *Dashboard) Summary(scope Scope) Summary {
	return summarize(d.Records(scope))
}

// Grid returns one summary per ward in topology order.
func (d *Dashboard) Grid() []WardSummary {
	return grid(d.topology, d.All())
}

// ZoneGrid returns one summary per zone in topology order.
func (d *Dashboard) ZoneGrid() []ZoneSummary {
	return zoneGrid(d.topology, d.All())
}

func (d *Dashboard) MetricSeries(scope Scope, metric Metric) []MetricPoint {
	return series(d.Records(scope), metric)
}

func (d *Dashboard) Topology() Topology {
	return d.topology
}

// ObservedWards returns the wards that have records, in order of first record.
func (d *Dashboard) ObservedWards() []WardID {
	seen := make(map[WardID]bool)
	var out []WardID
	for _, r := range d.All() {
		if !seen[r.Ward] {
			seen[r.Ward] = true
			out = append(out, r.Ward)
		}
	}
	return out
}

// ObservedZones returns the zones that have records, in order of first record.
func (d *Dashboard) ObservedZones() []ZoneName {
	seen := make(map[ZoneName]bool)
	var out []ZoneName
	for _, r := range d.All() {
		if !seen[r.Zone] {
			seen[r.Zone] = true
			out = append(out, r.Zone)
		}
	}
	return out
}

// ObservedScopes lists the scopes a level selector can offer: the city, then
// every observed zone, then every observed ward.
func (d *Dashboard) ObservedScopes() []specs.ScopeSpec {
	zones := d.ObservedZones()
	wards := d.ObservedWards()
	out := make([]specs.ScopeSpec, 0, 1+len(zones)+len(wards))
	out = append(out, specs.NewCityScope())
	for _, z := range zones {
		out = append(out, specs.NewZoneScope(z.ToString()))
	}
	for _, w := range wards {
		out = append(out, specs.NewWardScope(w.ToString()))
	}
	return out
}
