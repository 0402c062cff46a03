package internal

import (
	"fmt"
	"strings"

	"github.com/chrisconley/greencity/specs"
)

// DefaultZones is the fixed zone list of the simulated city.
var DefaultZones = []string{"Residential", "Industrial", "Commercial", "Public Services"}

const (
	DefaultWardsPerZone = 2
	wardPrefixLength    = 3
)

// Topology is the immutable zone/ward hierarchy. Iteration always follows
// the declared zone order, then ward index.
type Topology struct {
	zones    []Zone
	wardZone map[string]ZoneName
	zoneIdx  map[string]int
}

// NewTopology derives wardsPerZone wards for every zone, named
// <first three letters of zone>-W<index>.
//
// Returns error if a zone name is shorter than three letters, duplicated, or
// shares its three-letter prefix with another zone (ward IDs would collide).
func NewTopology(zoneNames []string, wardsPerZone int) (Topology, error) {
	if len(zoneNames) == 0 {
		return Topology{}, fmt.Errorf("at least one zone is required")
	}
	if wardsPerZone < 1 {
		return Topology{}, fmt.Errorf("wards per zone must be at least 1, got %d", wardsPerZone)
	}

	t := Topology{
		zones:    make([]Zone, 0, len(zoneNames)),
		wardZone: make(map[string]ZoneName),
		zoneIdx:  make(map[string]int),
	}
	prefixOwner := make(map[string]string)

	for i, raw := range zoneNames {
		name, err := NewZoneName(raw)
		if err != nil {
			return Topology{}, fmt.Errorf("zone %d: %w", i, err)
		}
		if _, dup := t.zoneIdx[name.ToString()]; dup {
			return Topology{}, fmt.Errorf("zone %q declared twice", name.ToString())
		}

		prefix := wardPrefix(name)
		if owner, taken := prefixOwner[prefix]; taken {
			return Topology{}, fmt.Errorf("zones %q and %q share ward prefix %q", owner, name.ToString(), prefix)
		}
		prefixOwner[prefix] = name.ToString()

		wards := make([]WardID, wardsPerZone)
		for w := range wards {
			wards[w] = WardID{value: fmt.Sprintf("%s-W%d", prefix, w+1)}
			t.wardZone[wards[w].ToString()] = name
		}

		t.zoneIdx[name.ToString()] = len(t.zones)
		t.zones = append(t.zones, Zone{name: name, wards: wards})
	}

	return t, nil
}

// DefaultTopology returns the four-zone, two-wards-per-zone city.
func DefaultTopology() Topology {
	t, err := NewTopology(DefaultZones, DefaultWardsPerZone)
	if err != nil {
		panic(err)
	}
	return t
}

func wardPrefix(zone ZoneName) string {
	runes := []rune(zone.ToString())
	return string(runes[:wardPrefixLength])
}

// Zones returns the zones in declared order.
func (t Topology) Zones() []Zone {
	out := make([]Zone, len(t.zones))
	copy(out, t.zones)
	return out
}

// Wards returns every ward, grouped by zone in declared order.
func (t Topology) Wards() []WardID {
	out := make([]WardID, 0, len(t.wardZone))
	for _, z := range t.zones {
		out = append(out, z.wards...)
	}
	return out
}

func (t Topology) Zone(name string) (Zone, bool) {
	i, ok := t.zoneIdx[name]
	if !ok {
		return Zone{}, false
	}
	return t.zones[i], true
}

// LookupWard returns the ward and the zone that owns it.
func (t Topology) LookupWard(id string) (WardID, ZoneName, bool) {
	zone, ok := t.wardZone[id]
	if !ok {
		return WardID{}, ZoneName{}, false
	}
	return WardID{value: id}, zone, true
}

// Validate checks that wardID exists and is owned by zone.
func (t Topology) Validate(wardID, zone string) (WardID, ZoneName, error) {
	ward, owner, ok := t.LookupWard(wardID)
	if !ok {
		return WardID{}, ZoneName{}, fmt.Errorf("%w: unknown ward %q", ErrInvalidWard, wardID)
	}
	if owner.ToString() != zone {
		return WardID{}, ZoneName{}, fmt.Errorf("%w: ward %q belongs to zone %q, not %q", ErrInvalidWard, wardID, owner.ToString(), zone)
	}
	return ward, owner, nil
}

func (t Topology) ToSpec() specs.TopologySpec {
	zones := make([]specs.ZoneSpec, len(t.zones))
	for i, z := range t.zones {
		wards := make([]string, len(z.wards))
		for j, w := range z.wards {
			wards[j] = w.ToString()
		}
		zones[i] = specs.ZoneSpec{Name: z.name.ToString(), Wards: wards}
	}
	return specs.TopologySpec{Zones: zones}
}

type Zone struct {
	name  ZoneName
	wards []WardID
}

func (z Zone) Name() ZoneName {
	return z.name
}

func (z Zone) Wards() []WardID {
	out := make([]WardID, len(z.wards))
	copy(out, z.wards)
	return out
}

type ZoneName struct {
	value string
}

func NewZoneName(value string) (ZoneName, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ZoneName{}, fmt.Errorf("zone name is required")
	}
	if len([]rune(value)) < wardPrefixLength {
		return ZoneName{}, fmt.Errorf("zone name %q must have at least %d letters", value, wardPrefixLength)
	}
	return ZoneName{value: value}, nil
}

func (z ZoneName) ToString() string {
	return z.value
}

type WardID struct {
	value string
}

func (w WardID) ToString() string {
	return w.value
}
