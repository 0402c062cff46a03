package internal

import (
	"fmt"

	"github.com/chrisconley/greencity/specs"
)

type ScopeKind int

const (
	CityScope ScopeKind = iota
	ZoneScope
	WardScope
)

func (k ScopeKind) String() string {
	switch k {
	case CityScope:
		return "city"
	case ZoneScope:
		return "zone"
	case WardScope:
		return "ward"
	default:
		return "unknown"
	}
}

// Scope selects the records an aggregation applies to. Resolving a scope
// only reads the store.
type Scope struct {
	kind ScopeKind
	zone ZoneName
	ward WardID
}

func City() Scope {
	return Scope{kind: CityScope}
}

func ZoneOf(zone ZoneName) Scope {
	return Scope{kind: ZoneScope, zone: zone}
}

func WardOf(ward WardID) Scope {
	return Scope{kind: WardScope, ward: ward}
}

// NewScope resolves a primitive scope against topology.
//
// Returns ErrUnknownScope for a zone or ward the topology does not declare.
func NewScope(spec specs.ScopeSpec, topology Topology) (Scope, error) {
	switch spec.Kind {
	case "", "city":
		return City(), nil
	case "zone":
		z, ok := topology.Zone(spec.Name)
		if !ok {
			return Scope{}, fmt.Errorf("%w: zone %q", ErrUnknownScope, spec.Name)
		}
		return ZoneOf(z.Name()), nil
	case "ward":
		w, _, ok := topology.LookupWard(spec.Name)
		if !ok {
			return Scope{}, fmt.Errorf("%w: ward %q", ErrUnknownScope, spec.Name)
		}
		return WardOf(w), nil
	default:
		return Scope{}, fmt.Errorf("%w: kind %q", ErrUnknownScope, spec.Kind)
	}
}

func (s Scope) Kind() ScopeKind {
	return s.kind
}

func (s Scope) ToSpec() specs.ScopeSpec {
	switch s.kind {
	case ZoneScope:
		return specs.NewZoneScope(s.zone.ToString())
	case WardScope:
		return specs.NewWardScope(s.ward.ToString())
	default:
		return specs.NewCityScope()
	}
}

func (s Scope) String() string {
	return s.ToSpec().String()
}

func (s Scope) resolve(store *RecordStore) []BatteryRecord {
	switch s.kind {
	case ZoneScope:
		return store.FilterByZone(s.zone)
	case WardScope:
		return store.FilterByWard(s.ward)
	default:
		return store.All()
	}
}
