package specs

import (
	"fmt"
	"strings"
)

// ScopeSpec selects the subset of records an aggregation applies to.
//
// Kinds:
//   - "city": every record of the session
//   - "zone": records whose Zone equals Name
//   - "ward": records whose WardID equals Name
//
// Resolving a scope never mutates the record store.
type ScopeSpec struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
}

func NewCityScope() ScopeSpec {
	return ScopeSpec{Kind: "city"}
}

func NewZoneScope(zone string) ScopeSpec {
	return ScopeSpec{Kind: "zone", Name: zone}
}

func NewWardScope(wardID string) ScopeSpec {
	return ScopeSpec{Kind: "ward", Name: wardID}
}

// ParseScope reads the textual form used by the CLI and HTTP API:
// "city", "zone:<name>" or "ward:<id>". An empty string is the city scope.
func ParseScope(s string) (ScopeSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "city") {
		return NewCityScope(), nil
	}

	kind, name, found := strings.Cut(s, ":")
	if !found || strings.TrimSpace(name) == "" {
		return ScopeSpec{}, fmt.Errorf("scope %q: expected city, zone:<name> or ward:<id>", s)
	}

	switch strings.ToLower(kind) {
	case "zone":
		return NewZoneScope(strings.TrimSpace(name)), nil
	case "ward":
		return NewWardScope(strings.TrimSpace(name)), nil
	default:
		return ScopeSpec{}, fmt.Errorf("scope %q: unknown kind %q", s, kind)
	}
}

// String is the inverse of ParseScope.
func (s ScopeSpec) String() string {
	if s.Kind == "city" || s.Kind == "" {
		return "city"
	}
	return s.Kind + ":" + s.Name
}
