package specs

// TopologySpec is the fixed zone/ward hierarchy of the city.
//
// Zones keep their declared order. Each zone owns its wards, whose identifiers
// are "<first three letters of zone>-W<index>" with index starting at 1, so the
// owning zone of a ward is recoverable from its prefix.
type TopologySpec struct {
	Zones []ZoneSpec `json:"zones"`
}

// ZoneSpec is one zone and its wards in index order.
type ZoneSpec struct {
	Name  string   `json:"name"`
	Wards []string `json:"wards"`
}
