package specs

// BatteryRecordSpec represents one classified battery.
//
// A record is created by generating a measurement for a ward, classifying it
// and appending it to the session's record store. Records are never updated
// or removed for the lifetime of the session.
type BatteryRecordSpec struct {
	// Session-unique identifier.
	//
	// Format "BAT<n>" where n starts at 1 and increases by exactly one for every
	// battery added to the session. Identifiers are never reused.
	ID string `json:"battery_id"`

	// Ward the battery was collected in.
	//
	// Must be a ward of the topology, e.g. "Res-W1", "Pub-W2".
	WardID string `json:"ward_id"`

	// Zone that owns WardID.
	//
	// Always equal to the owning zone of WardID. Examples: "Residential",
	// "Public Services".
	Zone string `json:"zone"`

	// Raw reading the status was derived from.
	Measurement MeasurementSpec `json:"measurement"`

	// Internal resistance in ohms, derived once from Measurement.
	InternalResistance string `json:"internal_resistance"`

	// Disposal status derived from Measurement and InternalResistance.
	//
	// One of "Reusable", "Recyclable", "Hazardous". Never set independently of
	// the measurement.
	Status string `json:"status"`
}

// AddBattery generates, classifies and stores a battery for the given ward.
//
// Returns error if wardID is unknown or not owned by zone.
//
// See internal.Dashboard.AddBattery for the reference implementation.
type AddBattery func(wardID, zone string) (BatteryRecordSpec, error)
