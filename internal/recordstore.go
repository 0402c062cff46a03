package internal

// RecordStore is an append-only, insertion-ordered collection of records.
// It does no locking; the owning Dashboard serializes access.
type RecordStore struct {
	records []BatteryRecord
}

func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

func (s *RecordStore) Append(record BatteryRecord) {
	s.records = append(s.records, record)
}

func (s *RecordStore) Len() int {
	return len(s.records)
}

// All returns a snapshot; later appends are not visible through it.
func (s *RecordStore) All() []BatteryRecord {
	out := make([]BatteryRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *RecordStore) FilterByWard(ward WardID) []BatteryRecord {
	return s.filter(func(r BatteryRecord) bool { return r.Ward == ward })
}

func (s *RecordStore) FilterByZone(zone ZoneName) []BatteryRecord {
	return s.filter(func(r BatteryRecord) bool { return r.Zone == zone })
}

func (s *RecordStore) filter(keep func(BatteryRecord) bool) []BatteryRecord {
	out := make([]BatteryRecord, 0)
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
