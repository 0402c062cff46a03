package internal

import "fmt"

// Status is the disposal category of a battery.
type Status int

const (
	Reusable Status = iota
	Recyclable
	Hazardous
)

// statusCount must follow the last Status constant.
const statusCount = 3

// AllStatuses returns every status in declaration order.
func AllStatuses() []Status {
	return []Status{Reusable, Recyclable, Hazardous}
}

func (s Status) String() string {
	switch s {
	case Reusable:
		return "Reusable"
	case Recyclable:
		return "Recyclable"
	case Hazardous:
		return "Hazardous"
	default:
		return "Unknown"
	}
}

func (s Status) valid() bool {
	return s >= Reusable && s <= Hazardous
}

// ParseStatus accepts the exact names returned by String.
func ParseStatus(value string) (Status, error) {
	for _, s := range AllStatuses() {
		if s.String() == value {
			return s, nil
		}
	}
	return 0, fmt.Errorf("invalid status: %q", value)
}
