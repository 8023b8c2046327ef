package zone

// ZoneStatus is the availability state of a zone.
type ZoneStatus string

const (
	ZoneStatusAvailable   ZoneStatus = "AVAILABLE"
	ZoneStatusBooked      ZoneStatus = "BOOKED"
	ZoneStatusUnavailable ZoneStatus = "UNAVAILABLE"
)

func (zs ZoneStatus) String() string {
	return string(zs)
}

func (zs ZoneStatus) IsValid() bool {
	switch zs {
	case ZoneStatusAvailable, ZoneStatusBooked, ZoneStatusUnavailable:
		return true
	default:
		return false
	}
}

// IsBookable returns true if the workflow may create a booking for the zone.
func (zs ZoneStatus) IsBookable() bool {
	return zs == ZoneStatusAvailable
}

// GetAllZoneStatuses returns all valid zone statuses
func GetAllZoneStatuses() []ZoneStatus {
	return []ZoneStatus{
		ZoneStatusAvailable,
		ZoneStatusBooked,
		ZoneStatusUnavailable,
	}
}
