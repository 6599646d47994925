package domain

// GeofenceStatus is the persisted classification for one (group, member)
// pair. UpdatedAt is an ISO-8601 UTC string, the wire format readers of the
// record expect.
type GeofenceStatus struct {
	GroupID        string  `json:"group_id"`
	MemberID       string  `json:"member_id"`
	IsOutside      bool    `json:"is_outside_geofence"`
	DistanceMeters float64 `json:"distance_meters"`
	UpdatedAt      string  `json:"updated_at"`
}

// GeofenceAlert is emitted once per inside-to-outside crossing.
type GeofenceAlert struct {
	GroupID        string  `json:"group_id"`
	MemberID       string  `json:"member_id"`
	DistanceMeters float64 `json:"distance_meters"`
	Timestamp      int64   `json:"timestamp"`
}
