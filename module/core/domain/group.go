package domain

type GeofenceType string

const (
	GeofenceStaticLocation GeofenceType = "staticLocation"
	GeofenceDynamicLeader  GeofenceType = "dynamicLeader"
)

// GeofenceConfig describes the circular boundary applied to a group's
// targeted members. RadiusMeters and the static coordinates are pointers:
// stored configs can lack them, and the evaluator must treat absence as a
// configuration error rather than a zero value.
type GeofenceConfig struct {
	Type            GeofenceType `json:"type"`
	RadiusMeters    *float64     `json:"radius_meters"`
	TargetMemberIDs []string     `json:"target_member_ids"`
	StaticLat       *float64     `json:"static_latitude,omitempty"`
	StaticLon       *float64     `json:"static_longitude,omitempty"`
}

// Targets reports whether the given member is geofenced by this config.
func (c *GeofenceConfig) Targets(memberID string) bool {
	for _, id := range c.TargetMemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

type Group struct {
	GroupID   string          `json:"group_id"`
	GroupName string          `json:"group_name"`
	LeaderID  string          `json:"leader_id,omitempty"`
	MemberIDs []string        `json:"member_ids"`
	Geofence  *GeofenceConfig `json:"geofence_config,omitempty"`
}
