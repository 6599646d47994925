package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/rfakeeh/sheap-app/module/core/domain"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/database"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/publisher"
)

const earthRadiusMeters = 6371000

// SkipReason explains why a (group, member) pair was not evaluated.
type SkipReason string

const (
	SkipMissingRadius             SkipReason = "missing radius"
	SkipMissingStaticCoordinates  SkipReason = "missing static coordinates"
	SkipNoLeaderConfigured        SkipReason = "no leader configured"
	SkipLeaderLocationUnavailable SkipReason = "leader location unavailable"
	SkipUnknownGeofenceType       SkipReason = "unknown geofence type"
)

type SkippedPair struct {
	GroupID string
	Reason  SkipReason
}

// EvaluationSummary reports what one location-update evaluation did.
type EvaluationSummary struct {
	Evaluated int
	Alerts    int
	Skipped   []SkippedPair
}

// GeofenceService evaluates a member's position against every geofence that
// targets them and raises an alert on the first inside-to-outside crossing.
type GeofenceService struct {
	directory database.Directory
	statuses  database.GeofenceStatusStore
	notifier  publisher.AlertNotifier
	now       func() time.Time
}

func NewGeofenceService(directory database.Directory, statuses database.GeofenceStatusStore, notifier publisher.AlertNotifier) *GeofenceService {
	return &GeofenceService{
		directory: directory,
		statuses:  statuses,
		notifier:  notifier,
		now:       time.Now,
	}
}

// EvaluateMember runs one evaluation pass for a member location update.
// Configuration problems skip the affected pair and continue with the rest;
// store failures abort and propagate so the trigger layer can redeliver.
// Replaying the same update is safe: the alert decision reads the persisted
// status, so a pair already recorded as outside never re-alerts.
func (s *GeofenceService) EvaluateMember(ctx context.Context, member *domain.Member) (*EvaluationSummary, error) {
	summary := &EvaluationSummary{}

	if member == nil || member.LastKnown == nil {
		log.Printf("[GEOFENCE] member has no last known location, skipping")
		return summary, nil
	}
	loc := member.LastKnown
	evaluationsTotal.Inc()
	log.Printf("[GEOFENCE] processing member %s at (%f, %f)", member.PhoneNumber, loc.Lat, loc.Lon)

	groups, err := s.directory.GroupsWithMember(ctx, member.PhoneNumber)
	if err != nil {
		return summary, fmt.Errorf("list groups for member %s: %w", member.PhoneNumber, err)
	}

	nowISO := s.now().UTC().Format(time.RFC3339)

	for _, group := range groups {
		cfg := group.Geofence
		if cfg == nil || !cfg.Targets(member.PhoneNumber) {
			continue
		}

		if cfg.RadiusMeters == nil {
			s.skip(summary, group.GroupID, member.PhoneNumber, SkipMissingRadius)
			continue
		}
		radius := *cfg.RadiusMeters

		center, skipReason, err := s.resolveCenter(ctx, &group)
		if err != nil {
			return summary, err
		}
		if skipReason != "" {
			s.skip(summary, group.GroupID, member.PhoneNumber, skipReason)
			continue
		}

		dist := haversine(loc.Lat, loc.Lon, center.lat, center.lon)
		isOutside := dist > radius
		log.Printf("[DISTANCE] group=%s member=%s distance=%.2f radius=%.2f isOutside=%t",
			group.GroupID, member.PhoneNumber, dist, radius, isOutside)

		prev, err := s.statuses.Get(ctx, group.GroupID, member.PhoneNumber)
		if err != nil {
			return summary, fmt.Errorf("read geofence status %s/%s: %w", group.GroupID, member.PhoneNumber, err)
		}
		wasOutside := prev != nil && prev.IsOutside

		// Alert before persisting: if we crash in between, redelivery sees
		// the stale status and dispatches again rather than never.
		if !wasOutside && isOutside {
			summary.Alerts++
			alert := &domain.GeofenceAlert{
				GroupID:        group.GroupID,
				MemberID:       member.PhoneNumber,
				DistanceMeters: dist,
				Timestamp:      s.now().Unix(),
			}
			if err := s.notifier.NotifyOutsideGeofence(ctx, alert); err != nil {
				log.Printf("[ALERT] dispatch failed group=%s member=%s: %v", group.GroupID, member.PhoneNumber, err)
				alertFailuresTotal.Inc()
			} else {
				alertsTotal.Inc()
			}
		}

		status := &domain.GeofenceStatus{
			GroupID:        group.GroupID,
			MemberID:       member.PhoneNumber,
			IsOutside:      isOutside,
			DistanceMeters: dist,
			UpdatedAt:      nowISO,
		}
		if err := s.statuses.Merge(ctx, status); err != nil {
			return summary, fmt.Errorf("merge geofence status %s/%s: %w", group.GroupID, member.PhoneNumber, err)
		}
		summary.Evaluated++
		pairsEvaluatedTotal.Inc()
	}

	return summary, nil
}

func (s *GeofenceService) skip(summary *EvaluationSummary, groupID, memberID string, reason SkipReason) {
	log.Printf("[GEOFENCE] group=%s member=%s skipped: %s", groupID, memberID, reason)
	summary.Skipped = append(summary.Skipped, SkippedPair{GroupID: groupID, Reason: reason})
	pairsSkippedTotal.WithLabelValues(string(reason)).Inc()
}

type coordinate struct {
	lat, lon float64
}

// resolveCenter determines the geofence center for a group. A non-empty
// SkipReason means the pair cannot be evaluated; a non-nil error is a store
// failure.
func (s *GeofenceService) resolveCenter(ctx context.Context, group *domain.Group) (coordinate, SkipReason, error) {
	cfg := group.Geofence

	switch cfg.Type {
	case domain.GeofenceStaticLocation:
		if cfg.StaticLat == nil || cfg.StaticLon == nil {
			return coordinate{}, SkipMissingStaticCoordinates, nil
		}
		return coordinate{lat: *cfg.StaticLat, lon: *cfg.StaticLon}, "", nil

	case domain.GeofenceDynamicLeader:
		if group.LeaderID == "" {
			return coordinate{}, SkipNoLeaderConfigured, nil
		}
		leader, err := s.directory.GetMember(ctx, group.LeaderID)
		if err != nil {
			return coordinate{}, "", fmt.Errorf("lookup leader %s: %w", group.LeaderID, err)
		}
		if leader == nil || leader.LastKnown == nil {
			return coordinate{}, SkipLeaderLocationUnavailable, nil
		}
		return coordinate{lat: leader.LastKnown.Lat, lon: leader.LastKnown.Lon}, "", nil

	default:
		return coordinate{}, SkipUnknownGeofenceType, nil
	}
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
