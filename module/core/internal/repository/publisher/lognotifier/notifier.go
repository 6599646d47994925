package lognotifier

import (
	"context"
	"log"

	"github.com/rfakeeh/sheap-app/module/core/domain"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/publisher"
)

var _ publisher.AlertNotifier = (*Notifier)(nil)

// Notifier stands in for the real push-notification channel: alerts are
// observed in the log and nowhere else.
type Notifier struct{}

func New() *Notifier {
	return &Notifier{}
}

func (*Notifier) NotifyOutsideGeofence(_ context.Context, alert *domain.GeofenceAlert) error {
	log.Printf("[GEOFENCE ALERT] member=%s group=%s is OUTSIDE geofence (distance=%.2fm)",
		alert.MemberID, alert.GroupID, alert.DistanceMeters)
	return nil
}
