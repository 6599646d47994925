package publisher

import (
	"context"

	"github.com/rfakeeh/sheap-app/module/core/domain"
)

// AlertNotifier delivers a geofence alert to whatever channel is wired in.
// Dispatch failures are observed by the caller, never fatal to evaluation.
type AlertNotifier interface {
	NotifyOutsideGeofence(ctx context.Context, alert *domain.GeofenceAlert) error
}
