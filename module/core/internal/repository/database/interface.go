package database

import (
	"context"
	"errors"

	"github.com/rfakeeh/sheap-app/module/core/domain"
)

// ErrGroupNotFound is returned by Directory methods keyed by a group id
// that does not exist.
var ErrGroupNotFound = errors.New("group not found")

// Directory reads and writes members and their group memberships.
type Directory interface {
	UpsertMember(ctx context.Context, m *domain.Member) error
	UpsertMemberLocation(ctx context.Context, phoneNumber string, loc domain.Location) error
	// GetMember returns nil, nil when the member does not exist.
	GetMember(ctx context.Context, phoneNumber string) (*domain.Member, error)
	GroupsWithMember(ctx context.Context, phoneNumber string) ([]domain.Group, error)
	GetGroup(ctx context.Context, groupID string) (*domain.Group, error)
	CreateGroup(ctx context.Context, g *domain.Group) error
	SetGeofenceConfig(ctx context.Context, groupID string, cfg *domain.GeofenceConfig) error
}

// GeofenceStatusStore persists the per-(group, member) classification.
type GeofenceStatusStore interface {
	// Get returns nil, nil when no record exists for the pair yet.
	Get(ctx context.Context, groupID, memberID string) (*domain.GeofenceStatus, error)
	// Merge upserts the status fields, leaving any other columns untouched.
	Merge(ctx context.Context, status *domain.GeofenceStatus) error
	ListByGroup(ctx context.Context, groupID string) ([]domain.GeofenceStatus, error)
}
