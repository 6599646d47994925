package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rfakeeh/sheap-app/module/core/domain"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/database"
)

// ErrInvalidGeofenceConfig marks a config rejected at write time, before it
// can ever reach the evaluator.
var ErrInvalidGeofenceConfig = errors.New("invalid geofence config")

type MemberService struct {
	directory database.Directory
	statuses  database.GeofenceStatusStore
}

func NewMemberService(directory database.Directory, statuses database.GeofenceStatusStore) *MemberService {
	return &MemberService{directory: directory, statuses: statuses}
}

func (s *MemberService) RegisterMember(ctx context.Context, m *domain.Member) error {
	return s.directory.UpsertMember(ctx, m)
}

func (s *MemberService) SaveLocation(ctx context.Context, phoneNumber string, loc domain.Location) error {
	return s.directory.UpsertMemberLocation(ctx, phoneNumber, loc)
}

func (s *MemberService) GetMember(ctx context.Context, phoneNumber string) (*domain.Member, error) {
	return s.directory.GetMember(ctx, phoneNumber)
}

func (s *MemberService) CreateGroup(ctx context.Context, name, leaderID string, memberIDs []string) (*domain.Group, error) {
	g := &domain.Group{
		GroupID:   uuid.NewString(),
		GroupName: name,
		LeaderID:  leaderID,
		MemberIDs: memberIDs,
	}
	if err := s.directory.CreateGroup(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *MemberService) SetGeofence(ctx context.Context, groupID string, cfg *domain.GeofenceConfig) error {
	group, err := s.directory.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := validateGeofenceConfig(group, cfg); err != nil {
		return err
	}
	return s.directory.SetGeofenceConfig(ctx, groupID, cfg)
}

func (s *MemberService) GroupStatuses(ctx context.Context, groupID string) ([]domain.GeofenceStatus, error) {
	return s.statuses.ListByGroup(ctx, groupID)
}

func (s *MemberService) GetStatus(ctx context.Context, groupID, memberID string) (*domain.GeofenceStatus, error) {
	return s.statuses.Get(ctx, groupID, memberID)
}

func validateGeofenceConfig(group *domain.Group, cfg *domain.GeofenceConfig) error {
	if cfg.RadiusMeters == nil || *cfg.RadiusMeters <= 0 {
		return fmt.Errorf("%w: radius_meters must be > 0", ErrInvalidGeofenceConfig)
	}
	if len(cfg.TargetMemberIDs) == 0 {
		return fmt.Errorf("%w: target_member_ids must not be empty", ErrInvalidGeofenceConfig)
	}

	switch cfg.Type {
	case domain.GeofenceStaticLocation:
		if cfg.StaticLat == nil || cfg.StaticLon == nil {
			return fmt.Errorf("%w: staticLocation requires static_latitude and static_longitude", ErrInvalidGeofenceConfig)
		}
	case domain.GeofenceDynamicLeader:
		if group.LeaderID == "" {
			return fmt.Errorf("%w: dynamicLeader requires the group to have a leader", ErrInvalidGeofenceConfig)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidGeofenceConfig, cfg.Type)
	}
	return nil
}
