package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rfakeeh/sheap-app/module/core/domain"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/database"
)

func TestSaveLocation_Success(t *testing.T) {
	var savedPhone string
	var savedLoc domain.Location
	dir := &mockDirectory{
		upsertMemberLocationFn: func(_ context.Context, phoneNumber string, loc domain.Location) error {
			savedPhone = phoneNumber
			savedLoc = loc
			return nil
		},
	}

	svc := NewMemberService(dir, newFakeStatusStore())
	loc := domain.Location{Lat: 24.7136, Lon: 46.6753, UpdatedAt: time.Unix(1715003456, 0)}
	if err := svc.SaveLocation(context.Background(), "+966500000001", loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if savedPhone != "+966500000001" {
		t.Errorf("expected +966500000001, got %s", savedPhone)
	}
	if savedLoc.Lat != 24.7136 {
		t.Errorf("expected 24.7136, got %f", savedLoc.Lat)
	}
}

func TestSaveLocation_RepoError(t *testing.T) {
	dir := &mockDirectory{
		upsertMemberLocationFn: func(_ context.Context, _ string, _ domain.Location) error {
			return errors.New("db error")
		},
	}

	svc := NewMemberService(dir, newFakeStatusStore())
	if err := svc.SaveLocation(context.Background(), "+966500000001", domain.Location{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateGroup_AssignsID(t *testing.T) {
	var created *domain.Group
	dir := &mockDirectory{
		createGroupFn: func(_ context.Context, g *domain.Group) error {
			created = g
			return nil
		},
	}

	svc := NewMemberService(dir, newFakeStatusStore())
	g, err := svc.CreateGroup(context.Background(), "family", "+966500000099", []string{"+966500000001", "+966500000099"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.GroupID == "" {
		t.Error("expected a generated group id")
	}
	if created == nil || created.GroupID != g.GroupID {
		t.Error("expected the generated group to be persisted")
	}
	if g.GroupName != "family" || g.LeaderID != "+966500000099" {
		t.Errorf("unexpected group fields: %+v", g)
	}
}

func TestSetGeofence_Validation(t *testing.T) {
	groupWithLeader := &domain.Group{GroupID: "G", LeaderID: "+966500000099"}
	groupNoLeader := &domain.Group{GroupID: "G"}

	tests := []struct {
		name    string
		group   *domain.Group
		cfg     *domain.GeofenceConfig
		wantErr bool
	}{
		{
			"valid static",
			groupNoLeader,
			&domain.GeofenceConfig{
				Type: domain.GeofenceStaticLocation, RadiusMeters: fptr(1000),
				TargetMemberIDs: []string{"+966500000001"}, StaticLat: fptr(24.7), StaticLon: fptr(46.6),
			},
			false,
		},
		{
			"valid dynamic",
			groupWithLeader,
			&domain.GeofenceConfig{
				Type: domain.GeofenceDynamicLeader, RadiusMeters: fptr(500),
				TargetMemberIDs: []string{"+966500000001"},
			},
			false,
		},
		{
			"missing radius",
			groupNoLeader,
			&domain.GeofenceConfig{
				Type: domain.GeofenceStaticLocation,
				TargetMemberIDs: []string{"+966500000001"}, StaticLat: fptr(24.7), StaticLon: fptr(46.6),
			},
			true,
		},
		{
			"zero radius",
			groupNoLeader,
			&domain.GeofenceConfig{
				Type: domain.GeofenceStaticLocation, RadiusMeters: fptr(0),
				TargetMemberIDs: []string{"+966500000001"}, StaticLat: fptr(24.7), StaticLon: fptr(46.6),
			},
			true,
		},
		{
			"no targets",
			groupNoLeader,
			&domain.GeofenceConfig{
				Type: domain.GeofenceStaticLocation, RadiusMeters: fptr(1000),
				StaticLat: fptr(24.7), StaticLon: fptr(46.6),
			},
			true,
		},
		{
			"static without coordinates",
			groupNoLeader,
			&domain.GeofenceConfig{
				Type: domain.GeofenceStaticLocation, RadiusMeters: fptr(1000),
				TargetMemberIDs: []string{"+966500000001"}, StaticLat: fptr(24.7),
			},
			true,
		},
		{
			"dynamic without leader",
			groupNoLeader,
			&domain.GeofenceConfig{
				Type: domain.GeofenceDynamicLeader, RadiusMeters: fptr(1000),
				TargetMemberIDs: []string{"+966500000001"},
			},
			true,
		},
		{
			"unknown type",
			groupNoLeader,
			&domain.GeofenceConfig{
				Type: "polygon", RadiusMeters: fptr(1000),
				TargetMemberIDs: []string{"+966500000001"},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var updated bool
			dir := &mockDirectory{
				getGroupFn: func(_ context.Context, _ string) (*domain.Group, error) {
					return tt.group, nil
				},
				setGeofenceConfigFn: func(_ context.Context, _ string, _ *domain.GeofenceConfig) error {
					updated = true
					return nil
				},
			}

			svc := NewMemberService(dir, newFakeStatusStore())
			err := svc.SetGeofence(context.Background(), "G", tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetGeofence() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGeofenceConfig) {
					t.Errorf("expected ErrInvalidGeofenceConfig, got %v", err)
				}
				if updated {
					t.Error("invalid config must not be written")
				}
			}
		})
	}
}

func TestSetGeofence_GroupNotFound(t *testing.T) {
	dir := &mockDirectory{
		getGroupFn: func(_ context.Context, _ string) (*domain.Group, error) {
			return nil, database.ErrGroupNotFound
		},
	}

	svc := NewMemberService(dir, newFakeStatusStore())
	err := svc.SetGeofence(context.Background(), "MISSING", &domain.GeofenceConfig{
		Type: domain.GeofenceStaticLocation, RadiusMeters: fptr(1000),
		TargetMemberIDs: []string{"+966500000001"}, StaticLat: fptr(24.7), StaticLon: fptr(46.6),
	})
	if !errors.Is(err, database.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}
