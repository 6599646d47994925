package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/rfakeeh/sheap-app/module/core/domain"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/database"
)

func TestUpsertMemberLocation_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	ts := time.Unix(1715003456, 0)
	mock.ExpectExec(`INSERT INTO members`).
		WithArgs("+966500000001", 24.7136, 46.6753, ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dir := NewDirectory(db)
	err = dir.UpsertMemberLocation(context.Background(), "+966500000001",
		domain.Location{Lat: 24.7136, Lon: 46.6753, UpdatedAt: ts})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetMember_WithLocation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	ts := time.Unix(1715003456, 0)
	rows := sqlmock.NewRows([]string{"phone_number", "full_name", "latitude", "longitude", "location_updated_at"}).
		AddRow("+966500000001", "Aisha", 24.7136, 46.6753, ts)

	mock.ExpectQuery(`SELECT phone_number, full_name, latitude, longitude, location_updated_at FROM members`).
		WithArgs("+966500000001").
		WillReturnRows(rows)

	dir := NewDirectory(db)
	m, err := dir.GetMember(context.Background(), "+966500000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.FullName != "Aisha" {
		t.Errorf("expected Aisha, got %s", m.FullName)
	}
	if m.LastKnown == nil || m.LastKnown.Lat != 24.7136 {
		t.Fatalf("expected last known location, got %+v", m.LastKnown)
	}
}

func TestGetMember_NoLocation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"phone_number", "full_name", "latitude", "longitude", "location_updated_at"}).
		AddRow("+966500000001", "Aisha", nil, nil, nil)

	mock.ExpectQuery(`SELECT phone_number, full_name, latitude, longitude, location_updated_at FROM members`).
		WithArgs("+966500000001").
		WillReturnRows(rows)

	dir := NewDirectory(db)
	m, err := dir.GetMember(context.Background(), "+966500000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.LastKnown != nil {
		t.Errorf("expected nil last known location, got %+v", m.LastKnown)
	}
}

func TestGetMember_Absent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT phone_number, full_name, latitude, longitude, location_updated_at FROM members`).
		WithArgs("+966500009999").
		WillReturnRows(sqlmock.NewRows([]string{"phone_number", "full_name", "latitude", "longitude", "location_updated_at"}))

	dir := NewDirectory(db)
	m, err := dir.GetMember(context.Background(), "+966500009999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Errorf("expected nil member, got %+v", m)
	}
}

func TestGroupsWithMember_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	cols := []string{"group_id", "group_name", "leader_id", "member_ids",
		"geofence_type", "radius_meters", "target_member_ids", "static_latitude", "static_longitude"}
	rows := sqlmock.NewRows(cols).
		AddRow("G1", "family", "+966500000099", "{+966500000001,+966500000099}",
			"staticLocation", 1000.0, "{+966500000001}", 24.7136, 46.6753).
		AddRow("G2", "friends", nil, "{+966500000001}",
			nil, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT group_id, group_name, leader_id, member_ids`).
		WithArgs("+966500000001").
		WillReturnRows(rows)

	dir := NewDirectory(db)
	groups, err := dir.GroupsWithMember(context.Background(), "+966500000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	g1 := groups[0]
	if g1.Geofence == nil {
		t.Fatal("expected G1 to carry a geofence config")
	}
	if g1.Geofence.Type != domain.GeofenceStaticLocation {
		t.Errorf("expected staticLocation, got %s", g1.Geofence.Type)
	}
	if g1.Geofence.RadiusMeters == nil || *g1.Geofence.RadiusMeters != 1000 {
		t.Errorf("expected radius 1000, got %v", g1.Geofence.RadiusMeters)
	}
	if len(g1.Geofence.TargetMemberIDs) != 1 || g1.Geofence.TargetMemberIDs[0] != "+966500000001" {
		t.Errorf("unexpected targets: %v", g1.Geofence.TargetMemberIDs)
	}

	if groups[1].Geofence != nil {
		t.Error("expected G2 to have no geofence config")
	}
}

func TestCreateGroup_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`INSERT INTO groups`).
		WithArgs("G1", "family", "+966500000099", pq.Array([]string{"+966500000001", "+966500000099"})).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dir := NewDirectory(db)
	err = dir.CreateGroup(context.Background(), &domain.Group{
		GroupID:   "G1",
		GroupName: "family",
		LeaderID:  "+966500000099",
		MemberIDs: []string{"+966500000001", "+966500000099"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSetGeofenceConfig_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	radius := 1000.0
	lat, lon := 24.7136, 46.6753
	mock.ExpectExec(`UPDATE groups SET`).
		WithArgs("G1", "staticLocation", radius, pq.Array([]string{"+966500000001"}), lat, lon).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dir := NewDirectory(db)
	err = dir.SetGeofenceConfig(context.Background(), "G1", &domain.GeofenceConfig{
		Type:            domain.GeofenceStaticLocation,
		RadiusMeters:    &radius,
		TargetMemberIDs: []string{"+966500000001"},
		StaticLat:       &lat,
		StaticLon:       &lon,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetGeofenceConfig_GroupNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	radius := 1000.0
	mock.ExpectExec(`UPDATE groups SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	dir := NewDirectory(db)
	err = dir.SetGeofenceConfig(context.Background(), "MISSING", &domain.GeofenceConfig{
		Type:            domain.GeofenceDynamicLeader,
		RadiusMeters:    &radius,
		TargetMemberIDs: []string{"+966500000001"},
	})
	if !errors.Is(err, database.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}
