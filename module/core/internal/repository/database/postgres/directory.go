package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/rfakeeh/sheap-app/module/core/domain"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/database"
)

var _ database.Directory = (*Directory)(nil)

type Directory struct {
	db *sql.DB
}

func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) UpsertMember(ctx context.Context, m *domain.Member) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO members (phone_number, full_name) VALUES ($1, $2)
		 ON CONFLICT (phone_number) DO UPDATE SET full_name = EXCLUDED.full_name`,
		m.PhoneNumber, m.FullName,
	)
	return err
}

func (d *Directory) UpsertMemberLocation(ctx context.Context, phoneNumber string, loc domain.Location) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO members (phone_number, full_name, latitude, longitude, location_updated_at)
		 VALUES ($1, '', $2, $3, $4)
		 ON CONFLICT (phone_number) DO UPDATE SET
		   latitude = EXCLUDED.latitude,
		   longitude = EXCLUDED.longitude,
		   location_updated_at = EXCLUDED.location_updated_at`,
		phoneNumber, loc.Lat, loc.Lon, loc.UpdatedAt,
	)
	return err
}

func (d *Directory) GetMember(ctx context.Context, phoneNumber string) (*domain.Member, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT phone_number, full_name, latitude, longitude, location_updated_at
		 FROM members WHERE phone_number = $1`,
		phoneNumber,
	)

	var m domain.Member
	var lat, lon sql.NullFloat64
	var updatedAt sql.NullTime
	if err := row.Scan(&m.PhoneNumber, &m.FullName, &lat, &lon, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	// A member only has a usable location when both coordinates are set.
	if lat.Valid && lon.Valid {
		m.LastKnown = &domain.Location{Lat: lat.Float64, Lon: lon.Float64, UpdatedAt: updatedAt.Time}
	}
	return &m, nil
}

func (d *Directory) GroupsWithMember(ctx context.Context, phoneNumber string) ([]domain.Group, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT group_id, group_name, leader_id, member_ids,
		        geofence_type, radius_meters, target_member_ids, static_latitude, static_longitude
		 FROM groups WHERE $1 = ANY(member_ids)`,
		phoneNumber,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *g)
	}
	return results, rows.Err()
}

func (d *Directory) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT group_id, group_name, leader_id, member_ids,
		        geofence_type, radius_meters, target_member_ids, static_latitude, static_longitude
		 FROM groups WHERE group_id = $1`,
		groupID,
	)

	g, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrGroupNotFound
		}
		return nil, err
	}
	return g, nil
}

func (d *Directory) CreateGroup(ctx context.Context, g *domain.Group) error {
	leader := sql.NullString{String: g.LeaderID, Valid: g.LeaderID != ""}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO groups (group_id, group_name, leader_id, member_ids) VALUES ($1, $2, $3, $4)`,
		g.GroupID, g.GroupName, leader, pq.Array(g.MemberIDs),
	)
	return err
}

func (d *Directory) SetGeofenceConfig(ctx context.Context, groupID string, cfg *domain.GeofenceConfig) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE groups SET
		   geofence_type = $2,
		   radius_meters = $3,
		   target_member_ids = $4,
		   static_latitude = $5,
		   static_longitude = $6
		 WHERE group_id = $1`,
		groupID, string(cfg.Type), cfg.RadiusMeters, pq.Array(cfg.TargetMemberIDs), cfg.StaticLat, cfg.StaticLon,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrGroupNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*domain.Group, error) {
	var g domain.Group
	var leader sql.NullString
	var memberIDs pq.StringArray
	var gfType sql.NullString
	var radius, staticLat, staticLon sql.NullFloat64
	var targetIDs pq.StringArray

	if err := row.Scan(&g.GroupID, &g.GroupName, &leader, &memberIDs,
		&gfType, &radius, &targetIDs, &staticLat, &staticLon); err != nil {
		return nil, err
	}

	g.LeaderID = leader.String
	g.MemberIDs = memberIDs

	if gfType.Valid {
		cfg := &domain.GeofenceConfig{
			Type:            domain.GeofenceType(gfType.String),
			TargetMemberIDs: targetIDs,
		}
		if radius.Valid {
			r := radius.Float64
			cfg.RadiusMeters = &r
		}
		if staticLat.Valid {
			v := staticLat.Float64
			cfg.StaticLat = &v
		}
		if staticLon.Valid {
			v := staticLon.Float64
			cfg.StaticLon = &v
		}
		g.Geofence = cfg
	}
	return &g, nil
}
