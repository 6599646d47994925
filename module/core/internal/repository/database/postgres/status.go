package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rfakeeh/sheap-app/module/core/domain"
	"github.com/rfakeeh/sheap-app/module/core/internal/repository/database"
)

var _ database.GeofenceStatusStore = (*StatusStore)(nil)

type StatusStore struct {
	db *sql.DB
}

func NewStatusStore(db *sql.DB) *StatusStore {
	return &StatusStore{db: db}
}

func (s *StatusStore) Get(ctx context.Context, groupID, memberID string) (*domain.GeofenceStatus, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT group_id, member_id, is_outside, distance_meters, updated_at
		 FROM geofence_statuses WHERE group_id = $1 AND member_id = $2`,
		groupID, memberID,
	)

	var st domain.GeofenceStatus
	if err := row.Scan(&st.GroupID, &st.MemberID, &st.IsOutside, &st.DistanceMeters, &st.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// Merge writes only the status fields. The ON CONFLICT update keeps the
// partial-update contract: anything else on the row survives.
func (s *StatusStore) Merge(ctx context.Context, status *domain.GeofenceStatus) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO geofence_statuses (group_id, member_id, is_outside, distance_meters, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (group_id, member_id) DO UPDATE SET
		   is_outside = EXCLUDED.is_outside,
		   distance_meters = EXCLUDED.distance_meters,
		   updated_at = EXCLUDED.updated_at`,
		status.GroupID, status.MemberID, status.IsOutside, status.DistanceMeters, status.UpdatedAt,
	)
	return err
}

func (s *StatusStore) ListByGroup(ctx context.Context, groupID string) ([]domain.GeofenceStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, member_id, is_outside, distance_meters, updated_at
		 FROM geofence_statuses WHERE group_id = $1 ORDER BY member_id`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.GeofenceStatus
	for rows.Next() {
		var st domain.GeofenceStatus
		if err := rows.Scan(&st.GroupID, &st.MemberID, &st.IsOutside, &st.DistanceMeters, &st.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, st)
	}
	return results, rows.Err()
}
