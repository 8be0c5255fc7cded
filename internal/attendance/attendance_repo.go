package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	// LockVolunteer takes a row lock on the volunteer inside the current
	// transaction, serializing concurrent scans for the same volunteer, and
	// returns the display name. Returns (nil, nil) when the volunteer does
	// not exist.
	LockVolunteer(ctx context.Context, volunteerID string) (*VolunteerRef, error)

	// FindOpenByVolunteer returns the most recent record with no checkout
	// for the volunteer, or (nil, nil) when there is none.
	FindOpenByVolunteer(ctx context.Context, volunteerID string) (*AttendanceRecord, error)

	Create(ctx context.Context, rec *AttendanceRecord) error
	Complete(ctx context.Context, rec *AttendanceRecord) error

	FindAll(ctx context.Context, filter ListFilter) ([]AttendanceRecord, error)
	SumDurationBetween(ctx context.Context, start, end time.Time) (int64, error)
	CountDistinctVolunteersBetween(ctx context.Context, start, end time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) LockVolunteer(ctx context.Context, volunteerID string) (*VolunteerRef, error) {
	if r.tx == nil {
		return nil, errors.New("lock volunteer requires a transaction")
	}

	row := r.tx.QueryRowContext(ctx, `
		SELECT id, name
		FROM volunteers
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, volunteerID)

	var ref VolunteerRef
	if err := row.Scan(&ref.ID, &ref.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

func (r *repository) FindOpenByVolunteer(ctx context.Context, volunteerID string) (*AttendanceRecord, error) {
	if r.tx != nil {
		row := r.tx.QueryRowContext(ctx, `
			SELECT id, volunteer_id, check_in_time, check_out_time, duration_minutes, status, recorded_by_id
			FROM attendance_records
			WHERE volunteer_id = $1 AND check_out_time IS NULL
			ORDER BY check_in_time DESC
			LIMIT 1
			FOR UPDATE
		`, volunteerID)

		var rec AttendanceRecord
		err := row.Scan(
			&rec.ID, &rec.VolunteerID, &rec.CheckInTime,
			&rec.CheckOutTime, &rec.DurationMinutes, &rec.Status, &rec.RecordedByID,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, err
		}
		return &rec, nil
	}

	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("volunteer_id = ?", volunteerID).
		Where("check_out_time IS NULL").
		Order("check_in_time DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Create(ctx context.Context, rec *AttendanceRecord) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO attendance_records (id, volunteer_id, check_in_time, status, recorded_by_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		`, rec.ID, rec.VolunteerID, rec.CheckInTime, rec.Status, rec.RecordedByID)
		return err
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) Complete(ctx context.Context, rec *AttendanceRecord) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			UPDATE attendance_records
			SET check_out_time = $2, duration_minutes = $3, status = $4, recorded_by_id = $5, updated_at = NOW()
			WHERE id = $1
		`, rec.ID, rec.CheckOutTime, rec.DurationMinutes, rec.Status, rec.RecordedByID)
		return err
	}
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]AttendanceRecord, error) {
	q := r.db.WithContext(ctx).Preload("Volunteer")

	if filter.VolunteerID != "" {
		q = q.Where("volunteer_id = ?", filter.VolunteerID)
	}
	if filter.StartDate != nil {
		q = q.Where("check_in_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("check_in_time <= ?", *filter.EndDate)
	}

	var rows []AttendanceRecord
	err := q.Order("check_in_time DESC").Find(&rows).Error
	return rows, err
}

// SumDurationBetween totals completed minutes for records whose check-in
// falls inside the window. Open records carry no duration yet and are
// excluded by the NULL filter.
func (r *repository) SumDurationBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var total sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Select("SUM(duration_minutes)").
		Where("check_in_time BETWEEN ? AND ?", start, end).
		Where("duration_minutes IS NOT NULL").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

func (r *repository) CountDistinctVolunteersBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Where("check_in_time BETWEEN ? AND ?", start, end).
		Distinct("volunteer_id").
		Count(&count).Error
	return count, err
}
