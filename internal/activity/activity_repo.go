package activity

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=activity_repo.go -destination=mock/activity_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, entry *ActivityLog) error
	ListRecent(ctx context.Context, limit int) ([]ActivityLog, error)
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

// Create runs on the caller's transaction when one is active so the log
// entry commits together with the attendance transition it documents.
func (r *repository) Create(ctx context.Context, entry *ActivityLog) error {
	if r.tx != nil {
		query := `
			INSERT INTO activity_logs (id, type, volunteer_id, timestamp, details, recorded_by_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := r.tx.ExecContext(ctx, query,
			entry.ID, entry.Type, entry.VolunteerID, entry.Timestamp, entry.Details, entry.RecordedByID,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]ActivityLog, error) {
	var rows []ActivityLog
	err := r.db.WithContext(ctx).
		Preload("Volunteer").
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
