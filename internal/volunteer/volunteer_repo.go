package volunteer

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=volunteer_repo.go -destination=mock/volunteer_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, v *Volunteer) error
	FindAll(ctx context.Context) ([]Volunteer, error)
	FindByID(ctx context.Context, id string) (*Volunteer, error)
	FindByEmail(ctx context.Context, email string) (*Volunteer, error)
	RecentAttendances(ctx context.Context, id string, limit int) ([]AttendanceRef, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	Update(ctx context.Context, v *Volunteer) error
	Delete(ctx context.Context, id string) error
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

// Create runs on the caller's transaction when one is active so the row and
// its outbox event commit or roll back together.
func (r *repository) Create(ctx context.Context, v *Volunteer) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO volunteers (
				id, volunteer_number, name, email, phone, address,
				skills, availability, status, created_by_id, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		`, v.ID, v.VolunteerNumber, v.Name, v.Email, v.Phone, v.Address,
			v.Skills, v.Availability, v.Status, v.CreatedByID)
		return err
	}
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Volunteer, error) {
	var rows []Volunteer
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Volunteer, error) {
	var v Volunteer
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	return &v, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Volunteer, error) {
	var v Volunteer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&v).Error
	return &v, err
}

func (r *repository) RecentAttendances(ctx context.Context, id string, limit int) ([]AttendanceRef, error) {
	var rows []AttendanceRef
	err := r.db.WithContext(ctx).
		Where("volunteer_id = ?", id).
		Order("check_in_time DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Volunteer{}).Count(&count).Error
	return count, err
}

func (r *repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Volunteer{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, v *Volunteer) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Volunteer{}, "id = ?", id).Error
}
