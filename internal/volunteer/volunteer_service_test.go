package volunteer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shankar7055/sewa-volunteer-app/internal/messaging/kafka"
	volunteererrors "github.com/shankar7055/sewa-volunteer-app/internal/volunteer/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn            func(ctx context.Context, v *Volunteer) error
	findAllFn           func(ctx context.Context) ([]Volunteer, error)
	findByIDFn          func(ctx context.Context, id string) (*Volunteer, error)
	findByEmailFn       func(ctx context.Context, email string) (*Volunteer, error)
	recentAttendancesFn func(ctx context.Context, id string, limit int) ([]AttendanceRef, error)
	updateFn            func(ctx context.Context, v *Volunteer) error
	deleteFn            func(ctx context.Context, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, v *Volunteer) error { return f.createFn(ctx, v) }
func (f *fakeRepo) FindAll(ctx context.Context) ([]Volunteer, error) { return f.findAllFn(ctx) }
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Volunteer, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*Volunteer, error) {
	return f.findByEmailFn(ctx, email)
}
func (f *fakeRepo) RecentAttendances(ctx context.Context, id string, limit int) ([]AttendanceRef, error) {
	return f.recentAttendancesFn(ctx, id, limit)
}
func (f *fakeRepo) CountAll(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	return 0, nil
}
func (f *fakeRepo) Update(ctx context.Context, v *Volunteer) error { return f.updateFn(ctx, v) }
func (f *fakeRepo) Delete(ctx context.Context, id string) error    { return f.deleteFn(ctx, id) }

type fakeCounter struct {
	next int64
	err  error
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	return f.next, nil
}

func TestCreate_AssignsVolunteerNumberAndDefaultStatus(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var saved *Volunteer
	repo := &fakeRepo{
		findByEmailFn: func(ctx context.Context, email string) (*Volunteer, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, v *Volunteer) error {
			saved = v
			return nil
		},
	}

	svc := NewService(db, repo, &fakeCounter{next: 41}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), uuid.New().String(), CreateVolunteerRequest{
		Name:  "Asha Patel",
		Email: "asha@example.org",
	})
	assert.NoError(t, err)
	assert.Equal(t, "VOL-000042", resp.VolunteerNumber)
	assert.Equal(t, StatusPending, resp.Status)
	if assert.NotNil(t, saved) {
		assert.NotNil(t, saved.CreatedByID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

type failingOutbox struct {
	err error
}

func (f *failingOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *failingOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	return f.err
}
func (f *failingOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *failingOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (f *failingOutbox) MarkFailed(ctx context.Context, id, reason string) error {
	return nil
}

func TestCreate_OutboxFailureRollsBackVolunteer(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	created := 0
	repo := &fakeRepo{
		findByEmailFn: func(ctx context.Context, email string) (*Volunteer, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, v *Volunteer) error {
			created++
			return nil
		},
	}

	outbox := &failingOutbox{err: errors.New("outbox insert failed")}
	svc := NewServiceWithOutbox(db, repo, &fakeCounter{}, outbox, nil)

	// Volunteer insert and outbox event share one transaction; when the
	// event cannot be written the volunteer row must not survive.
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), "", CreateVolunteerRequest{
		Name:  "Asha Patel",
		Email: "asha@example.org",
	})
	assert.Error(t, err)
	assert.Equal(t, 1, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByEmailFn: func(ctx context.Context, email string) (*Volunteer, error) {
			return &Volunteer{ID: uuid.New(), Email: email}, nil
		},
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	_, err := svc.Create(context.Background(), "", CreateVolunteerRequest{
		Name:  "Asha Patel",
		Email: "asha@example.org",
	})
	assert.ErrorIs(t, err, volunteererrors.ErrEmailAlreadyInUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RejectsUnknownStatus(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeCounter{}, nil)

	_, err := svc.Create(context.Background(), "", CreateVolunteerRequest{
		Name:   "Asha Patel",
		Email:  "asha@example.org",
		Status: "retired",
	})
	assert.ErrorIs(t, err, volunteererrors.ErrInvalidStatus)
}

func TestGetByID_IncludesRecentAttendances(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	id := uuid.New()
	checkIn := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(45 * time.Minute)
	duration := 45

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, gotID string) (*Volunteer, error) {
			assert.Equal(t, id.String(), gotID)
			return &Volunteer{ID: id, Name: "Asha", Email: "asha@example.org", Status: StatusActive}, nil
		},
		recentAttendancesFn: func(ctx context.Context, gotID string, limit int) ([]AttendanceRef, error) {
			assert.Equal(t, 10, limit)
			return []AttendanceRef{
				{
					ID:              uuid.New(),
					VolunteerID:     id,
					CheckInTime:     checkIn,
					CheckOutTime:    &checkOut,
					DurationMinutes: &duration,
					Status:          "checked-out",
				},
			}, nil
		},
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	detail, err := svc.GetByID(context.Background(), id.String())
	assert.NoError(t, err)
	assert.Equal(t, "Asha", detail.Name)
	if assert.Len(t, detail.Attendances, 1) {
		entry := detail.Attendances[0]
		assert.Equal(t, checkIn.Format(time.RFC3339), entry.CheckInTime)
		if assert.NotNil(t, entry.DurationMinutes) {
			assert.Equal(t, 45, *entry.DurationMinutes)
		}
	}
}

func TestGetByID_InvalidID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeCounter{}, nil)

	_, err := svc.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, volunteererrors.ErrInvalidVolunteerID)
}

func TestGetByID_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*Volunteer, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	_, err := svc.GetByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, volunteererrors.ErrVolunteerNotFound)
}

func TestUpdate_EmailConflictWithOtherVolunteer(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	id := uuid.New()
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, gotID string) (*Volunteer, error) {
			return &Volunteer{ID: id, Name: "Asha", Email: "asha@example.org", Status: StatusActive}, nil
		},
		findByEmailFn: func(ctx context.Context, email string) (*Volunteer, error) {
			return &Volunteer{ID: uuid.New(), Email: email}, nil
		},
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	_, err := svc.Update(context.Background(), "", id.String(), UpdateVolunteerRequest{
		Email: "taken@example.org",
	})
	assert.ErrorIs(t, err, volunteererrors.ErrEmailAlreadyInUse)
}

func TestUpdate_AppliesPartialChanges(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	id := uuid.New()
	phone := "555-0101"
	var saved *Volunteer
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, gotID string) (*Volunteer, error) {
			return &Volunteer{ID: id, Name: "Asha", Email: "asha@example.org", Status: StatusPending}, nil
		},
		updateFn: func(ctx context.Context, v *Volunteer) error {
			saved = v
			return nil
		},
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	resp, err := svc.Update(context.Background(), "", id.String(), UpdateVolunteerRequest{
		Status: StatusActive,
		Phone:  &phone,
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, resp.Status)
	if assert.NotNil(t, saved) {
		assert.Equal(t, "Asha", saved.Name)
		if assert.NotNil(t, saved.Phone) {
			assert.Equal(t, phone, *saved.Phone)
		}
	}
}

func TestDelete_InvalidID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeCounter{}, nil)

	err := svc.Delete(context.Background(), "42")
	assert.ErrorIs(t, err, volunteererrors.ErrInvalidVolunteerID)
}

func TestGenerateQR_EncodesScannablePayload(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	id := uuid.New()
	var saved *Volunteer
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, gotID string) (*Volunteer, error) {
			return &Volunteer{ID: id, Name: "Asha", Email: "asha@example.org", Status: StatusActive}, nil
		},
		updateFn: func(ctx context.Context, v *Volunteer) error {
			saved = v
			return nil
		},
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	resp, err := svc.GenerateQR(context.Background(), id.String())
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.QRCode, "data:image/png;base64,"))

	// The encoded payload is exactly what the scan endpoint expects.
	var payload QRPayload
	assert.NoError(t, json.Unmarshal([]byte(resp.QRCodeData), &payload))
	assert.Equal(t, id.String(), payload.ID)
	assert.Equal(t, "Asha", payload.Name)

	if assert.NotNil(t, saved) {
		assert.NotNil(t, saved.QRCode)
		assert.NotNil(t, saved.QRCodeData)
	}
}
