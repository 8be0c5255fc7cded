package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shankar7055/sewa-volunteer-app/internal/activity"
	attendanceerrors "github.com/shankar7055/sewa-volunteer-app/internal/attendance/errors"
	"github.com/shankar7055/sewa-volunteer-app/internal/events"
	"github.com/shankar7055/sewa-volunteer-app/internal/messaging/kafka"
	"github.com/shankar7055/sewa-volunteer-app/internal/metrics"
	"github.com/shankar7055/sewa-volunteer-app/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const scanTimeout = 5 * time.Second

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	// RecordScan toggles a volunteer between checked-in and checked-out
	// based on whether an open record exists. The scanner never has to know
	// the current state.
	RecordScan(ctx context.Context, qrData, actingUserID string) (ScanResult, error)

	List(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	activity activity.Repository
	outbox   kafka.OutboxRepository
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, activityRepo activity.Repository) Service {
	return NewServiceWithOutbox(db, repo, activityRepo, nil)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	activityRepo activity.Repository,
	outboxRepo kafka.OutboxRepository,
) Service {
	return &service{
		db:       db,
		repo:     repo,
		activity: activityRepo,
		outbox:   outboxRepo,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   zap.L().Named("attendance.service"),
	}
}

func (s *service) RecordScan(ctx context.Context, qrData, actingUserID string) (ScanResult, error) {
	// Validation happens before any store access so a rejected scan leaves
	// zero rows behind.
	volunteerID, err := parseQRData(qrData)
	if err != nil {
		return ScanResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	result, err := s.recordTransition(ctx, volunteerID, actingUserID)
	if isUniqueViolation(err) {
		// Two scanners raced past the open-record read; the partial unique
		// index rejected the loser. One re-read resolves it: the open record
		// now exists, so the retry becomes a checkout.
		s.logger.Warn("concurrent scan detected, retrying once",
			zap.String("volunteer_id", volunteerID),
		)
		result, err = s.recordTransition(ctx, volunteerID, actingUserID)
		if isUniqueViolation(err) {
			return ScanResult{}, attendanceerrors.ErrScanConflict
		}
	}
	if err != nil {
		return ScanResult{}, err
	}

	metrics.ScansTotal.WithLabelValues(result.Transition).Inc()

	return result, nil
}

func (s *service) recordTransition(ctx context.Context, volunteerID, actingUserID string) (ScanResult, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ScanResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Row lock on the volunteer serializes concurrent scans for the same
	// badge; scans for different volunteers proceed in parallel.
	vol, err := qtx.LockVolunteer(ctx, volunteerID)
	if err != nil {
		return ScanResult{}, err
	}
	if vol == nil {
		return ScanResult{}, attendanceerrors.ErrVolunteerNotFound
	}

	open, err := qtx.FindOpenByVolunteer(ctx, volunteerID)
	if err != nil {
		return ScanResult{}, err
	}

	now := s.now()
	var recordedBy *uuid.UUID
	if uid, err := uuid.Parse(actingUserID); err == nil {
		recordedBy = &uid
	}

	var (
		rec        *AttendanceRecord
		transition string
		details    string
		message    string
	)

	if open != nil {
		// Open record found: this scan closes it.
		duration := int(math.Round(now.Sub(open.CheckInTime).Minutes()))
		open.CheckOutTime = &now
		open.DurationMinutes = &duration
		open.Status = StatusCheckedOut
		open.RecordedByID = recordedBy

		if err := qtx.Complete(ctx, open); err != nil {
			return ScanResult{}, err
		}

		rec = open
		transition = events.TransitionCheckOut
		details = fmt.Sprintf("Checked out after %d minutes", duration)
		message = "Volunteer checked out successfully"
	} else {
		rec = &AttendanceRecord{
			ID:           uuid.New(),
			VolunteerID:  vol.ID,
			CheckInTime:  now,
			Status:       StatusCheckedIn,
			RecordedByID: recordedBy,
		}

		if err := qtx.Create(ctx, rec); err != nil {
			return ScanResult{}, err
		}

		transition = events.TransitionCheckIn
		details = "Checked in"
		message = "Volunteer checked in successfully"
	}

	entry := &activity.ActivityLog{
		ID:           uuid.New(),
		Type:         transition,
		VolunteerID:  vol.ID,
		Timestamp:    now,
		Details:      details,
		RecordedByID: recordedBy,
	}
	if err := s.activity.WithTx(tx).Create(ctx, entry); err != nil {
		return ScanResult{}, err
	}

	if s.outbox != nil {
		if err := s.queueEvent(ctx, tx, rid, rec, transition, actingUserID, now); err != nil {
			return ScanResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ScanResult{}, err
	}

	s.logger.Info("scan recorded",
		zap.String("request_id", rid),
		zap.String("volunteer_id", vol.ID.String()),
		zap.String("transition", transition),
	)

	return ScanResult{
		Transition:    transition,
		Message:       message,
		Attendance:    mapToResponse(*rec, vol.Name),
		VolunteerName: vol.Name,
	}, nil
}

func (s *service) queueEvent(
	ctx context.Context,
	tx *sql.Tx,
	requestID string,
	rec *AttendanceRecord,
	transition, actingUserID string,
	occurredAt time.Time,
) error {
	payload, err := json.Marshal(events.AttendanceRecordedEvent{
		EventType:       "attendance.recorded",
		Transition:      transition,
		AttendanceID:    rec.ID.String(),
		VolunteerID:     rec.VolunteerID.String(),
		RecordedByID:    actingUserID,
		DurationMinutes: rec.DurationMinutes,
		OccurredAt:      occurredAt,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     requestID,
		AggregateType: "attendance",
		AggregateID:   rec.VolunteerID.String(),
		EventType:     "attendance.recorded",
		Topic:         events.AttendanceRecordedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]AttendanceResponse, len(rows))
	for i, row := range rows {
		name := ""
		if row.Volunteer != nil {
			name = row.Volunteer.Name
		}
		resp[i] = mapToResponse(row, name)
	}
	return resp, nil
}

func parseQRData(qrData string) (string, error) {
	if strings.TrimSpace(qrData) == "" {
		return "", attendanceerrors.ErrQRDataRequired
	}

	var payload qrPayload
	if err := json.Unmarshal([]byte(qrData), &payload); err != nil {
		return "", attendanceerrors.ErrInvalidQRFormat
	}

	if payload.ID == "" {
		return "", attendanceerrors.ErrMissingVolunteerID
	}

	// A payload that decodes but does not carry a real volunteer id can
	// never match the directory.
	if _, err := uuid.Parse(payload.ID); err != nil {
		return "", attendanceerrors.ErrVolunteerNotFound
	}

	return payload.ID, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToResponse(rec AttendanceRecord, volunteerName string) AttendanceResponse {
	resp := AttendanceResponse{
		ID:              rec.ID.String(),
		VolunteerID:     rec.VolunteerID.String(),
		VolunteerName:   volunteerName,
		CheckInTime:     rec.CheckInTime.Format(time.RFC3339),
		DurationMinutes: rec.DurationMinutes,
		Status:          rec.Status,
	}
	if rec.CheckOutTime != nil {
		v := rec.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &v
	}
	return resp
}
