package volunteer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shankar7055/sewa-volunteer-app/internal/events"
	"github.com/shankar7055/sewa-volunteer-app/internal/messaging/kafka"
	"github.com/shankar7055/sewa-volunteer-app/internal/shared/contextutil"
	"github.com/shankar7055/sewa-volunteer-app/internal/shared/counter"
	volunteererrors "github.com/shankar7055/sewa-volunteer-app/internal/volunteer/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const VolunteerListCacheKey = "volunteers:all"

const recentAttendanceLimit = 10

//go:generate mockgen -source=volunteer_service.go -destination=mock/volunteer_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actingUserID string, req CreateVolunteerRequest) (VolunteerResponse, error)
	GetAll(ctx context.Context) ([]VolunteerResponse, error)
	GetByID(ctx context.Context, id string) (VolunteerDetailResponse, error)
	Update(ctx context.Context, actingUserID, id string, req UpdateVolunteerRequest) (VolunteerResponse, error)
	Delete(ctx context.Context, id string) error
	GenerateQR(ctx context.Context, id string) (QRCodeResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, rdb *redis.Client) Service {
	return NewServiceWithOutbox(db, repo, counterRepo, nil, rdb)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
) Service {
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  zap.L().Named("volunteer.service"),
	}
}

func (s *service) Create(ctx context.Context, actingUserID string, req CreateVolunteerRequest) (VolunteerResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create volunteer requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if !ValidStatus(status) {
		return VolunteerResponse{}, volunteererrors.ErrInvalidStatus
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return VolunteerResponse{}, volunteererrors.ErrEmailAlreadyInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return VolunteerResponse{}, err
	}

	nextVal, err := s.counter.GetNextValue(ctx, "volunteer_number")
	if err != nil {
		s.logger.Error("generate volunteer number failed", zap.Error(err))
		return VolunteerResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return VolunteerResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	v := &Volunteer{
		ID:              uuid.New(),
		VolunteerNumber: fmt.Sprintf("VOL-%06d", nextVal),
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		Skills:          req.Skills,
		Availability:    req.Availability,
		Status:          status,
	}
	if uid, err := uuid.Parse(actingUserID); err == nil {
		v.CreatedByID = &uid
	}

	if err := qtx.Create(ctx, v); err != nil {
		return VolunteerResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		payload, err := json.Marshal(events.VolunteerCreatedEvent{
			EventType:   "volunteer.created",
			VolunteerID: v.ID.String(),
			Name:        v.Name,
			Status:      v.Status,
			OccurredAt:  time.Now().UTC(),
		})
		if err != nil {
			return VolunteerResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.New().String(),
			RequestID:     rid,
			AggregateType: "volunteer",
			AggregateID:   v.ID.String(),
			EventType:     "volunteer.created",
			Topic:         events.VolunteerCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create volunteer outbox persist failed", zap.Error(err))
			return VolunteerResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return VolunteerResponse{}, err
	}

	s.invalidateListCache(ctx)

	return mapToResponse(*v), nil
}

func (s *service) GetAll(ctx context.Context) ([]VolunteerResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, VolunteerListCacheKey).Result()
		if err == nil {
			var resp []VolunteerResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	// Singleflight collapses concurrent dashboard loads into one query.
	v, err, _ := s.sf.Do(VolunteerListCacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := make([]VolunteerResponse, len(rows))
		for i, row := range rows {
			resp[i] = mapToResponse(row)
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, VolunteerListCacheKey, jsonData, 5*time.Minute)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]VolunteerResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (VolunteerDetailResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return VolunteerDetailResponse{}, volunteererrors.ErrInvalidVolunteerID
	}

	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return VolunteerDetailResponse{}, mapRepositoryError(err)
	}

	attendances, err := s.repo.RecentAttendances(ctx, id, recentAttendanceLimit)
	if err != nil {
		return VolunteerDetailResponse{}, err
	}

	detail := VolunteerDetailResponse{
		VolunteerResponse: mapToResponse(*v),
		Attendances:       make([]AttendanceHistoryEntry, len(attendances)),
	}
	for i, a := range attendances {
		entry := AttendanceHistoryEntry{
			ID:              a.ID.String(),
			CheckInTime:     a.CheckInTime.Format(time.RFC3339),
			DurationMinutes: a.DurationMinutes,
			Status:          a.Status,
		}
		if a.CheckOutTime != nil {
			out := a.CheckOutTime.Format(time.RFC3339)
			entry.CheckOutTime = &out
		}
		detail.Attendances[i] = entry
	}

	return detail, nil
}

func (s *service) Update(ctx context.Context, actingUserID, id string, req UpdateVolunteerRequest) (VolunteerResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return VolunteerResponse{}, volunteererrors.ErrInvalidVolunteerID
	}

	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return VolunteerResponse{}, mapRepositoryError(err)
	}

	if req.Email != "" && req.Email != v.Email {
		existing, err := s.repo.FindByEmail(ctx, req.Email)
		if err == nil && existing.ID != v.ID {
			return VolunteerResponse{}, volunteererrors.ErrEmailAlreadyInUse
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return VolunteerResponse{}, err
		}
		v.Email = req.Email
	}

	if req.Name != "" {
		v.Name = req.Name
	}
	if req.Status != "" {
		if !ValidStatus(req.Status) {
			return VolunteerResponse{}, volunteererrors.ErrInvalidStatus
		}
		v.Status = req.Status
	}
	if req.Phone != nil {
		v.Phone = req.Phone
	}
	if req.Address != nil {
		v.Address = req.Address
	}
	if req.Skills != nil {
		v.Skills = req.Skills
	}
	if req.Availability != nil {
		v.Availability = req.Availability
	}
	if uid, err := uuid.Parse(actingUserID); err == nil {
		v.UpdatedByID = &uid
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return VolunteerResponse{}, mapRepositoryError(err)
	}

	s.invalidateListCache(ctx)

	return mapToResponse(*v), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return volunteererrors.ErrInvalidVolunteerID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	s.invalidateListCache(ctx)
	return nil
}

func (s *service) GenerateQR(ctx context.Context, id string) (QRCodeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return QRCodeResponse{}, volunteererrors.ErrInvalidVolunteerID
	}

	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return QRCodeResponse{}, mapRepositoryError(err)
	}

	qrData, err := buildQRPayload(v)
	if err != nil {
		return QRCodeResponse{}, volunteererrors.ErrQRCodeGeneration
	}

	qrImage, err := generateQRDataURL(qrData)
	if err != nil {
		s.logger.Error("qr encode failed", zap.String("volunteer_id", id), zap.Error(err))
		return QRCodeResponse{}, volunteererrors.ErrQRCodeGeneration
	}

	v.QRCode = &qrImage
	v.QRCodeData = &qrData
	if err := s.repo.Update(ctx, v); err != nil {
		return QRCodeResponse{}, mapRepositoryError(err)
	}

	return QRCodeResponse{
		VolunteerID: v.ID.String(),
		QRCode:      qrImage,
		QRCodeData:  qrData,
	}, nil
}

func (s *service) invalidateListCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, VolunteerListCacheKey).Err(); err != nil {
		s.logger.Warn("invalidate volunteer list cache failed", zap.Error(err))
	}
}

func mapToResponse(v Volunteer) VolunteerResponse {
	return VolunteerResponse{
		ID:              v.ID.String(),
		VolunteerNumber: v.VolunteerNumber,
		Name:            v.Name,
		Email:           v.Email,
		Phone:           v.Phone,
		Address:         v.Address,
		Skills:          v.Skills,
		Availability:    v.Availability,
		Status:          v.Status,
		QRCode:          v.QRCode,
		CreatedAt:       v.CreatedAt.Format(time.RFC3339),
	}
}
