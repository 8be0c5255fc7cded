package dashboard

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/shankar7055/sewa-volunteer-app/internal/activity"
	"github.com/shankar7055/sewa-volunteer-app/internal/attendance"
	"github.com/shankar7055/sewa-volunteer-app/internal/volunteer"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	StatsCacheKey = "dashboard:stats"

	// Stats tolerate slight staleness; a short TTL keeps the dashboard off
	// the database during busy scanning periods without an invalidation
	// dependency between modules.
	statsCacheTTL = time.Minute

	defaultActivityLimit = 20
)

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	GetStats(ctx context.Context) (DashboardStats, error)
	GetRecentActivity(ctx context.Context, limit int) ([]ActivityView, error)
}

type service struct {
	volunteers volunteer.Repository
	records    attendance.Repository
	activity   activity.Repository
	rdb        *redis.Client
	sf         *singleflight.Group
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	volunteerRepo volunteer.Repository,
	attendanceRepo attendance.Repository,
	activityRepo activity.Repository,
	rdb *redis.Client,
) Service {
	return &service{
		volunteers: volunteerRepo,
		records:    attendanceRepo,
		activity:   activityRepo,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		now:        func() time.Time { return time.Now().UTC() },
		logger:     zap.L().Named("dashboard.service"),
	}
}

func (s *service) GetStats(ctx context.Context) (DashboardStats, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, StatsCacheKey).Result()
		if err == nil {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return stats, nil
			}
		}
	}

	v, err, _ := s.sf.Do(StatsCacheKey, func() (interface{}, error) {
		stats, err := s.computeStats(ctx)
		if err != nil {
			return DashboardStats{}, err
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(stats); err == nil {
				s.rdb.Set(ctx, StatsCacheKey, payload, statsCacheTTL)
			}
		}

		return stats, nil
	})
	if err != nil {
		return DashboardStats{}, err
	}

	return v.(DashboardStats), nil
}

// computeStats aggregates over the current UTC calendar month, first instant
// through last instant.
func (s *service) computeStats(ctx context.Context) (DashboardStats, error) {
	total, err := s.volunteers.CountAll(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	active, err := s.volunteers.CountByStatus(ctx, volunteer.StatusActive)
	if err != nil {
		return DashboardStats{}, err
	}

	now := s.now()
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	totalMinutes, err := s.records.SumDurationBetween(ctx, periodStart, periodEnd)
	if err != nil {
		return DashboardStats{}, err
	}

	distinct, err := s.records.CountDistinctVolunteersBetween(ctx, periodStart, periodEnd)
	if err != nil {
		return DashboardStats{}, err
	}

	// Presence counts toward the rate even when the interval is still open;
	// only completed intervals contribute hours.
	var rate int64
	if active > 0 {
		rate = int64(math.Round(100 * float64(distinct) / float64(active)))
	}

	return DashboardStats{
		TotalVolunteers:     total,
		ActiveVolunteers:    active,
		TotalHoursThisMonth: int64(math.Round(float64(totalMinutes) / 60)),
		AttendanceRate:      rate,
	}, nil
}

func (s *service) GetRecentActivity(ctx context.Context, limit int) ([]ActivityView, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	rows, err := s.activity.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	views := make([]ActivityView, len(rows))
	for i, row := range rows {
		view := ActivityView{
			ID:          row.ID.String(),
			Type:        row.Type,
			VolunteerID: row.VolunteerID.String(),
			Timestamp:   row.Timestamp.Format(time.RFC3339),
			Details:     row.Details,
		}
		// Name stays null when the volunteer has since been deleted.
		if row.Volunteer != nil {
			name := row.Volunteer.Name
			view.VolunteerName = &name
		}
		views[i] = view
	}

	return views, nil
}
