package attendance

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shankar7055/sewa-volunteer-app/internal/metrics"
	"github.com/shankar7055/sewa-volunteer-app/internal/shared/apperror"
	"github.com/shankar7055/sewa-volunteer-app/internal/shared/response"

	attendanceerrors "github.com/shankar7055/sewa-volunteer-app/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// NewHandlerWithRedis enables idempotency caching for scan responses.
func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	metrics.ScanErrorsTotal.WithLabelValues(httpErr.Code).Inc()
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) RecordScan(c *gin.Context) {
	userID := c.GetString("user_id_validated")

	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, attendanceerrors.ErrQRDataRequired)
		return
	}

	// Handler releases the idempotency lock whether the scan succeeds or
	// fails; only successes fill the response cache.
	if h.rdb != nil {
		if lk := c.GetString("idempotency_lock_key"); lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	result, err := h.service.RecordScan(c.Request.Context(), req.QRData, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck := c.GetString("idempotency_cache_key"); ck != "" {
			if payload, err := json.Marshal(result); err == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	filter := ListFilter{VolunteerID: c.Query("volunteerId")}

	start, err := parseDateParam(c.Query("startDate"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	filter.StartDate = start

	end, err := parseDateParam(c.Query("endDate"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	filter.EndDate = end

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, attendanceerrors.ErrInvalidDateFilter
}
