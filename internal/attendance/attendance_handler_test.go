package attendance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	attendanceerrors "github.com/shankar7055/sewa-volunteer-app/internal/attendance/errors"
	"github.com/shankar7055/sewa-volunteer-app/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	recordScanFn func(ctx context.Context, qrData, actingUserID string) (ScanResult, error)
	listFn       func(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error)
}

func (f *fakeService) RecordScan(ctx context.Context, qrData, actingUserID string) (ScanResult, error) {
	return f.recordScanFn(ctx, qrData, actingUserID)
}

func (f *fakeService) List(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error) {
	return f.listFn(ctx, filter)
}

func performRequest(handler gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)
	return w
}

func TestRecordScanHandler_Success(t *testing.T) {
	svc := &fakeService{
		recordScanFn: func(ctx context.Context, qrData, actingUserID string) (ScanResult, error) {
			assert.JSONEq(t, `{"id":"V1"}`, qrData)
			return ScanResult{
				Transition:    "check-in",
				Message:       "Volunteer checked in successfully",
				VolunteerName: "Asha",
			}, nil
		},
	}

	w := performRequest(NewHandler(svc).RecordScan, http.MethodPost, "/attendance", `{"qrData":"{\"id\":\"V1\"}"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var env response.ApiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)

	data := env.Data.(map[string]interface{})
	assert.Equal(t, "check-in", data["transition"])
	assert.Equal(t, "Asha", data["volunteerName"])
}

func TestRecordScanHandler_UnknownVolunteer(t *testing.T) {
	svc := &fakeService{
		recordScanFn: func(ctx context.Context, qrData, actingUserID string) (ScanResult, error) {
			return ScanResult{}, attendanceerrors.ErrVolunteerNotFound
		},
	}

	w := performRequest(NewHandler(svc).RecordScan, http.MethodPost, "/attendance", `{"qrData":"{\"id\":\"nope\"}"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var env response.ApiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Ok)

	errObj := env.Error.(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errObj["code"])
	assert.Equal(t, "Volunteer not found", errObj["message"])
}

func TestRecordScanHandler_UnreadableBody(t *testing.T) {
	svc := &fakeService{
		recordScanFn: func(ctx context.Context, qrData, actingUserID string) (ScanResult, error) {
			t.Fatal("service must not be reached")
			return ScanResult{}, nil
		},
	}

	w := performRequest(NewHandler(svc).RecordScan, http.MethodPost, "/attendance", `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env response.ApiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	errObj := env.Error.(map[string]interface{})
	assert.Equal(t, "QR data is required", errObj["message"])
}

func TestGetAllHandler_PassesFilters(t *testing.T) {
	checkIn := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{
		listFn: func(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error) {
			assert.Equal(t, "V1", filter.VolunteerID)
			if assert.NotNil(t, filter.StartDate) {
				assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
			}
			assert.Nil(t, filter.EndDate)
			return []AttendanceResponse{
				{
					ID:            "A1",
					VolunteerID:   "V1",
					VolunteerName: "Asha",
					CheckInTime:   checkIn.Format(time.RFC3339),
					Status:        StatusCheckedIn,
				},
			}, nil
		},
	}

	w := performRequest(NewHandler(svc).GetAll, http.MethodGet, "/attendance?volunteerId=V1&startDate=2025-06-01", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var env response.ApiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	rows := env.Data.([]interface{})
	if assert.Len(t, rows, 1) {
		row := rows[0].(map[string]interface{})
		assert.Equal(t, "Asha", row["volunteerName"])
		assert.Equal(t, StatusCheckedIn, row["status"])
		_, hasDuration := row["duration"]
		assert.False(t, hasDuration)
	}
}

func TestGetAllHandler_RejectsBadDateFilter(t *testing.T) {
	svc := &fakeService{
		listFn: func(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error) {
			t.Fatal("service must not be reached")
			return nil, nil
		},
	}

	w := performRequest(NewHandler(svc).GetAll, http.MethodGet, "/attendance?startDate=June", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env response.ApiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	errObj := env.Error.(map[string]interface{})
	assert.Equal(t, "INVALID_INPUT", errObj["code"])
}
