package attendanceerrors

import (
	"net/http"

	"github.com/shankar7055/sewa-volunteer-app/internal/shared/apperror"
)

var (
	ErrQRDataRequired = apperror.New(
		apperror.CodeInvalidInput,
		"QR data is required",
		http.StatusBadRequest,
	)
	ErrInvalidQRFormat = apperror.New(
		apperror.CodeMalformedPayload,
		"Invalid QR data format",
		http.StatusBadRequest,
	)
	ErrMissingVolunteerID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid QR data: missing volunteer ID",
		http.StatusBadRequest,
	)
	ErrVolunteerNotFound = apperror.New(
		apperror.CodeNotFound,
		"Volunteer not found",
		http.StatusNotFound,
	)
	ErrScanConflict = apperror.New(
		apperror.CodeConflict,
		"A concurrent scan for this volunteer was detected, please scan again",
		http.StatusConflict,
	)
	ErrInvalidDateFilter = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date filter, expected RFC3339 or YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
