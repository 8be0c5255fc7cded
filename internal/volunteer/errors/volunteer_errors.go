package volunteererrors

import (
	"net/http"

	"github.com/shankar7055/sewa-volunteer-app/internal/shared/apperror"
)

var (
	ErrVolunteerNotFound = apperror.New(
		apperror.CodeNotFound,
		"Volunteer not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyInUse = apperror.New(
		apperror.CodeConflict,
		"Email already in use",
		http.StatusConflict,
	)
	ErrInvalidVolunteerID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid volunteer ID",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be one of active, inactive or pending",
		http.StatusBadRequest,
	)
	ErrQRCodeGeneration = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate QR code",
		http.StatusInternalServerError,
	)
)
