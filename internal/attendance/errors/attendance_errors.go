package attendanceerrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
)

var (
	ErrAlreadyMarked = apperror.New(
		apperror.CodeConflict,
		"attendance already recorded for today",
		http.StatusConflict,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance record id",
		http.StatusBadRequest,
	)
	ErrInvalidVerifyStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be ATTENDED or UNAUTHORIZED_LEAVE",
		http.StatusBadRequest,
	)
)
