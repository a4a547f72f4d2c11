package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/jobhub/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders a sentinel error as an HTTP status with a JSON body.
// Unknown errors are reported as 500 without leaking their message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, common.ErrorValidation):
		status, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrorOTPInvalid):
		status, msg = http.StatusBadRequest, "invalid or expired OTP"
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		status, msg = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		status, msg = http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorApplicationNotFound):
		status, msg = http.StatusNotFound, "application not found"
	case errors.Is(err, common.ErrorNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorAlreadyApplied):
		status, msg = http.StatusConflict, "already applied"
	case errors.Is(err, common.ErrorDuplicate):
		status, msg = http.StatusConflict, "already exists"
	case errors.Is(err, common.ErrorUpstream):
		status, msg = http.StatusBadGateway, "upstream error"
	}

	writeJSON(w, status, map[string]string{"error": msg})
}
