package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/jobhub/internal/common"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{common.ErrorValidation, http.StatusBadRequest},
		{common.ErrorOTPInvalid, http.StatusBadRequest},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{common.ErrorForbidden, http.StatusForbidden},
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrorApplicationNotFound, http.StatusNotFound},
		{common.ErrorAlreadyApplied, http.StatusConflict},
		{common.ErrorDuplicate, http.StatusConflict},
		{common.ErrorUpstream, http.StatusBadGateway},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		writeError(w, tt.err)
		assert.Equal(t, tt.wantStatus, w.Code, "error %v", tt.err)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "error")
	}
}

func TestWriteError_WrappedErrorsStillMap(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.Join(errors.New("context"), common.ErrorNotFound))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResumeContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", resumeContentType("resumes/2026/a.pdf"))
	assert.Equal(t, "application/msword", resumeContentType("a.doc"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", resumeContentType("a.docx"))
	assert.Equal(t, "application/octet-stream", resumeContentType("a.bin"))
}
