package httpapi

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/server/models"
)

// maxResumeSize caps multipart resume uploads at 10 MiB.
const maxResumeSize = 10 << 20

type appliedJobResponse struct {
	JobID     string       `json:"jobId"`
	Status    string       `json:"status"`
	AppliedAt time.Time    `json:"appliedAt"`
	Job       *jobResponse `json:"job,omitempty"`
}

func toAppliedJobResponses(applied []*models.AppliedJob) []*appliedJobResponse {
	result := make([]*appliedJobResponse, 0, len(applied))
	for _, a := range applied {
		item := &appliedJobResponse{
			JobID:     a.Application.JobID,
			Status:    a.Application.Status,
			AppliedAt: a.Application.AppliedAt,
		}
		if a.Job != nil {
			item.Job = toJobResponse(a.Job)
		}
		result = append(result, item)
	}
	return result
}

// resumeFromRequest extracts the "resume" part of a multipart form.
func resumeFromRequest(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxResumeSize)
	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		return nil, nil, common.ErrorValidation
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		return nil, nil, common.ErrorValidation
	}
	return file, header, nil
}

func (s *Server) handleApplyJob(w http.ResponseWriter, r *http.Request) {
	uc := userFrom(r.Context())
	jobID := chi.URLParam(r, "jobID")

	file, header, err := resumeFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	key, err := s.applications.StoreResume(r.Context(), uc.UserID,
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.applications.Apply(r.Context(), uc.UserID, jobID, key); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "Application recorded", "job_id", jobID)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "applied"})
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	uc := userFrom(r.Context())
	jobID := chi.URLParam(r, "jobID")

	file, header, err := resumeFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	key, err := s.applications.StoreResume(r.Context(), uc.UserID,
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.applications.UpdateResume(r.Context(), uc.UserID, jobID, key); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resume updated"})
}

func (s *Server) handleDownloadResume(w http.ResponseWriter, r *http.Request) {
	uc := userFrom(r.Context())

	key, body, err := s.applications.DownloadResume(r.Context(), uc.UserID, chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", resumeContentType(key))
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filepath.Base(key)+"\"")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		s.logger.Error(r.Context(), "resume download interrupted", "key", key, "error", err.Error())
	}
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	uc := userFrom(r.Context())
	jobID := chi.URLParam(r, "jobID")

	if err := s.applications.Withdraw(r.Context(), uc.UserID, jobID); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "Application withdrawn", "job_id", jobID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

func (s *Server) handleAppliedJobs(w http.ResponseWriter, r *http.Request) {
	s.listApplied(w, r, "")
}

func (s *Server) handleAppliedJobsFilter(w http.ResponseWriter, r *http.Request) {
	s.listApplied(w, r, r.URL.Query().Get("status"))
}

func (s *Server) listApplied(w http.ResponseWriter, r *http.Request, status string) {
	uc := userFrom(r.Context())

	applied, err := s.applications.ListApplied(r.Context(), uc.UserID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppliedJobResponses(applied))
}

func resumeContentType(key string) string {
	switch filepath.Ext(key) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}
