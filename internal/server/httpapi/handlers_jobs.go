package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/jobhub/internal/server/models"
)

type jobRequest struct {
	Title            string   `json:"title"`
	Experience       string   `json:"experience"`
	Location         string   `json:"location"`
	Type             string   `json:"type"`
	Summary          string   `json:"summary"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
	Stack            []string `json:"stack"`
}

type jobPatchRequest struct {
	Title            *string   `json:"title"`
	Experience       *string   `json:"experience"`
	Location         *string   `json:"location"`
	Type             *string   `json:"type"`
	Summary          *string   `json:"summary"`
	Responsibilities *[]string `json:"responsibilities"`
	Requirements     *[]string `json:"requirements"`
	Stack            *[]string `json:"stack"`
}

type jobResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Experience       string    `json:"experience"`
	Location         string    `json:"location"`
	Type             string    `json:"type"`
	Summary          string    `json:"summary"`
	Responsibilities []string  `json:"responsibilities"`
	Requirements     []string  `json:"requirements"`
	Stack            []string  `json:"stack"`
	PostedBy         string    `json:"postedBy,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toJobResponse(j *models.Job) *jobResponse {
	return &jobResponse{
		ID:               j.ID,
		Title:            j.Title,
		Experience:       j.Experience,
		Location:         j.Location,
		Type:             j.Type,
		Summary:          j.Summary,
		Responsibilities: j.Responsibilities,
		Requirements:     j.Requirements,
		Stack:            j.Stack,
		PostedBy:         j.PostedBy,
		CreatedAt:        j.CreatedAt,
	}
}

func toJobResponses(jobs []*models.Job) []*jobResponse {
	result := make([]*jobResponse, 0, len(jobs))
	for _, j := range jobs {
		result = append(result, toJobResponse(j))
	}
	return result
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponses(jobs))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Get(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (s *Server) handleAddJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	job, err := s.jobs.Create(r.Context(), &models.Job{
		Title:            req.Title,
		Experience:       req.Experience,
		Location:         req.Location,
		Type:             req.Type,
		Summary:          req.Summary,
		Responsibilities: req.Responsibilities,
		Requirements:     req.Requirements,
		Stack:            req.Stack,
		PostedBy:         userFrom(r.Context()).UserID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "Job created", "job_id", job.ID)
	writeJSON(w, http.StatusCreated, toJobResponse(job))
}

func (s *Server) handleModifyJob(w http.ResponseWriter, r *http.Request) {
	var req jobPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	job, err := s.jobs.Update(r.Context(), chi.URLParam(r, "jobID"), &models.JobPatch{
		Title:            req.Title,
		Experience:       req.Experience,
		Location:         req.Location,
		Type:             req.Type,
		Summary:          req.Summary,
		Responsibilities: req.Responsibilities,
		Requirements:     req.Requirements,
		Stack:            req.Stack,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	if err := s.jobs.Delete(r.Context(), jobID); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "Job deleted", "job_id", jobID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
