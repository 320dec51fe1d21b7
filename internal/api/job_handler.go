package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"job-board/internal/events"
	"job-board/internal/storage"
)

type jobRequest struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	SkillsRequired     stringList `json:"skillsRequired"`
	ExperienceRequired *int       `json:"experienceRequired"`
	ExperienceKeywords stringList `json:"experienceKeywords"`
	PrioritySkills     stringList `json:"prioritySkills"`
	DegreeRequirements stringList `json:"degreeRequirements"`
	Location           string     `json:"location"`
	SalaryRange        string     `json:"salaryRange"`
}

// CreateJob posts a job for the logged-in, approved recruiter
// @Summary Post a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param body body jobRequest true "Job posting; list fields may be arrays or comma-separated strings"
// @Security BearerAuth
// @Success 201 {object} Response{data=storage.Job}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /job [post]
func (a *API) CreateJob(w http.ResponseWriter, r *http.Request) {
	recruiterID := principal(r).ID
	rec, err := a.store.GetRecruiterByID(r.Context(), recruiterID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rec.VerificationStatus != storage.VerificationApproved {
		writeError(w, r, apiError(http.StatusForbidden, "Recruiter is not verified yet"))
		return
	}

	var req jobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		writeError(w, r, apiError(http.StatusBadRequest, "Title and description are required"))
		return
	}
	if req.ExperienceRequired != nil && *req.ExperienceRequired < 0 {
		writeError(w, r, apiError(http.StatusBadRequest, "Experience required cannot be negative"))
		return
	}

	job, err := a.store.CreateJob(r.Context(), storage.NewJob{
		Title:              strings.TrimSpace(req.Title),
		Description:        strings.TrimSpace(req.Description),
		SkillsRequired:     req.SkillsRequired,
		ExperienceRequired: req.ExperienceRequired,
		ExperienceKeywords: req.ExperienceKeywords,
		PrioritySkills:     req.PrioritySkills,
		DegreeRequirements: req.DegreeRequirements,
		Location:           strings.TrimSpace(req.Location),
		SalaryRange:        strings.TrimSpace(req.SalaryRange),
		RecruiterID:        recruiterID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, job, "Job posted successfully")
}

// GetAllJobs lists every job with its recruiter
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Success 200 {object} Response{data=[]storage.Job}
// @Router /job/getAllJobs [get]
func (a *API) GetAllJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := a.store.ListJobs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, jobs, "Jobs fetched successfully")
}

// SearchJobs filters jobs by free text, location and skill
// @Summary Search jobs
// @Description Full-text q matches title, skills and description (word prefixes, all words required), best match first.
// @Tags jobs
// @Produce json
// @Param q query string false "Words matched against title, skills and description"
// @Param location query string false "Location substring, matched literally"
// @Param skill query string false "Substring of any required skill, matched literally"
// @Success 200 {object} Response{data=[]storage.Job}
// @Router /job/search [get]
func (a *API) SearchJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, err := a.store.SearchJobs(r.Context(), storage.JobFilter{
		Query:    strings.TrimSpace(q.Get("q")),
		Location: strings.TrimSpace(q.Get("location")),
		Skill:    strings.TrimSpace(q.Get("skill")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, jobs, "Jobs fetched successfully")
}

// GetJob returns one job
// @Summary Get job
// @Tags jobs
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} Response{data=storage.Job}
// @Failure 404 {object} ErrorResponse
// @Router /job/{jobId} [get]
func (a *API) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := a.store.GetJob(r.Context(), r.PathValue("jobId"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, apiError(http.StatusNotFound, "Job not found"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, job, "Job details fetched successfully")
}

// GetJobsByRecruiter lists the jobs one recruiter posted
// @Summary List a recruiter's jobs
// @Tags jobs
// @Produce json
// @Param recruiterId path string true "Recruiter ID"
// @Success 200 {object} Response{data=[]storage.Job}
// @Router /recruiter/{recruiterId}/jobs [get]
func (a *API) GetJobsByRecruiter(w http.ResponseWriter, r *http.Request) {
	jobs, err := a.store.ListJobsByRecruiter(r.Context(), r.PathValue("recruiterId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, jobs, "Jobs by recruiter fetched successfully")
}

// ownedJob loads the path job and checks the caller posted it.
func (a *API) ownedJob(r *http.Request) (*storage.Job, error) {
	job, err := a.store.GetJob(r.Context(), r.PathValue("jobId"))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apiError(http.StatusNotFound, "Job not found")
	}
	if err != nil {
		return nil, err
	}
	if job.RecruiterID != principal(r).ID {
		return nil, apiError(http.StatusForbidden, "You can only manage your own jobs")
	}
	return job, nil
}

// DeleteJob removes a job owned by the caller
// @Summary Delete job
// @Tags jobs
// @Param jobId path string true "Job ID"
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /job/{jobId} [delete]
func (a *API) DeleteJob(w http.ResponseWriter, r *http.Request) {
	job, err := a.ownedJob(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.store.DeleteJob(r.Context(), job.ID, job.RecruiterID); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, nil, "Job deleted successfully")
}

// GetApplicants lists a job's applicants, best score first
// @Summary List applicants
// @Tags jobs
// @Produce json
// @Param jobId path string true "Job ID"
// @Security BearerAuth
// @Success 200 {object} Response{data=[]storage.Application}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /job/{jobId}/applicants [get]
func (a *API) GetApplicants(w http.ResponseWriter, r *http.Request) {
	job, err := a.ownedJob(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apps, err := a.store.ListApplicationsByJob(r.Context(), job.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	storage.SortByScore(apps)
	respond(w, http.StatusOK, apps, "Applicants fetched successfully")
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateApplicationStatus moves an applicant through the hiring pipeline
// @Summary Update applicant status
// @Description Moving to Hired records a hire with Pending payment.
// @Tags jobs
// @Accept json
// @Produce json
// @Param jobId path string true "Job ID"
// @Param applicationId path string true "Application ID"
// @Param body body statusRequest true "Applied, Screening, Shortlisted, Interview, Hired or Rejected"
// @Security BearerAuth
// @Success 200 {object} Response{data=storage.Application}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /job/{jobId}/applicants/{applicationId} [patch]
func (a *API) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	job, err := a.ownedJob(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !storage.ValidApplicationStatus(req.Status) {
		writeError(w, r, apiError(http.StatusBadRequest, "Invalid application status"))
		return
	}

	app, err := a.store.GetApplication(r.Context(), r.PathValue("applicationId"))
	if errors.Is(err, storage.ErrNotFound) || (err == nil && app.JobID != job.ID) {
		writeError(w, r, apiError(http.StatusNotFound, "Application not found"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	app, err = a.store.UpdateApplicationStatus(r.Context(), app.ID, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Status == storage.StatusHired {
		if _, err := a.store.CreateHire(r.Context(), job.RecruiterID, app.UserID, job.ID); err != nil {
			writeError(w, r, err)
			return
		}
	}

	events.Emit(r.Context(), a.events, events.ApplicationStatusChanged, events.ApplicationEvent{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		UserID:        app.UserID,
		Status:        app.Status,
		Score:         app.Score,
		At:            time.Now(),
	})
	respond(w, http.StatusOK, app, "Application status updated")
}

// RescoreJob queues a background re-score of every applicant
// @Summary Re-score applicants
// @Tags jobs
// @Param jobId path string true "Job ID"
// @Security BearerAuth
// @Success 202 {object} Response
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /job/{jobId}/rescore [post]
func (a *API) RescoreJob(w http.ResponseWriter, r *http.Request) {
	job, err := a.ownedJob(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !a.queueRescoreJob(job) {
		writeError(w, r, apiError(http.StatusServiceUnavailable, "Rescore queue is full, try again later"))
		return
	}
	respond(w, http.StatusAccepted, map[string]string{"jobId": job.ID}, "Rescore queued")
}
