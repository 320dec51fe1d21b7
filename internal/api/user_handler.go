package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"job-board/internal/auth"
	"job-board/internal/events"
	"job-board/internal/resume"
	"job-board/internal/scoring"
	"job-board/internal/storage"
)

// RegisterUser creates a job seeker account
// @Summary Register a job seeker
// @Description Multipart (with optional profilePic) or JSON. Skills may be an array or comma-separated.
// @Tags users
// @Accept multipart/form-data,json
// @Produce json
// @Success 201 {object} Response{data=storage.User}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/register [post]
func (a *API) RegisterUser(w http.ResponseWriter, r *http.Request) {
	values, err := formValues(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	in := storage.NewUser{
		Name:       first(values, "name"),
		Email:      first(values, "email"),
		Phone:      first(values, "phone"),
		Location:   first(values, "location"),
		Skills:     parseList(values["skills"]),
		Experience: first(values, "experience"),
		Education:  first(values, "education"),
	}
	password := first(values, "password")
	if in.Name == "" || in.Email == "" || password == "" || in.Phone == "" || in.Education == "" || len(in.Skills) == 0 {
		writeError(w, r, apiError(http.StatusBadRequest, "All fields are required"))
		return
	}

	if _, err := a.store.GetUserCredentials(r.Context(), in.Email); err == nil {
		writeError(w, r, apiError(http.StatusConflict, "User with email or phone already exists"))
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, err)
		return
	}
	// Duplicates are rejected before the picture is uploaded.
	if taken, err := a.store.UserPhoneExists(r.Context(), in.Phone); err != nil {
		writeError(w, r, err)
		return
	} else if taken {
		writeError(w, r, apiError(http.StatusConflict, "User with email or phone already exists"))
		return
	}

	if in.PasswordHash, err = auth.HashPassword(password); err != nil {
		writeError(w, r, err)
		return
	}
	if in.ProfilePicURL, err = a.uploadMedia(r.Context(), r, resume.ProfilePicPolicy, "Profile picture upload failed"); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := a.store.CreateUser(r.Context(), in)
	if errors.Is(err, storage.ErrDuplicate) {
		writeError(w, r, apiError(http.StatusConflict, "User with email or phone already exists"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, user, "User registered successfully")
}

// GetUsers lists every job seeker
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} Response{data=[]storage.User}
// @Router /users/getUsers [get]
func (a *API) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, users, "Fetched all users")
}

type profileRequest struct {
	Name       *string     `json:"name"`
	Phone      *string     `json:"phone"`
	Location   *string     `json:"location"`
	Skills     *stringList `json:"skills"`
	Experience *string     `json:"experience"`
	Education  *string     `json:"education"`
}

// UpdateProfile applies a partial profile update for the logged-in user
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param body body profileRequest true "Fields to change"
// @Security BearerAuth
// @Success 200 {object} Response{data=storage.User}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/profile [patch]
func (a *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	for _, field := range []*string{req.Name, req.Phone, req.Education} {
		if field != nil && strings.TrimSpace(*field) == "" {
			writeError(w, r, apiError(http.StatusBadRequest, "Name, phone and education cannot be empty"))
			return
		}
	}

	upd := storage.ProfileUpdate{
		Name:       req.Name,
		Phone:      req.Phone,
		Location:   req.Location,
		Experience: req.Experience,
		Education:  req.Education,
	}
	if req.Skills != nil {
		skills := []string(*req.Skills)
		upd.Skills = &skills
	}

	user, err := a.store.UpdateUserProfile(r.Context(), principal(r).ID, upd)
	if errors.Is(err, storage.ErrDuplicate) {
		writeError(w, r, apiError(http.StatusConflict, "Phone number already in use"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, user, "Profile updated successfully")
}

// UploadResume stores a resume, scores it against a job and records the application
// @Summary Apply to a job with a resume
// @Description Multipart with a PDF "resume" file and "jobId". The resume is scored by the external scoring service.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param jobId formData string true "Job ID"
// @Param resume formData file true "PDF resume"
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/upload-resume [post]
func (a *API) UploadResume(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		writeError(w, r, apiError(http.StatusBadRequest, "Resume file is required"))
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, r, apiError(http.StatusBadRequest, "Invalid multipart form"))
		return
	}

	saved, err := a.uploader.Save(r, resume.ResumePolicy)
	if err != nil {
		writeError(w, r, uploadError(err, resume.ResumePolicy))
		return
	}
	if saved == nil {
		writeError(w, r, apiError(http.StatusBadRequest, "Resume file is required"))
		return
	}

	jobID := strings.TrimSpace(r.FormValue("jobId"))
	if jobID == "" {
		saved.Remove()
		writeError(w, r, apiError(http.StatusBadRequest, "Job ID is required"))
		return
	}
	job, err := a.store.GetJob(r.Context(), jobID)
	if err != nil {
		saved.Remove()
		if errors.Is(err, storage.ErrNotFound) {
			err = apiError(http.StatusNotFound, "Job not found")
		}
		writeError(w, r, err)
		return
	}

	var excerpt string
	if text, err := a.parser.ExtractText(saved.Path); err != nil {
		log.Printf("[Resume] text extraction failed for %s: %v", saved.Filename, err)
	} else {
		excerpt = resume.Excerpt(text, excerptLength)
	}

	resumeURL, err := a.media.Upload(r.Context(), saved.Path, saved.Folder)
	if err != nil {
		log.Printf("[Resume] upload failed: %v", err)
		writeError(w, r, apiError(http.StatusInternalServerError, "Resume upload failed"))
		return
	}

	result, err := a.scorer.Score(r.Context(), scoring.RequestForJob(resumeURL, job))
	if err != nil {
		log.Printf("[Scoring] job %s: %v", job.ID, err)
		writeError(w, r, apiError(http.StatusBadRequest, "Error in scoring resume"))
		return
	}

	userID := principal(r).ID
	user, err := a.store.SetUserResumeURL(r.Context(), userID, resumeURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := a.store.UpsertApplication(r.Context(), storage.NewApplication{
		JobID:         job.ID,
		UserID:        userID,
		ResumeURL:     resumeURL,
		ResumeExcerpt: excerpt,
		Score:         result.OverallScore,
		Breakdown:     result.Breakdown,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	events.Emit(r.Context(), a.events, events.ApplicationSubmitted, events.ApplicationEvent{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		UserID:        app.UserID,
		Status:        app.Status,
		Score:         app.Score,
		At:            time.Now(),
	})

	respond(w, http.StatusOK, map[string]any{
		"updatedUser":  user,
		"scoreDetails": result,
		"application":  app,
	}, "Resume uploaded & scored successfully")
}

// MyApplications lists the logged-in user's applications
// @Summary List own applications
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]storage.Application}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/applications [get]
func (a *API) MyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := a.store.ListApplicationsByUser(r.Context(), principal(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, apps, "Applications fetched successfully")
}
