package api

import (
	"errors"
	"net/http"

	"job-board/internal/auth"
	"job-board/internal/resume"
	"job-board/internal/storage"
)

// RegisterRecruiter creates a recruiter account pending admin verification
// @Summary Register a recruiter
// @Tags recruiters
// @Accept multipart/form-data,json
// @Produce json
// @Success 201 {object} Response{data=storage.Recruiter}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /recruiter/register [post]
func (a *API) RegisterRecruiter(w http.ResponseWriter, r *http.Request) {
	values, err := formValues(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	in := storage.NewRecruiter{
		Name:           first(values, "name"),
		Email:          first(values, "email"),
		CompanyName:    first(values, "companyName"),
		CompanyWebsite: first(values, "companyWebsite"),
		Phone:          first(values, "phone"),
	}
	password := first(values, "password")
	if in.Name == "" || in.Email == "" || password == "" || in.CompanyName == "" {
		writeError(w, r, apiError(http.StatusBadRequest, "All required fields must be filled"))
		return
	}

	if _, err := a.store.GetRecruiterCredentials(r.Context(), in.Email); err == nil {
		writeError(w, r, apiError(http.StatusConflict, "Recruiter with this email already exists"))
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, err)
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

	rec, err := a.store.CreateRecruiter(r.Context(), in)
	if errors.Is(err, storage.ErrDuplicate) {
		writeError(w, r, apiError(http.StatusConflict, "Recruiter with this email already exists"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, rec, "Recruiter registered successfully")
}

// GetRecruiters lists every recruiter
// @Summary List recruiters
// @Tags recruiters
// @Produce json
// @Success 200 {object} Response{data=[]storage.Recruiter}
// @Router /recruiter/getRecruiters [get]
func (a *API) GetRecruiters(w http.ResponseWriter, r *http.Request) {
	recs, err := a.store.ListRecruiters(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, recs, "Fetched all recruiters")
}
