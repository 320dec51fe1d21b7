package api

import (
	"errors"
	"net/http"
	"time"

	"job-board/internal/events"
	"job-board/internal/storage"
)

// GetTotalUsers
// @Summary Count users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/users/count [get]
func (a *API) GetTotalUsers(w http.ResponseWriter, r *http.Request) {
	n, err := a.store.CountUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"totalUsers": n}, "Total users fetched successfully")
}

// GetTotalRecruiters
// @Summary Count recruiters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/recruiters/count [get]
func (a *API) GetTotalRecruiters(w http.ResponseWriter, r *http.Request) {
	n, err := a.store.CountRecruiters(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"totalRecruiter": n}, "Total recruiters fetched successfully")
}

// GetTotalJobs
// @Summary Count jobs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/jobs/count [get]
func (a *API) GetTotalJobs(w http.ResponseWriter, r *http.Request) {
	n, err := a.store.CountJobs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"totalJobs": n}, "Total jobs fetched successfully")
}

// AdminListUsers
// @Summary All users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]storage.User}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/users/all [get]
func (a *API) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, users, "All users fetched successfully")
}

// AdminListRecruiters
// @Summary All recruiters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]storage.Recruiter}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/recruiters/all [get]
func (a *API) AdminListRecruiters(w http.ResponseWriter, r *http.Request) {
	recs, err := a.store.ListRecruiters(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, recs, "All recruiters fetched successfully")
}

// VerifyRecruiter approves, rejects or resets a recruiter account
// @Summary Set recruiter verification
// @Tags admin
// @Accept json
// @Produce json
// @Param recruiterId path string true "Recruiter ID"
// @Param body body statusRequest true "pending, approved or rejected"
// @Security BearerAuth
// @Success 200 {object} Response{data=storage.Recruiter}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/recruiters/{recruiterId}/verification [patch]
func (a *API) VerifyRecruiter(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !storage.ValidVerificationStatus(req.Status) {
		writeError(w, r, apiError(http.StatusBadRequest, "Status must be approved, rejected or pending"))
		return
	}

	rec, err := a.store.SetRecruiterVerification(r.Context(), r.PathValue("recruiterId"), req.Status)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, apiError(http.StatusNotFound, "Recruiter not found"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	events.Emit(r.Context(), a.events, events.RecruiterVerificationChanged, events.RecruiterEvent{
		RecruiterID:        rec.ID,
		VerificationStatus: rec.VerificationStatus,
		At:                 time.Now(),
	})
	respond(w, http.StatusOK, rec, "Recruiter verification updated")
}

// ListHires
// @Summary List hires
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]storage.Hire}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/hires [get]
func (a *API) ListHires(w http.ResponseWriter, r *http.Request) {
	hires, err := a.store.ListHires(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, hires, "Hires fetched successfully")
}

type paymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// UpdateHirePayment
// @Summary Set hire payment status
// @Tags admin
// @Accept json
// @Produce json
// @Param hireId path string true "Hire ID"
// @Param body body paymentRequest true "Pending or Completed"
// @Security BearerAuth
// @Success 200 {object} Response{data=storage.Hire}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/hires/{hireId}/payment [patch]
func (a *API) UpdateHirePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !storage.ValidPaymentStatus(req.PaymentStatus) {
		writeError(w, r, apiError(http.StatusBadRequest, "Payment status must be Pending or Completed"))
		return
	}
	hire, err := a.store.SetHirePaymentStatus(r.Context(), r.PathValue("hireId"), req.PaymentStatus)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, apiError(http.StatusNotFound, "Hire not found"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, hire, "Payment status updated")
}
