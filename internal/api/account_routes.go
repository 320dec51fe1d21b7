package api

import (
	"net/http"

	"job-board/internal/auth"
)

// Per-role entry points for the shared account flows in accounts.go.

// LoginUser
// @Summary Log in a job seeker
// @Description Sets accessToken and refreshToken cookies and returns both tokens.
// @Tags users
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /users/login [post]
func (a *API) LoginUser(w http.ResponseWriter, r *http.Request) {
	a.login(a.account(auth.RoleUser))(w, r)
}

// LogoutUser
// @Summary Log out a job seeker
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponse
// @Router /users/logout [post]
func (a *API) LogoutUser(w http.ResponseWriter, r *http.Request) {
	a.logout(a.account(auth.RoleUser))(w, r)
}

// RefreshUserToken
// @Summary Rotate a job seeker's tokens
// @Description Reads the refreshToken cookie or JSON body. Each refresh token works once.
// @Tags users
// @Accept json
// @Produce json
// @Param body body refreshRequest false "Refresh token when no cookie is sent"
// @Success 200 {object} Response{data=auth.TokenPair}
// @Failure 401 {object} ErrorResponse
// @Router /users/refresh-token [post]
func (a *API) RefreshUserToken(w http.ResponseWriter, r *http.Request) {
	a.refresh(a.account(auth.RoleUser))(w, r)
}

// UserProfile
// @Summary Own user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=storage.User}
// @Failure 401 {object} ErrorResponse
// @Router /users/profile [get]
func (a *API) UserProfile(w http.ResponseWriter, r *http.Request) {
	a.profile(a.account(auth.RoleUser))(w, r)
}

// LoginRecruiter
// @Summary Log in a recruiter
// @Description Sets accessToken and refreshToken cookies and returns both tokens.
// @Tags recruiters
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /recruiter/login [post]
func (a *API) LoginRecruiter(w http.ResponseWriter, r *http.Request) {
	a.login(a.account(auth.RoleRecruiter))(w, r)
}

// LogoutRecruiter
// @Summary Log out a recruiter
// @Tags recruiters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponse
// @Router /recruiter/logout [post]
func (a *API) LogoutRecruiter(w http.ResponseWriter, r *http.Request) {
	a.logout(a.account(auth.RoleRecruiter))(w, r)
}

// RefreshRecruiterToken
// @Summary Rotate a recruiter's tokens
// @Description Reads the refreshToken cookie or JSON body. Each refresh token works once.
// @Tags recruiters
// @Accept json
// @Produce json
// @Param body body refreshRequest false "Refresh token when no cookie is sent"
// @Success 200 {object} Response{data=auth.TokenPair}
// @Failure 401 {object} ErrorResponse
// @Router /recruiter/refresh-token [post]
func (a *API) RefreshRecruiterToken(w http.ResponseWriter, r *http.Request) {
	a.refresh(a.account(auth.RoleRecruiter))(w, r)
}

// RecruiterProfile
// @Summary Own recruiter profile
// @Tags recruiters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=storage.Recruiter}
// @Failure 401 {object} ErrorResponse
// @Router /recruiter/profile [get]
func (a *API) RecruiterProfile(w http.ResponseWriter, r *http.Request) {
	a.profile(a.account(auth.RoleRecruiter))(w, r)
}

// LoginAdmin
// @Summary Log in an admin
// @Description Sets accessToken and refreshToken cookies and returns both tokens.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /admin/login [post]
func (a *API) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	a.login(a.account(auth.RoleAdmin))(w, r)
}

// LogoutAdmin
// @Summary Log out an admin
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponse
// @Router /admin/logout [post]
func (a *API) LogoutAdmin(w http.ResponseWriter, r *http.Request) {
	a.logout(a.account(auth.RoleAdmin))(w, r)
}

// RefreshAdminToken
// @Summary Rotate an admin's tokens
// @Description Reads the refreshToken cookie or JSON body. Each refresh token works once.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body refreshRequest false "Refresh token when no cookie is sent"
// @Success 200 {object} Response{data=auth.TokenPair}
// @Failure 401 {object} ErrorResponse
// @Router /admin/refresh-token [post]
func (a *API) RefreshAdminToken(w http.ResponseWriter, r *http.Request) {
	a.refresh(a.account(auth.RoleAdmin))(w, r)
}
