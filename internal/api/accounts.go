package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"job-board/internal/auth"
	"job-board/internal/storage"
)

// accountKind binds the shared login/logout/refresh flow to one role's storage.
type accountKind struct {
	role  string
	key   string // response field holding the profile
	title string

	credentials func(ctx context.Context, email string) (*storage.Credentials, error)
	profile     func(ctx context.Context, id string) (*account, error)
	setRefresh  func(ctx context.Context, id, token string) error
	getRefresh  func(ctx context.Context, id string) (string, error)
}

// account is a loaded profile plus the claims that go into access tokens.
type account struct {
	value any
	email string
	name  string
}

func (a *API) account(role string) accountKind {
	switch role {
	case auth.RoleRecruiter:
		return accountKind{
			role: role, key: "recruiter", title: "Recruiter",
			credentials: a.store.GetRecruiterCredentials,
			profile: func(ctx context.Context, id string) (*account, error) {
				rec, err := a.store.GetRecruiterByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return &account{value: rec, email: rec.Email, name: rec.Name}, nil
			},
			setRefresh: a.store.SetRecruiterRefreshToken,
			getRefresh: a.store.GetRecruiterRefreshToken,
		}
	case auth.RoleAdmin:
		return accountKind{
			role: role, key: "admin", title: "Admin",
			credentials: a.store.GetAdminCredentials,
			profile: func(ctx context.Context, id string) (*account, error) {
				adm, err := a.store.GetAdminByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return &account{value: adm, email: adm.Email, name: adm.Name}, nil
			},
			setRefresh: a.store.SetAdminRefreshToken,
			getRefresh: a.store.GetAdminRefreshToken,
		}
	default:
		return accountKind{
			role: auth.RoleUser, key: "user", title: "User",
			credentials: a.store.GetUserCredentials,
			profile: func(ctx context.Context, id string) (*account, error) {
				u, err := a.store.GetUserByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return &account{value: u, email: u.Email, name: u.Name}, nil
			},
			setRefresh: a.store.SetUserRefreshToken,
			getRefresh: a.store.GetUserRefreshToken,
		}
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// issueTokens signs a fresh pair and stores the refresh token, replacing
// any previous one.
func (a *API) issueTokens(ctx context.Context, k accountKind, id string, acc *account) (auth.TokenPair, error) {
	pair, err := a.tokens.IssuePair(id, k.role, acc.email, acc.name)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if err := k.setRefresh(ctx, id, pair.RefreshToken); err != nil {
		return auth.TokenPair{}, err
	}
	return pair, nil
}

func (a *API) login(k accountKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			writeError(w, r, apiError(http.StatusBadRequest, "Email is required"))
			return
		}
		if req.Password == "" {
			writeError(w, r, apiError(http.StatusBadRequest, "Password is required"))
			return
		}

		creds, err := k.credentials(r.Context(), req.Email)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, apiError(http.StatusNotFound, k.title+" does not exist"))
			return
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !auth.CheckPassword(creds.PasswordHash, req.Password) {
			writeError(w, r, apiError(http.StatusUnauthorized, "Invalid credentials"))
			return
		}

		acc, err := k.profile(r.Context(), creds.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		pair, err := a.issueTokens(r.Context(), k, creds.ID, acc)
		if err != nil {
			writeError(w, r, err)
			return
		}

		a.setAuthCookies(w, pair)
		respond(w, http.StatusOK, map[string]any{
			k.key:          acc.value,
			"accessToken":  pair.AccessToken,
			"refreshToken": pair.RefreshToken,
		}, k.title+" logged in successfully")
	}
}

func (a *API) logout(k accountKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := k.setRefresh(r.Context(), principal(r).ID, ""); err != nil {
			writeError(w, r, err)
			return
		}
		a.clearAuthCookies(w)
		respond(w, http.StatusOK, nil, k.title+" logged out")
	}
}

// refresh rotates both tokens. The presented refresh token must be the one
// currently stored, so each refresh token works once.
func (a *API) refresh(k accountKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(auth.RefreshCookie); err == nil {
			token = c.Value
		}
		if token == "" && r.ContentLength != 0 {
			var req refreshRequest
			if err := decodeJSON(w, r, &req); err == nil {
				token = req.RefreshToken
			}
		}
		if token == "" {
			writeError(w, r, apiError(http.StatusUnauthorized, "Unauthorized request"))
			return
		}

		claims, err := a.tokens.ParseRefresh(token)
		if err != nil || claims.Role != k.role {
			writeError(w, r, apiError(http.StatusUnauthorized, "Invalid refresh token"))
			return
		}
		stored, err := k.getRefresh(r.Context(), claims.ID)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, apiError(http.StatusUnauthorized, "Invalid refresh token"))
			return
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		if stored == "" || stored != token {
			writeError(w, r, apiError(http.StatusUnauthorized, "Refresh token is expired or used"))
			return
		}

		acc, err := k.profile(r.Context(), claims.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		pair, err := a.issueTokens(r.Context(), k, claims.ID, acc)
		if err != nil {
			writeError(w, r, err)
			return
		}

		a.setAuthCookies(w, pair)
		respond(w, http.StatusOK, pair, "Access token refreshed")
	}
}

func (a *API) profile(k accountKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, err := k.profile(r.Context(), principal(r).ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respond(w, http.StatusOK, acc.value, k.title+" profile fetched successfully")
	}
}
