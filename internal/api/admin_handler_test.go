package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-board/internal/auth"
	"job-board/internal/events"
	"job-board/internal/storage"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("jane@example.com", "pw")

	w, res := env.doJSON(http.MethodGet, "/api/v1/admin/users/count", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized request", res.Message)

	w, _ = env.doJSON(http.MethodGet, "/api/v1/admin/users/count", nil, env.token(user.ID, auth.RoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, res = env.doJSON(http.MethodGet, "/api/v1/admin/users/count", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid access token", res.Message)

	// A valid token for an account that no longer exists is rejected.
	w, _ = env.doJSON(http.MethodGet, "/api/v1/admin/users/count", nil, env.token("ghost", auth.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLoginAndCounts(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin("root@example.com", "admin-pass")
	rec := env.seedRecruiter("rita@example.com", storage.VerificationApproved)
	env.seedUser("a@example.com", "pw")
	env.seedUser("b@example.com", "pw")
	env.seedJob(rec.ID, "Backend Engineer")

	w, res := env.doJSON(http.MethodPost, "/api/v1/admin/login", map[string]string{"email": "root@example.com", "password": "admin-pass"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Admin logged in successfully", res.Message)
	var login struct {
		Admin       storage.Admin `json:"admin"`
		AccessToken string        `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &login))
	assert.Equal(t, "root@example.com", login.Admin.Email)

	counts := []struct {
		path string
		key  string
		want int
	}{
		{"/api/v1/admin/users/count", "totalUsers", 2},
		{"/api/v1/admin/recruiters/count", "totalRecruiter", 1},
		{"/api/v1/admin/jobs/count", "totalJobs", 1},
	}
	for _, tc := range counts {
		t.Run(tc.key, func(t *testing.T) {
			w, res := env.doJSON(http.MethodGet, tc.path, nil, login.AccessToken)
			require.Equal(t, http.StatusOK, w.Code)
			var got map[string]int
			require.NoError(t, json.Unmarshal(res.Data, &got))
			assert.Equal(t, tc.want, got[tc.key])
		})
	}

	w, res = env.doJSON(http.MethodGet, "/api/v1/admin/users/all", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var users []storage.User
	require.NoError(t, json.Unmarshal(res.Data, &users))
	assert.Len(t, users, 2)

	w, res = env.doJSON(http.MethodGet, "/api/v1/admin/recruiters/all", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var recs []storage.Recruiter
	require.NoError(t, json.Unmarshal(res.Data, &recs))
	assert.Len(t, recs, 1)
}

func TestVerifyRecruiter(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin("root@example.com", "admin-pass")
	rec := env.seedRecruiter("rita@example.com", storage.VerificationPending)
	tok := env.token(admin.ID, auth.RoleAdmin)
	path := "/api/v1/admin/recruiters/" + rec.ID + "/verification"

	w, _ := env.doJSON(http.MethodPatch, path, map[string]string{"status": "maybe"}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, res := env.doJSON(http.MethodPatch, "/api/v1/admin/recruiters/missing/verification", map[string]string{"status": storage.VerificationApproved}, tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Recruiter not found", res.Message)

	w, res = env.doJSON(http.MethodPatch, path, map[string]string{"status": storage.VerificationApproved}, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated storage.Recruiter
	require.NoError(t, json.Unmarshal(res.Data, &updated))
	assert.Equal(t, storage.VerificationApproved, updated.VerificationStatus)

	evs := env.events.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.RecruiterVerificationChanged, evs[0].RoutingKey)
	payload, ok := evs[0].Payload.(events.RecruiterEvent)
	require.True(t, ok)
	assert.Equal(t, rec.ID, payload.RecruiterID)

	// The approved recruiter can now post.
	w, _ = env.doJSON(http.MethodPost, "/api/v1/job", map[string]string{"title": "T", "description": "D"}, env.token(rec.ID, auth.RoleRecruiter))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHirePayments(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin("root@example.com", "admin-pass")
	rec := env.seedRecruiter("rita@example.com", storage.VerificationApproved)
	job := env.seedJob(rec.ID, "Backend Engineer")
	user := env.seedUser("jane@example.com", "pw")
	hire, err := env.store.CreateHire(context.Background(), rec.ID, user.ID, job.ID)
	require.NoError(t, err)
	tok := env.token(admin.ID, auth.RoleAdmin)

	w, res := env.doJSON(http.MethodGet, "/api/v1/admin/hires", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	var hires []storage.Hire
	require.NoError(t, json.Unmarshal(res.Data, &hires))
	require.Len(t, hires, 1)
	assert.Equal(t, storage.PaymentPending, hires[0].PaymentStatus)

	path := "/api/v1/admin/hires/" + hire.ID + "/payment"
	w, _ = env.doJSON(http.MethodPatch, path, map[string]string{"paymentStatus": "Paid"}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, res = env.doJSON(http.MethodPatch, path, map[string]string{"paymentStatus": storage.PaymentCompleted}, tok)
	require.Equal(t, http.StatusOK, w.Code)
	var updated storage.Hire
	require.NoError(t, json.Unmarshal(res.Data, &updated))
	assert.Equal(t, storage.PaymentCompleted, updated.PaymentStatus)

	w, _ = env.doJSON(http.MethodPatch, "/api/v1/admin/hires/missing/payment", map[string]string{"paymentStatus": storage.PaymentCompleted}, tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
