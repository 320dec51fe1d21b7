package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-board/internal/auth"
	"job-board/internal/events"
	"job-board/internal/storage"
)

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestRegisterUserJSON(t *testing.T) {
	env := newTestEnv(t)

	w, res := env.doJSON(http.MethodPost, "/api/v1/users/register", map[string]any{
		"name": "Jane", "email": "Jane@Example.com", "password": "pw123456", "phone": "5550001",
		"skills": "go, sql ,", "education": "BSc", "location": "Berlin",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, res.Success)

	var user storage.User
	require.NoError(t, json.Unmarshal(res.Data, &user))
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, []string{"go", "sql"}, user.Skills)
	assert.NotContains(t, string(res.Data), "password")
}

func TestRegisterUserValidation(t *testing.T) {
	env := newTestEnv(t)

	w, res := env.doJSON(http.MethodPost, "/api/v1/users/register", map[string]any{
		"name": "Jane", "email": "jane@example.com", "password": "pw",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", res.Message)
	assert.False(t, res.Success)
	assert.NotNil(t, res.Errors)

	env.seedUser("taken@example.com", "pw")
	w, res = env.doJSON(http.MethodPost, "/api/v1/users/register", map[string]any{
		"name": "Jane", "email": "TAKEN@example.com", "password": "pw", "phone": "1",
		"skills": []string{"go"}, "education": "BSc",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with email or phone already exists", res.Message)
}

func TestRegisterUserMultipartWithPicture(t *testing.T) {
	env := newTestEnv(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	body, ct := multipartBody(t, map[string]string{
		"name": "Jane", "email": "jane@example.com", "password": "pw", "phone": "5550001",
		"skills": `["go","docker"]`, "education": "BSc",
	}, "profilePic", "me.png", png)
	w := env.request(http.MethodPost, "/api/v1/users/register", body, ct, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user storage.User
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &user))
	assert.Equal(t, []string{"go", "docker"}, user.Skills)
	assert.Contains(t, user.ProfilePicURL, "https://media.test/profile-pictures/profilePic-")

	body, ct = multipartBody(t, map[string]string{
		"name": "Joe", "email": "joe@example.com", "password": "pw", "phone": "5550002",
		"skills": "go", "education": "BSc",
	}, "profilePic", "me.pdf", pdfContent)
	w = env.request(http.MethodPost, "/api/v1/users/register", body, ct, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only JPG, JPEG, and PNG files are allowed", decodeEnvelope(t, w).Message)
}

func TestRegisterUserDuplicatePhoneUploadsNothing(t *testing.T) {
	env := newTestEnv(t)
	taken := env.seedUser("taken@example.com", "pw")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	body, ct := multipartBody(t, map[string]string{
		"name": "Joe", "email": "joe@example.com", "password": "pw", "phone": taken.Phone,
		"skills": "go", "education": "BSc",
	}, "profilePic", "me.png", png)
	w := env.request(http.MethodPost, "/api/v1/users/register", body, ct, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with email or phone already exists", decodeEnvelope(t, w).Message)
	assert.Empty(t, env.media.uploads)
}

func TestUserLoginLogoutRefresh(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("jane@example.com", "s3cret-pass")

	w, res := env.doJSON(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "nobody@example.com", "password": "x"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User does not exist", res.Message)

	w, _ = env.doJSON(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "jane@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, res = env.doJSON(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "", "password": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email is required", res.Message)

	w, res = env.doJSON(http.MethodPost, "/api/v1/users/login", map[string]string{"email": "JANE@example.com", "password": "s3cret-pass"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		User         storage.User `json:"user"`
		AccessToken  string       `json:"accessToken"`
		RefreshToken string       `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &login))
	assert.Equal(t, user.ID, login.User.ID)

	cookies := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, auth.AccessCookie)
	assert.True(t, cookies[auth.AccessCookie].HttpOnly)
	assert.Equal(t, login.RefreshToken, cookies[auth.RefreshCookie].Value)

	// Profile with the bearer token.
	w, res = env.doJSON(http.MethodGet, "/api/v1/users/profile", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(res.Data), user.ID)

	// Refresh rotates; the old refresh token cannot be replayed.
	w, res = env.doJSON(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": login.RefreshToken}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var pair auth.TokenPair
	require.NoError(t, json.Unmarshal(res.Data, &pair))
	assert.NotEqual(t, login.RefreshToken, pair.RefreshToken)

	w, res = env.doJSON(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": login.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Refresh token is expired or used", res.Message)

	// Logout clears the stored token so the latest refresh token stops working.
	w, _ = env.doJSON(http.MethodPost, "/api/v1/users/logout", nil, pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		assert.True(t, c.MaxAge < 0, c.Name)
	}
	w, _ = env.doJSON(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": pair.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRejectsOtherRolesToken(t *testing.T) {
	env := newTestEnv(t)
	rec := env.seedRecruiter("rita@example.com", storage.VerificationApproved)
	tok, err := env.tokens.IssueRefresh(rec.ID, auth.RoleRecruiter)
	require.NoError(t, err)

	w, res := env.doJSON(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": tok}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid refresh token", res.Message)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("jane@example.com", "pw")
	tok := env.token(user.ID, auth.RoleUser)

	w, res := env.doJSON(http.MethodPatch, "/api/v1/users/profile", map[string]any{
		"location": "Lisbon", "skills": []string{"go", "rust"},
	}, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated storage.User
	require.NoError(t, json.Unmarshal(res.Data, &updated))
	assert.Equal(t, "Lisbon", updated.Location)
	assert.Equal(t, []string{"go", "rust"}, updated.Skills)
	assert.Equal(t, "Jane Seeker", updated.Name)

	w, _ = env.doJSON(http.MethodPatch, "/api/v1/users/profile", map[string]any{"name": "  "}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadResume(t *testing.T) {
	env := newTestEnv(t)
	rec := env.seedRecruiter("rita@example.com", storage.VerificationApproved)
	job := env.seedJob(rec.ID, "Backend Engineer", "go", "postgres")
	user := env.seedUser("jane@example.com", "pw")
	tok := env.token(user.ID, auth.RoleUser)

	body, ct := multipartBody(t, map[string]string{"jobId": job.ID}, "resume", "cv.pdf", pdfContent)
	w := env.request(http.MethodPost, "/api/v1/users/upload-resume", body, ct, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		UpdatedUser  storage.User        `json:"updatedUser"`
		ScoreDetails map[string]any      `json:"scoreDetails"`
		Application  storage.Application `json:"application"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &out))
	assert.Contains(t, out.UpdatedUser.ResumeURL, "https://media.test/resumes/resume-")
	assert.Equal(t, 72.5, out.ScoreDetails["overall_score"])
	assert.Equal(t, storage.StatusApplied, out.Application.Status)
	assert.Equal(t, "Experienced Go developer Postgres, Kubernetes", out.Application.ResumeExcerpt)

	require.Equal(t, 1, env.scorer.calls())
	req := env.scorer.requests[0]
	assert.Equal(t, out.UpdatedUser.ResumeURL, req.ResumeURL)
	assert.Equal(t, []string{"go", "postgres"}, req.SkillsRequired)
	assert.Equal(t, job.Description, req.JobDescription)

	assert.Equal(t, []string{events.ApplicationSubmitted}, env.events.Keys())

	// Re-applying replaces the application rather than adding another.
	env.scorer.set(90, nil)
	body, ct = multipartBody(t, map[string]string{"jobId": job.ID}, "resume", "cv2.pdf", pdfContent)
	w = env.request(http.MethodPost, "/api/v1/users/upload-resume", body, ct, tok)
	require.Equal(t, http.StatusOK, w.Code)
	apps, err := env.store.ListApplicationsByJob(t.Context(), job.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, 90.0, *apps[0].Score)

	// Own applications carry the job summary.
	w, res := env.doJSON(http.MethodGet, "/api/v1/users/applications", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []storage.Application
	require.NoError(t, json.Unmarshal(res.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Backend Engineer", mine[0].Job.Title)
	assert.Equal(t, "Acme", mine[0].Job.CompanyName)
}

func TestUploadResumeErrors(t *testing.T) {
	env := newTestEnv(t)
	rec := env.seedRecruiter("rita@example.com", storage.VerificationApproved)
	job := env.seedJob(rec.ID, "Backend Engineer")
	user := env.seedUser("jane@example.com", "pw")
	tok := env.token(user.ID, auth.RoleUser)

	t.Run("missing file", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"jobId": job.ID}, "", "", nil)
		w := env.request(http.MethodPost, "/api/v1/users/upload-resume", body, ct, tok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Resume file is required", decodeEnvelope(t, w).Message)
	})

	t.Run("not a pdf", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"jobId": job.ID}, "resume", "cv.pdf", []byte("plain text resume"))
		w := env.request(http.MethodPost, "/api/v1/users/upload-resume", body, ct, tok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Only PDF files are allowed", decodeEnvelope(t, w).Message)
	})

	t.Run("unknown job", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"jobId": "does-not-exist"}, "resume", "cv.pdf", pdfContent)
		w := env.request(http.MethodPost, "/api/v1/users/upload-resume", body, ct, tok)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Job not found", decodeEnvelope(t, w).Message)
	})

	t.Run("scoring fails", func(t *testing.T) {
		env.scorer.set(0, errScoring)
		defer env.scorer.set(72.5, nil)
		body, ct := multipartBody(t, map[string]string{"jobId": job.ID}, "resume", "cv.pdf", pdfContent)
		w := env.request(http.MethodPost, "/api/v1/users/upload-resume", body, ct, tok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Error in scoring resume", decodeEnvelope(t, w).Message)
	})

	t.Run("recruiter cannot apply", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"jobId": job.ID}, "resume", "cv.pdf", pdfContent)
		w := env.request(http.MethodPost, "/api/v1/users/upload-resume", body, ct, env.token(rec.ID, auth.RoleRecruiter))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	assert.Empty(t, env.events.Keys())
}

func TestGetUsersIsPublic(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("a@example.com", "pw")
	env.seedUser("b@example.com", "pw")

	w, res := env.doJSON(http.MethodGet, "/api/v1/users/getUsers", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var users []storage.User
	require.NoError(t, json.Unmarshal(res.Data, &users))
	assert.Len(t, users, 2)
}
