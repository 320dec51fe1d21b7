package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"job-board/internal/auth"
	"job-board/internal/events"
	"job-board/internal/resume"
	"job-board/internal/scoring"
	"job-board/internal/storage"
)

type fakeAccount struct {
	hash    string
	refresh string
}

type fakeStore struct {
	mu         sync.Mutex
	users      map[string]*storage.User
	recruiters map[string]*storage.Recruiter
	admins     map[string]*storage.Admin
	accounts   map[string]*fakeAccount // by id, any role
	jobs       map[string]*storage.Job
	apps       map[string]*storage.Application
	hires      map[string]*storage.Hire
	clock      time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[string]*storage.User{},
		recruiters: map[string]*storage.Recruiter{},
		admins:     map[string]*storage.Admin{},
		accounts:   map[string]*fakeAccount{},
		jobs:       map[string]*storage.Job{},
		apps:       map[string]*storage.Application{},
		hires:      map[string]*storage.Hire{},
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// cleanedList mirrors the store's list handling: trimmed, blanks dropped, never nil.
func cleanedList(in []string) []string {
	out := []string{}
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeStore) CreateUser(_ context.Context, in storage.NewUser) (*storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == normEmail(in.Email) || u.Phone == in.Phone {
			return nil, storage.ErrDuplicate
		}
	}
	now := f.tick()
	u := &storage.User{
		ID: uuid.NewString(), Name: in.Name, Email: normEmail(in.Email), Phone: in.Phone,
		Location: in.Location, Skills: cleanedList(in.Skills), Experience: in.Experience, Education: in.Education,
		ProfilePicURL: in.ProfilePicURL, CreatedAt: now, UpdatedAt: now,
	}
	f.users[u.ID] = u
	f.accounts[u.ID] = &fakeAccount{hash: in.PasswordHash}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UserPhoneExists(_ context.Context, phone string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Phone == strings.TrimSpace(phone) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserCredentials(_ context.Context, email string) (*storage.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.users {
		if u.Email == normEmail(email) {
			return &storage.Credentials{ID: id, PasswordHash: f.accounts[id].hash}, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListUsers(context.Context) ([]*storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := []*storage.User{}
	for _, u := range f.users {
		cp := *u
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (f *fakeStore) CountUsers(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func (f *fakeStore) UpdateUserProfile(_ context.Context, id string, upd storage.ProfileUpdate) (*storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Location != nil {
		u.Location = *upd.Location
	}
	if upd.Skills != nil {
		u.Skills = cleanedList(*upd.Skills)
	}
	if upd.Experience != nil {
		u.Experience = *upd.Experience
	}
	if upd.Education != nil {
		u.Education = *upd.Education
	}
	u.UpdatedAt = f.tick()
	cp := *u
	return &cp, nil
}

func (f *fakeStore) SetUserResumeURL(_ context.Context, id, resumeURL string) (*storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u.ResumeURL = resumeURL
	cp := *u
	return &cp, nil
}

func (f *fakeStore) setRefresh(id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[id]
	if !ok {
		return storage.ErrNotFound
	}
	acc.refresh = token
	return nil
}

func (f *fakeStore) getRefresh(id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[id]
	if !ok {
		return "", storage.ErrNotFound
	}
	return acc.refresh, nil
}

func (f *fakeStore) SetUserRefreshToken(_ context.Context, id, token string) error {
	return f.setRefresh(id, token)
}

func (f *fakeStore) GetUserRefreshToken(_ context.Context, id string) (string, error) {
	return f.getRefresh(id)
}

func (f *fakeStore) CreateRecruiter(_ context.Context, in storage.NewRecruiter) (*storage.Recruiter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recruiters {
		if r.Email == normEmail(in.Email) {
			return nil, storage.ErrDuplicate
		}
	}
	now := f.tick()
	r := &storage.Recruiter{
		ID: uuid.NewString(), Name: in.Name, Email: normEmail(in.Email), CompanyName: in.CompanyName,
		CompanyWebsite: in.CompanyWebsite, Phone: in.Phone, ProfilePicURL: in.ProfilePicURL,
		VerificationStatus: storage.VerificationPending, CreatedAt: now, UpdatedAt: now,
	}
	f.recruiters[r.ID] = r
	f.accounts[r.ID] = &fakeAccount{hash: in.PasswordHash}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) GetRecruiterByID(_ context.Context, id string) (*storage.Recruiter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recruiters[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) GetRecruiterCredentials(_ context.Context, email string) (*storage.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.recruiters {
		if r.Email == normEmail(email) {
			return &storage.Credentials{ID: id, PasswordHash: f.accounts[id].hash}, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListRecruiters(context.Context) ([]*storage.Recruiter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := []*storage.Recruiter{}
	for _, r := range f.recruiters {
		cp := *r
		res = append(res, &cp)
	}
	return res, nil
}

func (f *fakeStore) CountRecruiters(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recruiters), nil
}

func (f *fakeStore) SetRecruiterVerification(_ context.Context, id, status string) (*storage.Recruiter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recruiters[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	r.VerificationStatus = status
	cp := *r
	return &cp, nil
}

func (f *fakeStore) SetRecruiterRefreshToken(_ context.Context, id, token string) error {
	return f.setRefresh(id, token)
}

func (f *fakeStore) GetRecruiterRefreshToken(_ context.Context, id string) (string, error) {
	return f.getRefresh(id)
}

func (f *fakeStore) createAdmin(name, email, hash string) *storage.Admin {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &storage.Admin{ID: uuid.NewString(), Name: name, Email: normEmail(email), CreatedAt: f.tick()}
	f.admins[a.ID] = a
	f.accounts[a.ID] = &fakeAccount{hash: hash}
	return a
}

func (f *fakeStore) GetAdminByID(_ context.Context, id string) (*storage.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) GetAdminCredentials(_ context.Context, email string) (*storage.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.admins {
		if a.Email == normEmail(email) {
			return &storage.Credentials{ID: id, PasswordHash: f.accounts[id].hash}, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) SetAdminRefreshToken(_ context.Context, id, token string) error {
	return f.setRefresh(id, token)
}

func (f *fakeStore) GetAdminRefreshToken(_ context.Context, id string) (string, error) {
	return f.getRefresh(id)
}

func (f *fakeStore) CreateJob(_ context.Context, in storage.NewJob) (*storage.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recruiters[in.RecruiterID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	now := f.tick()
	j := &storage.Job{
		ID: uuid.NewString(), Title: in.Title, Description: in.Description,
		SkillsRequired: cleanedList(in.SkillsRequired), ExperienceRequired: in.ExperienceRequired,
		ExperienceKeywords: cleanedList(in.ExperienceKeywords), PrioritySkills: cleanedList(in.PrioritySkills),
		DegreeRequirements: cleanedList(in.DegreeRequirements), Location: in.Location, SalaryRange: in.SalaryRange,
		RecruiterID: rec.ID,
		Recruiter:   &storage.RecruiterSummary{ID: rec.ID, Name: rec.Name, CompanyName: rec.CompanyName},
		CreatedAt:   now, UpdatedAt: now,
	}
	f.jobs[j.ID] = j
	cp := *j
	return &cp, nil
}

func (f *fakeStore) GetJob(_ context.Context, id string) (*storage.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return f.jobCopy(j), nil
}

// jobCopy returns j with its applicant count; callers hold f.mu.
func (f *fakeStore) jobCopy(j *storage.Job) *storage.Job {
	cp := *j
	cp.ApplicantCount = 0
	for _, a := range f.apps {
		if a.JobID == j.ID {
			cp.ApplicantCount++
		}
	}
	return &cp
}

func (f *fakeStore) filterJobs(keep func(*storage.Job) bool) []*storage.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := []*storage.Job{}
	for _, j := range f.jobs {
		if keep(j) {
			res = append(res, f.jobCopy(j))
		}
	}
	sort.Slice(res, func(i, k int) bool { return res[i].CreatedAt.After(res[k].CreatedAt) })
	return res
}

func (f *fakeStore) ListJobs(context.Context) ([]*storage.Job, error) {
	return f.filterJobs(func(*storage.Job) bool { return true }), nil
}

func (f *fakeStore) ListJobsByRecruiter(_ context.Context, recruiterID string) ([]*storage.Job, error) {
	return f.filterJobs(func(j *storage.Job) bool { return j.RecruiterID == recruiterID }), nil
}

// SearchJobs approximates the full-text query with substring matches over
// title, description and skills; ranking is not modelled.
func (f *fakeStore) SearchJobs(_ context.Context, flt storage.JobFilter) ([]*storage.Job, error) {
	contains := func(s, sub string) bool { return strings.Contains(strings.ToLower(s), strings.ToLower(sub)) }
	anySkill := func(j *storage.Job, sub string) bool {
		for _, s := range j.SkillsRequired {
			if contains(s, sub) {
				return true
			}
		}
		return false
	}
	return f.filterJobs(func(j *storage.Job) bool {
		if flt.Query != "" && !contains(j.Title, flt.Query) && !contains(j.Description, flt.Query) && !anySkill(j, flt.Query) {
			return false
		}
		if flt.Location != "" && !contains(j.Location, flt.Location) {
			return false
		}
		return flt.Skill == "" || anySkill(j, flt.Skill)
	}), nil
}

func (f *fakeStore) DeleteJob(_ context.Context, id, recruiterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok || j.RecruiterID != recruiterID {
		return storage.ErrNotFound
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeStore) CountJobs(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs), nil
}

func (f *fakeStore) UpsertApplication(_ context.Context, in storage.NewApplication) (*storage.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.tick()
	for _, a := range f.apps {
		if a.JobID == in.JobID && a.UserID == in.UserID {
			a.ResumeURL, a.ResumeExcerpt, a.Score, a.Breakdown = in.ResumeURL, in.ResumeExcerpt, in.Score, in.Breakdown
			a.Status = storage.StatusApplied
			a.UpdatedAt = now
			cp := *a
			return &cp, nil
		}
	}
	a := &storage.Application{
		ID: uuid.NewString(), JobID: in.JobID, UserID: in.UserID, ResumeURL: in.ResumeURL,
		ResumeExcerpt: in.ResumeExcerpt, Score: in.Score, Status: storage.StatusApplied,
		Breakdown: in.Breakdown, CreatedAt: now, UpdatedAt: now,
	}
	f.apps[a.ID] = a
	cp := *a
	return &cp, nil
}

func (f *fakeStore) GetApplication(_ context.Context, id string) (*storage.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) ListApplicationsByJob(_ context.Context, jobID string) ([]*storage.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := []*storage.Application{}
	for _, a := range f.apps {
		if a.JobID == jobID {
			cp := *a
			if u, ok := f.users[a.UserID]; ok {
				uc := *u
				cp.Applicant = &uc
			}
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	storage.SortByScore(res)
	return res, nil
}

func (f *fakeStore) ListApplicationsByUser(_ context.Context, userID string) ([]*storage.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := []*storage.Application{}
	for _, a := range f.apps {
		if a.UserID == userID {
			cp := *a
			if j, ok := f.jobs[a.JobID]; ok {
				cp.Job = &storage.JobRef{ID: j.ID, Title: j.Title, CompanyName: j.Recruiter.CompanyName, Location: j.Location}
			}
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (f *fakeStore) UpdateApplicationStatus(_ context.Context, id, status string) (*storage.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	a.Status = status
	cp := *a
	return &cp, nil
}

func (f *fakeStore) UpdateApplicationScore(_ context.Context, id string, score *float64, b storage.Breakdown) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return storage.ErrNotFound
	}
	a.Score, a.Breakdown = score, b
	return nil
}

func (f *fakeStore) CreateHire(_ context.Context, recruiterID, userID, jobID string) (*storage.Hire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.hires {
		if h.JobID == jobID && h.UserID == userID {
			cp := *h
			return &cp, nil
		}
	}
	h := &storage.Hire{ID: uuid.NewString(), RecruiterID: recruiterID, UserID: userID, JobID: jobID,
		PaymentStatus: storage.PaymentPending, CreatedAt: f.tick()}
	f.hires[h.ID] = h
	cp := *h
	return &cp, nil
}

func (f *fakeStore) ListHires(context.Context) ([]*storage.Hire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := []*storage.Hire{}
	for _, h := range f.hires {
		cp := *h
		res = append(res, &cp)
	}
	return res, nil
}

func (f *fakeStore) SetHirePaymentStatus(_ context.Context, id, status string) (*storage.Hire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hires[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	h.PaymentStatus = status
	cp := *h
	return &cp, nil
}

type fakeScorer struct {
	mu       sync.Mutex
	score    float64
	err      error
	requests []scoring.Request
}

func (s *fakeScorer) Score(_ context.Context, req scoring.Request) (*scoring.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	v := s.score
	skills := v / 2
	return &scoring.Result{OverallScore: &v, Breakdown: storage.Breakdown{SkillsScore: &skills}}, nil
}

func (s *fakeScorer) set(score float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.score, s.err = score, err
}

func (s *fakeScorer) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type fakeMedia struct {
	mu      sync.Mutex
	err     error
	uploads []string
}

func (m *fakeMedia) Upload(_ context.Context, localPath, folder string) (string, error) {
	defer os.Remove(localPath)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	url := "https://media.test/" + folder + "/" + filepath.Base(localPath)
	m.uploads = append(m.uploads, url)
	return url, nil
}

type fakeParser struct {
	text string
	err  error
}

func (p fakeParser) ExtractText(string) (string, error) { return p.text, p.err }

// testEnv is a fully wired API backed by fakes.
type testEnv struct {
	t       *testing.T
	api     *API
	handler http.Handler
	store   *fakeStore
	scorer  *fakeScorer
	media   *fakeMedia
	events  *events.Recorder
	tokens  *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, Options{LoginRateLimit: 100, RescoreRate: 1000, CORSOrigin: "http://localhost:5173"})
}

// newTestEnvWith builds a test API; wrap may replace collaborators before
// the API is constructed.
func newTestEnvWith(t *testing.T, opts Options, wrap ...func(*Deps)) *testEnv {
	t.Helper()
	env := &testEnv{
		t:      t,
		store:  newFakeStore(),
		scorer: &fakeScorer{score: 72.5},
		media:  &fakeMedia{},
		events: &events.Recorder{},
		tokens: auth.NewTokenIssuer("access-secret", "refresh-secret", time.Hour, 24*time.Hour),
	}
	deps := Deps{
		Store:    env.store,
		Tokens:   env.tokens,
		Uploader: resume.NewUploader(t.TempDir()),
		Parser:   fakeParser{text: "Experienced Go developer\n\nPostgres, Kubernetes"},
		Media:    env.media,
		Scorer:   env.scorer,
		Events:   env.events,
	}
	for _, w := range wrap {
		w(&deps)
	}
	env.api = NewAPI(deps, opts)
	env.handler = NewRouter(env.api, "")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		env.api.Shutdown(ctx)
	})
	return env
}

// envelope mirrors both response envelopes.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

func (e *testEnv) request(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	r := httptest.NewRequest(method, path, body)
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func (e *testEnv) doJSON(method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = strings.NewReader(string(data))
	}
	w := e.request(method, path, rd, "application/json", token)
	return w, decodeEnvelope(e.t, w)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (e *testEnv) seedUser(email, password string) *storage.User {
	e.t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(e.t, err)
	u, err := e.store.CreateUser(context.Background(), storage.NewUser{
		Name: "Jane Seeker", Email: email, PasswordHash: hash, Phone: uuid.NewString()[:10],
		Skills: []string{"go"}, Education: "BSc",
	})
	require.NoError(e.t, err)
	return u
}

func (e *testEnv) seedRecruiter(email, status string) *storage.Recruiter {
	e.t.Helper()
	hash, err := auth.HashPassword("recruiter-pass")
	require.NoError(e.t, err)
	r, err := e.store.CreateRecruiter(context.Background(), storage.NewRecruiter{
		Name: "Rita Recruiter", Email: email, PasswordHash: hash, CompanyName: "Acme",
	})
	require.NoError(e.t, err)
	if status != storage.VerificationPending {
		r, err = e.store.SetRecruiterVerification(context.Background(), r.ID, status)
		require.NoError(e.t, err)
	}
	return r
}

func (e *testEnv) seedAdmin(email, password string) *storage.Admin {
	e.t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(e.t, err)
	return e.store.createAdmin("Root", email, hash)
}

func (e *testEnv) seedJob(recruiterID, title string, skills ...string) *storage.Job {
	e.t.Helper()
	j, err := e.store.CreateJob(context.Background(), storage.NewJob{
		Title: title, Description: title + " role", SkillsRequired: skills,
		Location: "Remote", RecruiterID: recruiterID,
	})
	require.NoError(e.t, err)
	return j
}

func (e *testEnv) token(id, role string) string {
	e.t.Helper()
	tok, err := e.tokens.IssueAccess(id, role, "", "")
	require.NoError(e.t, err)
	return tok
}

func (e *testEnv) seedApplication(jobID, userID string, score *float64) *storage.Application {
	e.t.Helper()
	a, err := e.store.UpsertApplication(context.Background(), storage.NewApplication{
		JobID: jobID, UserID: userID, ResumeURL: "https://media.test/resumes/" + userID + ".pdf", Score: score,
	})
	require.NoError(e.t, err)
	return a
}

func ptr(v float64) *float64 { return &v }

var errScoring = errors.New("scoring service unavailable")
