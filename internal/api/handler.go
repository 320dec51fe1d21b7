package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"job-board/internal/auth"
	"job-board/internal/events"
	"job-board/internal/media"
	"job-board/internal/resume"
	"job-board/internal/scoring"
	"job-board/internal/storage"
)

// Store is the persistence the handlers need; *storage.DB implements it.
type Store interface {
	CreateUser(ctx context.Context, in storage.NewUser) (*storage.User, error)
	GetUserByID(ctx context.Context, id string) (*storage.User, error)
	GetUserCredentials(ctx context.Context, email string) (*storage.Credentials, error)
	UserPhoneExists(ctx context.Context, phone string) (bool, error)
	ListUsers(ctx context.Context) ([]*storage.User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateUserProfile(ctx context.Context, id string, upd storage.ProfileUpdate) (*storage.User, error)
	SetUserResumeURL(ctx context.Context, id, resumeURL string) (*storage.User, error)
	SetUserRefreshToken(ctx context.Context, id, token string) error
	GetUserRefreshToken(ctx context.Context, id string) (string, error)

	CreateRecruiter(ctx context.Context, in storage.NewRecruiter) (*storage.Recruiter, error)
	GetRecruiterByID(ctx context.Context, id string) (*storage.Recruiter, error)
	GetRecruiterCredentials(ctx context.Context, email string) (*storage.Credentials, error)
	ListRecruiters(ctx context.Context) ([]*storage.Recruiter, error)
	CountRecruiters(ctx context.Context) (int, error)
	SetRecruiterVerification(ctx context.Context, id, status string) (*storage.Recruiter, error)
	SetRecruiterRefreshToken(ctx context.Context, id, token string) error
	GetRecruiterRefreshToken(ctx context.Context, id string) (string, error)

	GetAdminByID(ctx context.Context, id string) (*storage.Admin, error)
	GetAdminCredentials(ctx context.Context, email string) (*storage.Credentials, error)
	SetAdminRefreshToken(ctx context.Context, id, token string) error
	GetAdminRefreshToken(ctx context.Context, id string) (string, error)

	CreateJob(ctx context.Context, in storage.NewJob) (*storage.Job, error)
	GetJob(ctx context.Context, id string) (*storage.Job, error)
	ListJobs(ctx context.Context) ([]*storage.Job, error)
	ListJobsByRecruiter(ctx context.Context, recruiterID string) ([]*storage.Job, error)
	SearchJobs(ctx context.Context, f storage.JobFilter) ([]*storage.Job, error)
	DeleteJob(ctx context.Context, id, recruiterID string) error
	CountJobs(ctx context.Context) (int, error)

	UpsertApplication(ctx context.Context, in storage.NewApplication) (*storage.Application, error)
	GetApplication(ctx context.Context, id string) (*storage.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID string) ([]*storage.Application, error)
	ListApplicationsByUser(ctx context.Context, userID string) ([]*storage.Application, error)
	UpdateApplicationStatus(ctx context.Context, id, status string) (*storage.Application, error)
	UpdateApplicationScore(ctx context.Context, id string, score *float64, b storage.Breakdown) error

	CreateHire(ctx context.Context, recruiterID, userID, jobID string) (*storage.Hire, error)
	ListHires(ctx context.Context) ([]*storage.Hire, error)
	SetHirePaymentStatus(ctx context.Context, id, status string) (*storage.Hire, error)
}

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// Options carries the HTTP-facing settings from config.
type Options struct {
	CookieSecure   bool
	CORSOrigin     string
	LoginRateLimit int      // attempts per minute per client IP
	TrustedProxies []string // IPs or CIDRs whose X-Forwarded-For is believed
	RescoreRate    float64  // scoring calls per second for background re-scoring
	RescoreQueue   int
}

// Deps are the collaborators the API is built from.
type Deps struct {
	Store    Store
	Tokens   *auth.TokenIssuer
	Uploader *resume.Uploader
	Parser   TextExtractor
	Media    media.Store
	Scorer   scoring.Scorer
	Events   events.Publisher
}

type API struct {
	store    Store
	tokens   *auth.TokenIssuer
	uploader *resume.Uploader
	parser   TextExtractor
	media    media.Store
	scorer   scoring.Scorer
	events   events.Publisher
	opts     Options

	// rescorer never answers from the score cache.
	rescorer scoring.Scorer

	loginLimiter *ipLimiter
	proxies      proxySet
	rescoreQueue chan RescoreJob // background re-scoring of a job's applicants
	queueMu      sync.RWMutex
	queueClosed  bool
	workersDone  chan struct{}
}

const excerptLength = 280

func NewAPI(d Deps, opts Options) *API {
	if d.Events == nil {
		d.Events = events.NopPublisher{}
	}
	if opts.LoginRateLimit <= 0 {
		opts.LoginRateLimit = 5
	}
	if opts.RescoreRate <= 0 {
		opts.RescoreRate = 5
	}
	if opts.RescoreQueue <= 0 {
		opts.RescoreQueue = 20
	}

	api := &API{
		store:        d.Store,
		tokens:       d.Tokens,
		uploader:     d.Uploader,
		parser:       d.Parser,
		media:        d.Media,
		scorer:       d.Scorer,
		rescorer:     scoring.Uncached(d.Scorer),
		events:       d.Events,
		opts:         opts,
		loginLimiter: newIPLimiter(opts.LoginRateLimit, time.Minute),
		proxies:      parseProxies(opts.TrustedProxies),
		rescoreQueue: make(chan RescoreJob, opts.RescoreQueue),
		workersDone:  make(chan struct{}),
	}

	// Start background workers
	api.StartBackgroundWorkers()

	return api
}

// health reports database reachability when the store supports it.
func (a *API) health(w http.ResponseWriter, r *http.Request) {
	type pinger interface{ Ping(ctx context.Context) error }
	if p, ok := a.store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
