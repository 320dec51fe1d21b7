package api

import (
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"

	"job-board/internal/auth"
)

const apiBase = "/api/v1"

// NewRouter wires every route. mediaDir is served under /media/ when set.
func NewRouter(a *API, mediaDir string) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation - must be registered first
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Health check (for Railway, k8s, etc.)
	mux.HandleFunc("GET /health", a.health)

	if mediaDir != "" {
		mux.Handle("GET /media/", http.StripPrefix("/media/", noDirListing(http.FileServer(http.Dir(mediaDir)))))
	}

	user := a.requireRole(auth.RoleUser)
	recruiter := a.requireRole(auth.RoleRecruiter)
	admin := a.requireRole(auth.RoleAdmin)

	route := func(pattern string, h http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(method+" "+apiBase+path, h)
	}

	// Users
	route("POST /users/register", a.RegisterUser)
	route("POST /users/login", a.limitLogin(a.LoginUser))
	route("POST /users/logout", user(a.LogoutUser))
	route("POST /users/refresh-token", a.RefreshUserToken)
	route("GET /users/getUsers", a.GetUsers)
	route("GET /users/profile", user(a.UserProfile))
	route("PATCH /users/profile", user(a.UpdateProfile))
	route("POST /users/upload-resume", user(a.UploadResume))
	route("GET /users/applications", user(a.MyApplications))

	// Recruiters
	route("POST /recruiter/register", a.RegisterRecruiter)
	route("POST /recruiter/login", a.limitLogin(a.LoginRecruiter))
	route("POST /recruiter/logout", recruiter(a.LogoutRecruiter))
	route("POST /recruiter/refresh-token", a.RefreshRecruiterToken)
	route("GET /recruiter/getRecruiters", a.GetRecruiters)
	route("GET /recruiter/profile", recruiter(a.RecruiterProfile))
	route("GET /recruiter/{recruiterId}/jobs", a.GetJobsByRecruiter)

	// Jobs
	route("POST /job", recruiter(a.CreateJob))
	route("POST /job/{$}", recruiter(a.CreateJob))
	route("GET /job/getAllJobs", a.GetAllJobs)
	route("GET /job/search", a.SearchJobs)
	route("GET /job/{jobId}", a.GetJob)
	route("DELETE /job/{jobId}", recruiter(a.DeleteJob))
	route("GET /job/{jobId}/applicants", recruiter(a.GetApplicants))
	route("PATCH /job/{jobId}/applicants/{applicationId}", recruiter(a.UpdateApplicationStatus))
	route("POST /job/{jobId}/rescore", recruiter(a.RescoreJob))

	// Admin
	route("POST /admin/login", a.limitLogin(a.LoginAdmin))
	route("POST /admin/logout", admin(a.LogoutAdmin))
	route("POST /admin/refresh-token", a.RefreshAdminToken)
	route("GET /admin/users/count", admin(a.GetTotalUsers))
	route("GET /admin/recruiters/count", admin(a.GetTotalRecruiters))
	route("GET /admin/jobs/count", admin(a.GetTotalJobs))
	route("GET /admin/users/all", admin(a.AdminListUsers))
	route("GET /admin/recruiters/all", admin(a.AdminListRecruiters))
	route("PATCH /admin/recruiters/{recruiterId}/verification", admin(a.VerifyRecruiter))
	route("GET /admin/hires", admin(a.ListHires))
	route("PATCH /admin/hires/{hireId}/payment", admin(a.UpdateHirePayment))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, apiError(http.StatusNotFound, "Route not found"))
	})

	return logRequests(cors(a.opts.CORSOrigin)(mux))
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
