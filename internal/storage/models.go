package storage

import "time"

// Verification states a recruiter account moves through.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// Application statuses a recruiter can set.
const (
	StatusApplied     = "Applied"
	StatusScreening   = "Screening"
	StatusShortlisted = "Shortlisted"
	StatusInterview   = "Interview"
	StatusHired       = "Hired"
	StatusRejected    = "Rejected"
)

// Hire payment states.
const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
)

// ValidVerificationStatus reports whether s is a known verification state.
func ValidVerificationStatus(s string) bool {
	switch s {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	}
	return false
}

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	switch s {
	case StatusApplied, StatusScreening, StatusShortlisted, StatusInterview, StatusHired, StatusRejected:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment state.
func ValidPaymentStatus(s string) bool {
	return s == PaymentPending || s == PaymentCompleted
}

// User is a job seeker account. Password hash and refresh token never leave storage.
type User struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Location      string    `json:"location,omitempty"`
	Skills        []string  `json:"skills"`
	Experience    string    `json:"experience,omitempty"`
	Education     string    `json:"education"`
	ProfilePicURL string    `json:"profilePicUrl,omitempty"`
	ResumeURL     string    `json:"resumeUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewUser holds registration input.
type NewUser struct {
	Name          string
	Email         string
	PasswordHash  string
	Phone         string
	Location      string
	Skills        []string
	Experience    string
	Education     string
	ProfilePicURL string
}

// ProfileUpdate is a partial update; nil fields are left unchanged.
type ProfileUpdate struct {
	Name       *string   `json:"name,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Location   *string   `json:"location,omitempty"`
	Skills     *[]string `json:"skills,omitempty"`
	Experience *string   `json:"experience,omitempty"`
	Education  *string   `json:"education,omitempty"`
}

// Recruiter is a company account that posts jobs once approved.
type Recruiter struct {
	ID                 string    `json:"_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	CompanyName        string    `json:"companyName"`
	CompanyWebsite     string    `json:"companyWebsite,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	ProfilePicURL      string    `json:"profilePicUrl,omitempty"`
	VerificationStatus string    `json:"verificationStatus"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// NewRecruiter holds registration input.
type NewRecruiter struct {
	Name           string
	Email          string
	PasswordHash   string
	CompanyName    string
	CompanyWebsite string
	Phone          string
	ProfilePicURL  string
}

// RecruiterSummary is the populated recruiter reference embedded in jobs.
type RecruiterSummary struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
}

// Admin verifies recruiters and reviews platform totals.
type Admin struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credentials pairs an account ID with its stored password hash.
type Credentials struct {
	ID           string
	PasswordHash string
}

// Job is a posting owned by a recruiter.
type Job struct {
	ID                 string            `json:"_id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	SkillsRequired     []string          `json:"skillsRequired"`
	ExperienceRequired *int              `json:"experienceRequired,omitempty"`
	ExperienceKeywords []string          `json:"experienceKeywords"`
	PrioritySkills     []string          `json:"prioritySkills"`
	DegreeRequirements []string          `json:"degreeRequirements"`
	Location           string            `json:"location,omitempty"`
	SalaryRange        string            `json:"salaryRange,omitempty"`
	RecruiterID        string            `json:"-"`
	Recruiter          *RecruiterSummary `json:"recruiterId,omitempty"`
	ApplicantCount     int               `json:"applicantCount"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// NewJob holds posting input.
type NewJob struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	SkillsRequired     []string `json:"skillsRequired"`
	ExperienceRequired *int     `json:"experienceRequired"`
	ExperienceKeywords []string `json:"experienceKeywords"`
	PrioritySkills     []string `json:"prioritySkills"`
	DegreeRequirements []string `json:"degreeRequirements"`
	Location           string   `json:"location"`
	SalaryRange        string   `json:"salaryRange"`
	RecruiterID        string   `json:"-"`
}

// JobFilter narrows SearchJobs; empty fields match everything.
type JobFilter struct {
	Query    string
	Location string
	Skill    string
}

// Breakdown is the per-factor score returned by the scoring service.
type Breakdown struct {
	DescriptionScore    *float64 `json:"description_score,omitempty"`
	SkillsScore         *float64 `json:"skills_score,omitempty"`
	PrioritySkillsScore *float64 `json:"priority_skills_score,omitempty"`
	ExperienceScore     *float64 `json:"experience_score,omitempty"`
	EducationScore      *float64 `json:"education_score,omitempty"`
}

// Application is one user's application to one job.
type Application struct {
	ID            string    `json:"_id"`
	JobID         string    `json:"jobId"`
	UserID        string    `json:"userId"`
	ResumeURL     string    `json:"resumeUrl"`
	ResumeExcerpt string    `json:"resumeExcerpt,omitempty"`
	Score         *float64  `json:"score"`
	Status        string    `json:"status"`
	Breakdown     Breakdown `json:"breakdown"`
	Applicant     *User     `json:"applicant,omitempty"`
	Job           *JobRef   `json:"job,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// JobRef is the job summary attached to a user's own applications.
type JobRef struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	Location    string `json:"location,omitempty"`
}

// NewApplication holds the result of applying with a scored resume.
type NewApplication struct {
	JobID         string
	UserID        string
	ResumeURL     string
	ResumeExcerpt string
	Score         *float64
	Breakdown     Breakdown
}

// Hire records a recruiter hiring an applicant; payment is tracked by admins.
type Hire struct {
	ID            string    `json:"_id"`
	RecruiterID   string    `json:"recruiterId"`
	UserID        string    `json:"userId"`
	JobID         string    `json:"jobId"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}
