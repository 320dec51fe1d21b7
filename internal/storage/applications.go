package storage

import (
	"context"
	"database/sql"
	"sort"

	"github.com/lib/pq"
)

const applicationColumns = `a.id, a.job_id, a.user_id, a.resume_url, a.resume_excerpt, a.score, a.status,
                            a.description_score, a.skills_score, a.priority_skills_score,
                            a.experience_score, a.education_score, a.created_at, a.updated_at`

func scanApplication(row rowScanner, extra ...any) (*Application, error) {
	a := &Application{}
	var score, desc, skills, prio, exp, edu sql.NullFloat64
	dest := []any{&a.ID, &a.JobID, &a.UserID, &a.ResumeURL, &a.ResumeExcerpt, &score, &a.Status,
		&desc, &skills, &prio, &exp, &edu, &a.CreatedAt, &a.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	a.Score = floatPtr(score)
	a.Breakdown = Breakdown{
		DescriptionScore:    floatPtr(desc),
		SkillsScore:         floatPtr(skills),
		PrioritySkillsScore: floatPtr(prio),
		ExperienceScore:     floatPtr(exp),
		EducationScore:      floatPtr(edu),
	}
	return a, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// UpsertApplication records an application. Re-applying to the same job
// replaces the resume and score and resets the status to Applied.
func (db *DB) UpsertApplication(ctx context.Context, in NewApplication) (*Application, error) {
	if !validID(in.JobID) || !validID(in.UserID) {
		return nil, ErrNotFound
	}
	b := in.Breakdown
	query := `INSERT INTO applications AS a (id, job_id, user_id, resume_url, resume_excerpt, score, status,
                  description_score, skills_score, priority_skills_score, experience_score, education_score)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
              ON CONFLICT (job_id, user_id) DO UPDATE
                SET resume_url = EXCLUDED.resume_url,
                    resume_excerpt = EXCLUDED.resume_excerpt,
                    score = EXCLUDED.score,
                    status = EXCLUDED.status,
                    description_score = EXCLUDED.description_score,
                    skills_score = EXCLUDED.skills_score,
                    priority_skills_score = EXCLUDED.priority_skills_score,
                    experience_score = EXCLUDED.experience_score,
                    education_score = EXCLUDED.education_score,
                    updated_at = NOW()
              RETURNING ` + applicationColumns
	row := db.connection.QueryRowContext(ctx, query,
		newID(), in.JobID, in.UserID, in.ResumeURL, in.ResumeExcerpt, in.Score, StatusApplied,
		b.DescriptionScore, b.SkillsScore, b.PrioritySkillsScore, b.ExperienceScore, b.EducationScore)
	a, err := scanApplication(row)
	return a, translateError(err)
}

func (db *DB) GetApplication(ctx context.Context, id string) (*Application, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := db.connection.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id)
	a, err := scanApplication(row)
	return a, translateError(err)
}

// ListApplicationsByJob returns applicants with their public profile,
// highest score first and unscored applicants last.
func (db *DB) ListApplicationsByJob(ctx context.Context, jobID string) ([]*Application, error) {
	if !validID(jobID) {
		return []*Application{}, nil
	}
	rows, err := db.connection.QueryContext(ctx,
		`SELECT `+applicationColumns+`, u.id, u.name, u.email, u.phone, u.location, u.skills,
                u.experience, u.education, u.profile_pic_url, u.resume_url, u.created_at, u.updated_at
         FROM applications a
         JOIN users u ON u.id = a.user_id
         WHERE a.job_id = $1
         ORDER BY a.created_at`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*Application{}
	for rows.Next() {
		u := &User{}
		a, err := scanApplication(rows, &u.ID, &u.Name, &u.Email, &u.Phone, &u.Location, pq.Array(&u.Skills),
			&u.Experience, &u.Education, &u.ProfilePicURL, &u.ResumeURL, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if u.Skills == nil {
			u.Skills = []string{}
		}
		a.Applicant = u
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	SortByScore(res)
	return res, nil
}

// ListApplicationsByUser returns a job seeker's applications with job summaries.
func (db *DB) ListApplicationsByUser(ctx context.Context, userID string) ([]*Application, error) {
	if !validID(userID) {
		return []*Application{}, nil
	}
	rows, err := db.connection.QueryContext(ctx,
		`SELECT `+applicationColumns+`, j.id, j.title, r.company_name, j.location
         FROM applications a
         JOIN jobs j ON j.id = a.job_id
         JOIN recruiters r ON r.id = j.recruiter_id
         WHERE a.user_id = $1
         ORDER BY a.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*Application{}
	for rows.Next() {
		ref := &JobRef{}
		a, err := scanApplication(rows, &ref.ID, &ref.Title, &ref.CompanyName, &ref.Location)
		if err != nil {
			return nil, err
		}
		a.Job = ref
		res = append(res, a)
	}
	return res, rows.Err()
}

func (db *DB) UpdateApplicationStatus(ctx context.Context, id, status string) (*Application, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := db.connection.QueryRowContext(ctx,
		`UPDATE applications a SET status = $2, updated_at = NOW() WHERE a.id = $1 RETURNING `+applicationColumns,
		id, status)
	a, err := scanApplication(row)
	return a, translateError(err)
}

// UpdateApplicationScore stores a fresh score without touching the status.
func (db *DB) UpdateApplicationScore(ctx context.Context, id string, score *float64, b Breakdown) error {
	if !validID(id) {
		return ErrNotFound
	}
	return expectOne(db.connection.ExecContext(ctx,
		`UPDATE applications SET score = $2, description_score = $3, skills_score = $4,
                priority_skills_score = $5, experience_score = $6, education_score = $7, updated_at = NOW()
         WHERE id = $1`,
		id, score, b.DescriptionScore, b.SkillsScore, b.PrioritySkillsScore, b.ExperienceScore, b.EducationScore))
}

// ListUnscoredApplications returns up to limit applications whose score is NULL.
func (db *DB) ListUnscoredApplications(ctx context.Context, limit int) ([]*Application, error) {
	rows, err := db.connection.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications a WHERE a.score IS NULL ORDER BY a.created_at LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// SortByScore orders applications by score descending; nil scores sink to
// the end and ties keep submission order.
func SortByScore(apps []*Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		si, sj := apps[i].Score, apps[j].Score
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return *si > *sj
		}
	})
}
