package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lib/pq"
)

const jobSelect = `SELECT j.id, j.title, j.description, j.skills_required, j.experience_required,
                          j.experience_keywords, j.priority_skills, j.degree_requirements,
                          j.location, j.salary_range, j.recruiter_id, r.name, r.company_name,
                          (SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id),
                          j.created_at, j.updated_at
                   FROM jobs j
                   JOIN recruiters r ON r.id = j.recruiter_id`

func scanJob(row rowScanner) (*Job, error) {
	j := &Job{Recruiter: &RecruiterSummary{}}
	var exp sql.NullInt64
	err := row.Scan(&j.ID, &j.Title, &j.Description, pq.Array(&j.SkillsRequired), &exp,
		pq.Array(&j.ExperienceKeywords), pq.Array(&j.PrioritySkills), pq.Array(&j.DegreeRequirements),
		&j.Location, &j.SalaryRange, &j.RecruiterID, &j.Recruiter.Name, &j.Recruiter.CompanyName,
		&j.ApplicantCount, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.Recruiter.ID = j.RecruiterID
	if exp.Valid {
		n := int(exp.Int64)
		j.ExperienceRequired = &n
	}
	for _, list := range []*[]string{&j.SkillsRequired, &j.ExperienceKeywords, &j.PrioritySkills, &j.DegreeRequirements} {
		if *list == nil {
			*list = []string{}
		}
	}
	return j, nil
}

// CreateJob inserts a posting and returns it populated with its recruiter.
func (db *DB) CreateJob(ctx context.Context, in NewJob) (*Job, error) {
	if !validID(in.RecruiterID) {
		return nil, ErrNotFound
	}
	id := newID()
	var exp any
	if in.ExperienceRequired != nil {
		exp = *in.ExperienceRequired
	}
	_, err := db.connection.ExecContext(ctx,
		`INSERT INTO jobs (id, title, description, skills_required, experience_required, experience_keywords,
                           priority_skills, degree_requirements, location, salary_range, recruiter_id)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id,
		strings.TrimSpace(in.Title),
		strings.TrimSpace(in.Description),
		pq.Array(cleanList(in.SkillsRequired)),
		exp,
		pq.Array(cleanList(in.ExperienceKeywords)),
		pq.Array(cleanList(in.PrioritySkills)),
		pq.Array(cleanList(in.DegreeRequirements)),
		strings.TrimSpace(in.Location),
		strings.TrimSpace(in.SalaryRange),
		in.RecruiterID,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return db.GetJob(ctx, id)
}

// GetJob returns one job with its recruiter summary and applicant count.
// Applications themselves are only listed through ListApplicationsByJob.
func (db *DB) GetJob(ctx context.Context, id string) (*Job, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	j, err := scanJob(db.connection.QueryRowContext(ctx, jobSelect+` WHERE j.id = $1`, id))
	if err != nil {
		return nil, translateError(err)
	}
	return j, nil
}

func (db *DB) ListJobs(ctx context.Context) ([]*Job, error) {
	return db.queryJobs(ctx, jobSelect+` ORDER BY j.created_at DESC`)
}

func (db *DB) ListJobsByRecruiter(ctx context.Context, recruiterID string) ([]*Job, error) {
	if !validID(recruiterID) {
		return []*Job{}, nil
	}
	return db.queryJobs(ctx, jobSelect+` WHERE j.recruiter_id = $1 ORDER BY j.created_at DESC`, recruiterID)
}

// SearchJobs ranks full-text matches of q over title, skills and
// description (title and skills weigh more). Location is matched by
// substring and skill against any required skill, case-insensitively.
// Without a usable q, results are newest first.
func (db *DB) SearchJobs(ctx context.Context, f JobFilter) ([]*Job, error) {
	var where []string
	var args []interface{}
	i := 1

	order := "j.created_at DESC"
	if tsQuery := prepareTSQuery(f.Query); tsQuery != "" {
		where = append(where, fmt.Sprintf("j.search_vector @@ to_tsquery('english', $%d)", i))
		order = fmt.Sprintf("ts_rank(j.search_vector, to_tsquery('english', $%d)) DESC, j.created_at DESC", i)
		args = append(args, tsQuery)
		i++
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		where = append(where, fmt.Sprintf(`j.location ILIKE $%d ESCAPE '\'`, i))
		args = append(args, "%"+escapeLike(loc)+"%")
		i++
	}
	if skill := strings.TrimSpace(f.Skill); skill != "" {
		where = append(where, fmt.Sprintf(`EXISTS (SELECT 1 FROM unnest(j.skills_required) s WHERE s ILIKE $%d ESCAPE '\')`, i))
		args = append(args, "%"+escapeLike(skill)+"%")
		i++
	}

	query := jobSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + order
	return db.queryJobs(ctx, query, args...)
}

// prepareTSQuery converts free text into a prefix-matching tsquery.
// Example: "Senior Go, k8s!" -> "senior:* & go:* & k8s:*"
// Words are reduced to letters and digits, so the result is always valid
// tsquery syntax. It returns "" when nothing usable is left.
func prepareTSQuery(query string) string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) < 2 { // single letters would match almost everything
			continue
		}
		terms = append(terms, word+":*")
	}
	return strings.Join(terms, " & ")
}

// escapeLike makes s match literally inside a LIKE pattern using '\' as escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DeleteJob removes a job owned by recruiterID.
func (db *DB) DeleteJob(ctx context.Context, id, recruiterID string) error {
	if !validID(id) || !validID(recruiterID) {
		return ErrNotFound
	}
	return expectOne(db.connection.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = $1 AND recruiter_id = $2`, id, recruiterID))
}

func (db *DB) CountJobs(ctx context.Context) (int, error) {
	var n int
	err := db.connection.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n)
	return n, err
}

func (db *DB) queryJobs(ctx context.Context, query string, args ...interface{}) ([]*Job, error) {
	rows, err := db.connection.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}
