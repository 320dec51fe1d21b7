package storage

import (
	"context"
	"database/sql"
	"strings"
)

const recruiterColumns = `id, name, email, company_name, company_website, phone, profile_pic_url, verification_status, created_at, updated_at`

func scanRecruiter(row rowScanner) (*Recruiter, error) {
	r := &Recruiter{}
	err := row.Scan(&r.ID, &r.Name, &r.Email, &r.CompanyName, &r.CompanyWebsite, &r.Phone,
		&r.ProfilePicURL, &r.VerificationStatus, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// CreateRecruiter inserts a recruiter in the pending verification state.
func (db *DB) CreateRecruiter(ctx context.Context, in NewRecruiter) (*Recruiter, error) {
	query := `INSERT INTO recruiters (id, name, email, password_hash, company_name, company_website, phone, profile_pic_url, verification_status)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING ` + recruiterColumns
	row := db.connection.QueryRowContext(ctx, query,
		newID(),
		strings.TrimSpace(in.Name),
		normalizeEmail(in.Email),
		in.PasswordHash,
		strings.TrimSpace(in.CompanyName),
		strings.TrimSpace(in.CompanyWebsite),
		strings.TrimSpace(in.Phone),
		in.ProfilePicURL,
		VerificationPending,
	)
	r, err := scanRecruiter(row)
	return r, translateError(err)
}

func (db *DB) GetRecruiterByID(ctx context.Context, id string) (*Recruiter, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := db.connection.QueryRowContext(ctx, `SELECT `+recruiterColumns+` FROM recruiters WHERE id = $1`, id)
	r, err := scanRecruiter(row)
	return r, translateError(err)
}

func (db *DB) GetRecruiterCredentials(ctx context.Context, email string) (*Credentials, error) {
	c := &Credentials{}
	err := db.connection.QueryRowContext(ctx,
		`SELECT id, password_hash FROM recruiters WHERE email = $1`, normalizeEmail(email),
	).Scan(&c.ID, &c.PasswordHash)
	if err != nil {
		return nil, translateError(err)
	}
	return c, nil
}

func (db *DB) ListRecruiters(ctx context.Context) ([]*Recruiter, error) {
	rows, err := db.connection.QueryContext(ctx, `SELECT `+recruiterColumns+` FROM recruiters ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*Recruiter{}
	for rows.Next() {
		r, err := scanRecruiter(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func (db *DB) CountRecruiters(ctx context.Context) (int, error) {
	var n int
	err := db.connection.QueryRowContext(ctx, `SELECT COUNT(*) FROM recruiters`).Scan(&n)
	return n, err
}

// SetRecruiterVerification records an admin decision on a recruiter account.
func (db *DB) SetRecruiterVerification(ctx context.Context, id, status string) (*Recruiter, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := db.connection.QueryRowContext(ctx,
		`UPDATE recruiters SET verification_status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+recruiterColumns,
		id, status)
	r, err := scanRecruiter(row)
	return r, translateError(err)
}

func (db *DB) SetRecruiterRefreshToken(ctx context.Context, id, token string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return expectOne(db.connection.ExecContext(ctx,
		`UPDATE recruiters SET refresh_token = $2 WHERE id = $1`, id, nullString(token)))
}

func (db *DB) GetRecruiterRefreshToken(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", ErrNotFound
	}
	var tok sql.NullString
	err := db.connection.QueryRowContext(ctx, `SELECT refresh_token FROM recruiters WHERE id = $1`, id).Scan(&tok)
	if err != nil {
		return "", translateError(err)
	}
	return tok.String, nil
}
