package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"
)

const userColumns = `id, name, email, phone, location, skills, experience, education, profile_pic_url, resume_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Location, pq.Array(&u.Skills),
		&u.Experience, &u.Education, &u.ProfilePicURL, &u.ResumeURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	return u, nil
}

// CreateUser inserts a job seeker. Email or phone collisions return ErrDuplicate.
func (db *DB) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	query := `INSERT INTO users (id, name, email, password_hash, phone, location, skills, experience, education, profile_pic_url)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
              RETURNING ` + userColumns
	row := db.connection.QueryRowContext(ctx, query,
		newID(),
		strings.TrimSpace(in.Name),
		normalizeEmail(in.Email),
		in.PasswordHash,
		strings.TrimSpace(in.Phone),
		strings.TrimSpace(in.Location),
		pq.Array(cleanList(in.Skills)),
		in.Experience,
		in.Education,
		in.ProfilePicURL,
	)
	u, err := scanUser(row)
	return u, translateError(err)
}

// UserPhoneExists reports whether a job seeker already registered phone.
func (db *DB) UserPhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := db.connection.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE phone = $1)`, strings.TrimSpace(phone)).Scan(&exists)
	return exists, err
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := db.connection.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	return u, translateError(err)
}

// GetUserCredentials looks a user up by email for login.
func (db *DB) GetUserCredentials(ctx context.Context, email string) (*Credentials, error) {
	c := &Credentials{}
	err := db.connection.QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE email = $1`, normalizeEmail(email),
	).Scan(&c.ID, &c.PasswordHash)
	if err != nil {
		return nil, translateError(err)
	}
	return c, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := db.connection.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (db *DB) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := db.connection.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// UpdateUserProfile applies the non-nil fields of upd and returns the fresh row.
func (db *DB) UpdateUserProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var skills any
	if upd.Skills != nil {
		skills = pq.Array(cleanList(*upd.Skills))
	}
	query := `UPDATE users SET
                name       = COALESCE($2, name),
                phone      = COALESCE($3, phone),
                location   = COALESCE($4, location),
                skills     = COALESCE($5, skills),
                experience = COALESCE($6, experience),
                education  = COALESCE($7, education),
                updated_at = NOW()
              WHERE id = $1
              RETURNING ` + userColumns
	row := db.connection.QueryRowContext(ctx, query, id,
		trimmedPtr(upd.Name), trimmedPtr(upd.Phone), trimmedPtr(upd.Location), skills, upd.Experience, upd.Education)
	u, err := scanUser(row)
	return u, translateError(err)
}

func (db *DB) SetUserResumeURL(ctx context.Context, id, resumeURL string) (*User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := db.connection.QueryRowContext(ctx,
		`UPDATE users SET resume_url = $2, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns, id, resumeURL)
	u, err := scanUser(row)
	return u, translateError(err)
}

// SetUserRefreshToken stores the current refresh token; an empty token clears it.
func (db *DB) SetUserRefreshToken(ctx context.Context, id, token string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return expectOne(db.connection.ExecContext(ctx,
		`UPDATE users SET refresh_token = $2 WHERE id = $1`, id, nullString(token)))
}

func (db *DB) GetUserRefreshToken(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", ErrNotFound
	}
	var tok sql.NullString
	err := db.connection.QueryRowContext(ctx, `SELECT refresh_token FROM users WHERE id = $1`, id).Scan(&tok)
	if err != nil {
		return "", translateError(err)
	}
	return tok.String, nil
}

func trimmedPtr(s *string) any {
	if s == nil {
		return nil
	}
	return strings.TrimSpace(*s)
}
