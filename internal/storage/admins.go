package storage

import (
	"context"
	"database/sql"
	"strings"
)

func (db *DB) CreateAdmin(ctx context.Context, name, email, passwordHash string) (*Admin, error) {
	a := &Admin{}
	err := db.connection.QueryRowContext(ctx,
		`INSERT INTO admins (id, name, email, password_hash) VALUES ($1, $2, $3, $4)
         RETURNING id, name, email, created_at`,
		newID(), strings.TrimSpace(name), normalizeEmail(email), passwordHash,
	).Scan(&a.ID, &a.Name, &a.Email, &a.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}

func (db *DB) GetAdminByID(ctx context.Context, id string) (*Admin, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	a := &Admin{}
	err := db.connection.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM admins WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}

func (db *DB) GetAdminCredentials(ctx context.Context, email string) (*Credentials, error) {
	c := &Credentials{}
	err := db.connection.QueryRowContext(ctx,
		`SELECT id, password_hash FROM admins WHERE email = $1`, normalizeEmail(email),
	).Scan(&c.ID, &c.PasswordHash)
	if err != nil {
		return nil, translateError(err)
	}
	return c, nil
}

func (db *DB) SetAdminRefreshToken(ctx context.Context, id, token string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return expectOne(db.connection.ExecContext(ctx,
		`UPDATE admins SET refresh_token = $2 WHERE id = $1`, id, nullString(token)))
}

func (db *DB) GetAdminRefreshToken(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", ErrNotFound
	}
	var tok sql.NullString
	err := db.connection.QueryRowContext(ctx, `SELECT refresh_token FROM admins WHERE id = $1`, id).Scan(&tok)
	if err != nil {
		return "", translateError(err)
	}
	return tok.String, nil
}
