package storage

import "context"

const hireColumns = `id, recruiter_id, user_id, job_id, payment_status, created_at`

func scanHire(row rowScanner) (*Hire, error) {
	h := &Hire{}
	if err := row.Scan(&h.ID, &h.RecruiterID, &h.UserID, &h.JobID, &h.PaymentStatus, &h.CreatedAt); err != nil {
		return nil, err
	}
	return h, nil
}

// CreateHire records a hire once per (job, user); repeats return the existing row.
func (db *DB) CreateHire(ctx context.Context, recruiterID, userID, jobID string) (*Hire, error) {
	if !validID(recruiterID) || !validID(userID) || !validID(jobID) {
		return nil, ErrNotFound
	}
	row := db.connection.QueryRowContext(ctx,
		`INSERT INTO hires (id, recruiter_id, user_id, job_id, payment_status)
         VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (job_id, user_id) DO UPDATE SET job_id = EXCLUDED.job_id
         RETURNING `+hireColumns,
		newID(), recruiterID, userID, jobID, PaymentPending)
	h, err := scanHire(row)
	return h, translateError(err)
}

func (db *DB) ListHires(ctx context.Context) ([]*Hire, error) {
	rows, err := db.connection.QueryContext(ctx, `SELECT `+hireColumns+` FROM hires ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*Hire{}
	for rows.Next() {
		h, err := scanHire(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

func (db *DB) SetHirePaymentStatus(ctx context.Context, id, status string) (*Hire, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := db.connection.QueryRowContext(ctx,
		`UPDATE hires SET payment_status = $2 WHERE id = $1 RETURNING `+hireColumns, id, status)
	h, err := scanHire(row)
	return h, translateError(err)
}
