package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/leadisle/faceid/internal/pairing/domain"
)

type credentialsRepo struct {
	q querier
}

const credentialColumns = `user_id, username, credential_id, public_key, sign_count, transports, created_at, updated_at`

func (r *credentialsRepo) CreateCredential(ctx context.Context, c domain.Credential) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO credentials (`+credentialColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Username, nullString(c.CredentialID), c.PublicKey,
		c.SignCount, joinTransports(c.Transports), c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *credentialsRepo) GetCredentialByUsername(ctx context.Context, username string) (domain.Credential, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+credentialColumns+` FROM credentials WHERE username = ?`, username)
	return scanCredential(row)
}

func (r *credentialsRepo) GetCredentialByID(ctx context.Context, credentialID string) (domain.Credential, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+credentialColumns+` FROM credentials WHERE credential_id = ?`, credentialID)
	return scanCredential(row)
}

func (r *credentialsRepo) CompleteRegistration(ctx context.Context, userID, credentialID string, publicKey []byte, signCount uint32, transports []string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE credentials
		SET credential_id = ?, public_key = ?, sign_count = ?, transports = ?, updated_at = ?
		WHERE user_id = ?`,
		credentialID, publicKey, signCount, joinTransports(transports),
		time.Now().UTC(), userID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRow(res)
}

func (r *credentialsRepo) UpdateSignCount(ctx context.Context, credentialID string, from, to uint32) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE credentials
		SET sign_count = ?, updated_at = ?
		WHERE credential_id = ? AND sign_count = ?`,
		to, time.Now().UTC(), credentialID, from,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *credentialsRepo) ListCredentials(ctx context.Context) ([]domain.Credential, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+credentialColumns+` FROM credentials ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Credential
	for rows.Next() {
		c, err := scanCredentialRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCredential(row *sql.Row) (domain.Credential, error) {
	var (
		c            domain.Credential
		credentialID sql.NullString
		transports   string
	)
	err := row.Scan(&c.UserID, &c.Username, &credentialID, &c.PublicKey,
		&c.SignCount, &transports, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Credential{}, mapNotFound(err)
	}
	if credentialID.Valid {
		c.CredentialID = credentialID.String
	}
	c.Transports = splitTransports(transports)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

func scanCredentialRows(rows *sql.Rows) (domain.Credential, error) {
	var (
		c            domain.Credential
		credentialID sql.NullString
		transports   string
	)
	err := rows.Scan(&c.UserID, &c.Username, &credentialID, &c.PublicKey,
		&c.SignCount, &transports, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Credential{}, err
	}
	if credentialID.Valid {
		c.CredentialID = credentialID.String
	}
	c.Transports = splitTransports(transports)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}
