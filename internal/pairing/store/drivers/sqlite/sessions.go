package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/leadisle/faceid/internal/pairing/domain"
	"github.com/leadisle/faceid/internal/pairing/store"
)

type sessionsRepo struct {
	q querier
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sessions (id, kind, status, challenge, user_id, username, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, string(s.Kind), string(s.Status), s.Challenge,
		nullString(s.UserID), s.Username, s.CreatedAt.UTC(), s.ExpiresAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, kind, status, challenge, user_id, username, created_at, expires_at
		FROM sessions WHERE id = ?`, id)

	return scanSession(row)
}

func (r *sessionsRepo) MarkSessionScanned(ctx context.Context, id string, challenge []byte, userID, username string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE sessions
		SET status = ?, challenge = ?, user_id = ?, username = ?
		WHERE id = ? AND status = ?`,
		string(domain.SessionScanned), challenge, nullString(userID), username,
		id, string(domain.SessionPending),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sessionsRepo) MarkSessionFinished(ctx context.Context, id string, status domain.SessionStatus, username string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE sessions
		SET status = ?, username = CASE WHEN ? != '' THEN ? ELSE username END
		WHERE id = ? AND status = ?`,
		string(status), username, username,
		id, string(domain.SessionScanned),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}

func scanSession(row *sql.Row) (domain.Session, error) {
	var (
		s         domain.Session
		kind      string
		status    string
		challenge []byte
		userID    sql.NullString
	)
	err := row.Scan(&s.ID, &kind, &status, &challenge, &userID, &s.Username, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	s.Kind = domain.SessionKind(kind)
	s.Status = domain.SessionStatus(status)
	s.Challenge = challenge
	if userID.Valid {
		s.UserID = userID.String
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return s, nil
}

// requireRow turns a zero-row guarded update into ErrStaleWrite so callers
// can tell "transition lost the race" apart from success.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrStaleWrite
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
