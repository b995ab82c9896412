package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mind-engage/quizdesk/internal/apperr"
	"github.com/mind-engage/quizdesk/internal/db"
)

type SQLStore struct{ DB *sql.DB }

func NewSQLStore(d *sql.DB) *SQLStore { return &SQLStore{DB: d} }

// Create relies on the UNIQUE(email) constraint; concurrent signups for the
// same address resolve to exactly one insert.
func (s *SQLStore) Create(ctx context.Context, u User) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO users(id,name,email,password_hash,role,created_at) VALUES($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt.Unix())
	if db.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return apperr.Wrap(apperr.Internal, "insert user", err)
	}
	return nil
}

func (s *SQLStore) ByEmail(ctx context.Context, email string) (User, error) {
	return s.one(ctx, `SELECT id,name,email,password_hash,role,created_at FROM users WHERE email=$1`, email)
}

func (s *SQLStore) ByID(ctx context.Context, id string) (User, error) {
	return s.one(ctx, `SELECT id,name,email,password_hash,role,created_at FROM users WHERE id=$1`, id)
}

func (s *SQLStore) SetPasswordHash(ctx context.Context, id, hash string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, hash, id)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "update password", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *SQLStore) one(ctx context.Context, q string, arg string) (User, error) {
	var (
		u       User
		created int64
	)
	err := s.DB.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, apperr.Wrap(apperr.Internal, "query user", err)
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	return u, nil
}
