package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/mind-engage/quizdesk/internal/db"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(dbh *sql.DB) *SQLStore {
	return &SQLStore{db: dbh}
}

func (s *SQLStore) Put(ctx context.Context, q PublishedQuiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes (id,owner_id,duration_sec,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		q.ID, q.OwnerID, q.DurationSeconds, string(qj), q.CreatedAt)
	if db.IsUniqueViolation(err) {
		return ErrQuizExists
	}
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (PublishedQuiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,owner_id,duration_sec,questions_json,created_at FROM quizzes WHERE id=$1`, id)
	var q PublishedQuiz
	var qjson string
	if err := row.Scan(&q.ID, &q.OwnerID, &q.DurationSeconds, &qjson, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PublishedQuiz{}, ErrQuizNotFound
		}
		return PublishedQuiz{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return PublishedQuiz{}, err
	}
	return q, nil
}
