package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/askhub/internal/domain/question"
	"github.com/geocoder89/askhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QuestionsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewQuestionsRepo(pool *pgxpool.Pool, prom *observability.Prom) *QuestionsRepo {
	return &QuestionsRepo{pool: pool, prom: prom}
}

func (r *QuestionsRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}

	return r.prom.ObserveDB(op, fn)
}

func (r *QuestionsRepo) Create(ctx context.Context, q question.Question) error {
	return r.observe("questions.create", func() error {
		_, err := r.pool.Exec(
			ctx,
			`INSERT INTO questions (questionid, userid, title, description, tag, created_at)
			 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
			q.ID, q.UserID, q.Title, q.Description, q.Tag, q.CreatedAt,
		)

		return err
	})
}

// List returns every question joined with its owner's username, newest
// first. Ids are random UUIDs, so recency ordering uses created_at.
func (r *QuestionsRepo) List(ctx context.Context) ([]question.WithAuthor, error) {
	var out []question.WithAuthor

	err := r.observe("questions.list", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT q.questionid, q.userid, q.title, q.description, COALESCE(q.tag, ''), q.created_at, u.username
			 FROM questions q
			 JOIN users u ON q.userid = u.userid
			 ORDER BY q.created_at DESC, q.questionid`,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]question.WithAuthor, 0)

		for rows.Next() {
			var q question.WithAuthor

			err = rows.Scan(&q.ID, &q.UserID, &q.Title, &q.Description, &q.Tag, &q.CreatedAt, &q.Username)

			if err != nil {
				return err
			}

			out = append(out, q)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *QuestionsRepo) GetByID(ctx context.Context, id string) (question.WithAuthor, error) {
	var q question.WithAuthor

	err := r.observe("questions.get", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT q.questionid, q.userid, q.title, q.description, COALESCE(q.tag, ''), q.created_at, u.username
			 FROM questions q
			 JOIN users u ON q.userid = u.userid
			 WHERE q.questionid = $1`,
			id,
		).Scan(&q.ID, &q.UserID, &q.Title, &q.Description, &q.Tag, &q.CreatedAt, &q.Username)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return question.WithAuthor{}, question.ErrNotFound
		}

		return question.WithAuthor{}, err
	}

	return q, nil
}

func (r *QuestionsRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool

	err := r.observe("questions.exists", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT EXISTS (SELECT 1 FROM questions WHERE questionid = $1)`,
			id,
		).Scan(&exists)
	})

	if err != nil {
		return false, err
	}

	return exists, nil
}

// UpdateOwned updates title/description with the ownership predicate inside
// the statement itself, so check and write are one atomic operation. A false
// return covers both "no such question" and "not the owner" - callers must
// not tell those apart.
func (r *QuestionsRepo) UpdateOwned(ctx context.Context, id, userID, title, description string) (bool, error) {
	var owned bool

	err := r.observe("questions.update", func() error {
		tag, err := r.pool.Exec(
			ctx,
			`UPDATE questions
			 SET title = $3,
			     description = $4
			 WHERE questionid = $1 AND userid = $2`,
			id, userID, title, description,
		)

		if err != nil {
			return err
		}

		owned = tag.RowsAffected() > 0

		return nil
	})

	if err != nil {
		return false, err
	}

	return owned, nil
}

// DeleteOwned mirrors UpdateOwned. Answers go with the question via the
// ON DELETE CASCADE constraint.
func (r *QuestionsRepo) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	var owned bool

	err := r.observe("questions.delete", func() error {
		tag, err := r.pool.Exec(
			ctx,
			`DELETE FROM questions WHERE questionid = $1 AND userid = $2`,
			id, userID,
		)

		if err != nil {
			return err
		}

		owned = tag.RowsAffected() > 0

		return nil
	})

	if err != nil {
		return false, err
	}

	return owned, nil
}
