package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/askhub/internal/domain/answer"
	"github.com/geocoder89/askhub/internal/domain/question"
	"github.com/geocoder89/askhub/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNothingInserted = errors.New("insert affected no rows")

type AnswersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAnswersRepo(pool *pgxpool.Pool, prom *observability.Prom) *AnswersRepo {
	return &AnswersRepo{pool: pool, prom: prom}
}

func (r *AnswersRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}

	return r.prom.ObserveDB(op, fn)
}

func (r *AnswersRepo) Create(ctx context.Context, a answer.Answer) error {
	return r.observe("answers.create", func() error {
		tag, err := r.pool.Exec(
			ctx,
			`INSERT INTO answers (answerid, userid, questionid, answer, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			a.ID, a.UserID, a.QuestionID, a.Answer, a.CreatedAt,
		)

		if err != nil {
			// the question can vanish between the existence probe and
			// this insert; the cascade delete then trips the FK
			if IsForeignKeyViolation(err) {
				return question.ErrNotFound
			}

			return err
		}

		if tag.RowsAffected() == 0 {
			return ErrNothingInserted
		}

		return nil
	})
}

func (r *AnswersRepo) ListByQuestion(ctx context.Context, questionID string) ([]answer.WithAuthor, error) {
	var out []answer.WithAuthor

	err := r.observe("answers.list", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT a.answerid, a.userid, a.questionid, a.answer, a.created_at, u.username
			 FROM answers a
			 JOIN users u ON a.userid = u.userid
			 WHERE a.questionid = $1
			 ORDER BY a.created_at DESC, a.answerid`,
			questionID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]answer.WithAuthor, 0)

		for rows.Next() {
			var a answer.WithAuthor

			err = rows.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.Answer, &a.CreatedAt, &a.Username)

			if err != nil {
				return err
			}

			out = append(out, a)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
