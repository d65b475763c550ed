package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/askhub/internal/domain/answer"
)

type AnswersRepo struct {
	mu    sync.RWMutex
	users *UsersRepo
	items map[string]answer.Answer
}

func NewAnswersRepo(users *UsersRepo) *AnswersRepo {
	return &AnswersRepo{
		users: users,
		items: make(map[string]answer.Answer),
	}
}

func (r *AnswersRepo) Create(ctx context.Context, a answer.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[a.ID] = a

	return nil
}

func (r *AnswersRepo) ListByQuestion(ctx context.Context, questionID string) ([]answer.WithAuthor, error) {
	r.mu.RLock()

	out := make([]answer.WithAuthor, 0)

	for _, a := range r.items {
		if a.QuestionID != questionID {
			continue
		}

		out = append(out, answer.WithAuthor{
			Answer:   a,
			Username: r.users.usernameOf(a.UserID),
		})
	}

	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}

		return out[i].ID < out[j].ID
	})

	return out, nil
}
