package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/askhub/internal/domain/question"
)

type QuestionsRepo struct {
	mu    sync.RWMutex
	users *UsersRepo
	items map[string]question.Question
}

func NewQuestionsRepo(users *UsersRepo) *QuestionsRepo {
	return &QuestionsRepo{
		users: users,
		items: make(map[string]question.Question),
	}
}

func (r *QuestionsRepo) Create(ctx context.Context, q question.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[q.ID] = q

	return nil
}

func (r *QuestionsRepo) List(ctx context.Context) ([]question.WithAuthor, error) {
	r.mu.RLock()

	out := make([]question.WithAuthor, 0, len(r.items))

	for _, q := range r.items {
		out = append(out, question.WithAuthor{
			Question: q,
			Username: r.users.usernameOf(q.UserID),
		})
	}

	r.mu.RUnlock()

	// newest first, id as tiebreak like the SQL ordering
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}

		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *QuestionsRepo) GetByID(ctx context.Context, id string) (question.WithAuthor, error) {
	r.mu.RLock()
	q, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return question.WithAuthor{}, question.ErrNotFound
	}

	return question.WithAuthor{
		Question: q,
		Username: r.users.usernameOf(q.UserID),
	}, nil
}

func (r *QuestionsRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	_, ok := r.items[id]
	r.mu.RUnlock()

	return ok, nil
}

func (r *QuestionsRepo) UpdateOwned(ctx context.Context, id, userID, title, description string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.items[id]

	if !ok || q.UserID != userID {
		return false, nil
	}

	q.Title = title
	q.Description = description
	r.items[id] = q

	return true, nil
}

func (r *QuestionsRepo) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.items[id]

	if !ok || q.UserID != userID {
		return false, nil
	}

	delete(r.items, id)

	return true, nil
}
