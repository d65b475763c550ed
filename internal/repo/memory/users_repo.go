package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/askhub/internal/domain/user"
)

// UsersRepo is a map-backed stand-in for the postgres repo, handy for tests
// and for running the API without a database.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User // keyed by userid
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Username == u.Username || existing.Email == u.Email {
			return user.ErrAlreadyExists
		}
	}

	r.items[u.ID] = u

	return nil
}

// usernameOf resolves the join the postgres repos do in SQL.
func (r *UsersRepo) usernameOf(userID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.items[userID].Username
}
