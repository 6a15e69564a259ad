package memory

import (
	"context"

	"lms-grading-service/internal/domain"
)

// UserDirectory resolves users from a fixed list.
type UserDirectory struct {
	users map[string]domain.User
}

func NewUserDirectory(users []domain.User) *UserDirectory {
	d := &UserDirectory{users: make(map[string]domain.User, len(users))}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *UserDirectory) GetUser(_ context.Context, userID string) (domain.User, error) {
	if u, ok := d.users[userID]; ok {
		return u, nil
	}
	return domain.User{}, domain.ErrUserNotFound
}
