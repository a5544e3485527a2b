package service

import (
	"context"
	"fmt"

	"github.com/leadisle/faceid/internal/pairing/domain"
	"github.com/leadisle/faceid/internal/pairing/store"
)

// UserService exposes read access to registered users.
type UserService struct {
	Store store.Store
}

// ListUsers returns all user records, including unbound ones left behind by
// registration attempts that never finished. Callers can tell them apart
// with Completed.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.Credential, error) {
	users, err := s.Store.Credentials().ListCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	return users, nil
}
