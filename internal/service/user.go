package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"minibank/internal/domain"
	"minibank/internal/logging"
	"minibank/internal/rules"
)

type accountChecker interface {
	HasActiveAccounts(ctx context.Context, userID uuid.UUID) (bool, error)
}

type UserService struct {
	users    userRepo
	accounts accountChecker
}

func NewUserService(users userRepo, accounts accountChecker) *UserService {
	return &UserService{users: users, accounts: accounts}
}

func (s *UserService) Create(ctx context.Context, login, email string) (*domain.User, error) {
	log := logging.FromContext(ctx)

	user := &domain.User{
		ID:        uuid.New(),
		Login:     login,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	if err := rules.User(user).AsError(); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	unique, err := s.users.IsUnique(ctx, login, email, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	if !unique {
		return nil, fmt.Errorf("Create: %w", domain.ErrDuplicateUser)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	log.Info("user created", "user_id", user.ID, "login", user.Login)
	return user, nil
}

func (s *UserService) Update(ctx context.Context, user *domain.User) error {
	if err := rules.User(user).AsError(); err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	unique, err := s.users.IsUnique(ctx, user.Login, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if !unique {
		return fmt.Errorf("Update: %w", domain.ErrDuplicateUser)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

// Delete refuses to remove a user who still owns an active account.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	hasActive, err := s.accounts.HasActiveAccounts(ctx, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if hasActive {
		return fmt.Errorf("Delete: user %s: %w", id, domain.ErrUserHasAccounts)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return u, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	return users, nil
}
