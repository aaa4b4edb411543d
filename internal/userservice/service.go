// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/amountpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/errorspkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/passpkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	List(ctx context.Context) ([]domain.UserSummary, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New returns user service struct to manage user business logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// NewUserWithoutPassword returns user with removed sensitive data.
func NewUserWithoutPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		ID:        u.ID,
		Name:      u.Name,
		CPFCNPJ:   u.CPFCNPJ,
		Email:     u.Email,
		Balance:   u.Balance,
		IsSeller:  u.IsSeller,
		CreatedAt: u.CreatedAt,
	}
}

// Create hashes the password, creates and returns the user.
func (s *Service) Create(ctx context.Context, arg domain.RegisterUserParams) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.UserWithoutPassword

	balance, err := amountpkg.ParseNonNegative(arg.Balance)
	if err != nil {
		l.Info().Err(err).Str("balance", arg.Balance).Send()
		return result, domain.ErrInvalidAmount
	}

	hashedPassword, err := passpkg.Hash(arg.Password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	gotUser, err := s.repo.Create(ctx, domain.CreateUserParams{
		Name:           arg.Name,
		CPFCNPJ:        arg.CPFCNPJ,
		HashedPassword: hashedPassword,
		Email:          arg.Email,
		Balance:        balance.StringFixed(amountpkg.Scale),
		IsSeller:       arg.IsSeller,
	})
	if err != nil {
		return result, err
	}

	result = NewUserWithoutPassword(gotUser)

	return result, nil
}

// List returns every registered user.
func (s *Service) List(ctx context.Context) ([]domain.UserSummary, error) {
	return s.repo.List(ctx)
}
