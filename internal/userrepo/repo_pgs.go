// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"errors"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/dbpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns user RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO users (
    name,
    cpf_cnpj,
    password,
    email,
    balance,
    is_seller
) VALUES (
    $1, $2, $3, $4, $5, $6
) RETURNING id, name, cpf_cnpj, password, email, balance, is_seller, created_at
`

// Create creates the user and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Name,
		arg.CPFCNPJ,
		arg.HashedPassword,
		arg.Email,
		arg.Balance,
		arg.IsSeller,
	)

	var u domain.User

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.CPFCNPJ,
		&u.HashedPassword,
		&u.Email,
		&u.Balance,
		&u.IsSeller,
		&u.CreatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			l.Info().Str("constraint", pqErr.Constraint).Msg("duplicate user")
			return domain.User{}, domain.ErrUserAlreadyExists
		}

		l.Error().Err(err).Send()

		return domain.User{}, errorspkg.ErrInternal
	}

	return u, nil
}

const listQuery = `
SELECT
	id, name, cpf_cnpj, balance, is_seller
FROM users
ORDER BY id
`

// List returns all users.
func (r *RepoPGS) List(ctx context.Context) ([]domain.UserSummary, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.UserSummary{}

	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.CPFCNPJ, &u.Balance, &u.IsSeller); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, u)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
