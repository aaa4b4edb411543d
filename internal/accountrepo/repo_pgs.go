// Package accountrepo manages repository layer of account balances.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/dbpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const addBalanceQuery = `
UPDATE users
SET balance = balance + $1
WHERE id = $2
RETURNING id, balance, is_seller
`

// AddBalance changes the account's balance by amount and returns the changed account.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Balance,
		&a.IsSeller,
	)

	if err != nil {
		l.Error().Err(err).Msgf("AddBalance(ctx, %v, %v)", amount, id)

		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Constraint == "users_balance_check" {
				return a, domain.ErrInsufficientBalance
			}

			// balance would exceed NUMERIC(20,2)
			if pqErr.Code.Name() == "numeric_value_out_of_range" {
				return a, domain.ErrInvalidAmount
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, balance, is_seller
FROM users
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	return r.get(ctx, getQuery, id)
}

const getForUpdateQuery = getQuery + `FOR UPDATE`

// GetForUpdate returns the account with the given id and locks its row until the
// surrounding transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	return r.get(ctx, getForUpdateQuery, id)
}

func (r *RepoPGS) get(ctx context.Context, query string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Balance,
		&a.IsSeller,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Int64("account_id", id).Msg("account not found")
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}
