// Package transferrepo manages repository layer of transfers.
package transferrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/accountrepo"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/dbpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transfer RepoPGS bound to an existing transaction or connection.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transfer RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    log_transfers (payee, payer, value)
VALUES
    ($1, $2, $3)
RETURNING id, payee, payer, value, created_at
`

// Create appends the transfer to the ledger and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.Payee, arg.Payer, arg.Value)

	var t domain.Transfer
	err := row.Scan(
		&t.ID,
		&t.Payee,
		&t.Payer,
		&t.Value,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "log_transfers_payee_fkey":
				return t, domain.ErrPayeeNotFound
			case "log_transfers_payer_fkey":
				return t, domain.ErrInsufficientBalance
			case "log_transfers_value_check":
				return t, domain.ErrNonPositiveAmount
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

// Transfer moves value from the payer to the payee.
//
// Both account rows are locked, the payer's funds are checked again under the lock,
// both balances are updated and the ledger entry is appended within a single
// database transaction. Any failure rolls everything back.
func (r *RepoPGS) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

	value, err := decimal.NewFromString(arg.Value)
	if err != nil {
		l.Info().Err(err).Send()
		return result, domain.ErrInvalidAmount
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Msg("transfer rollback failed")
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	ledgerRepo := NewTxRepoPGS(tx)

	payer, _, err := lockAccounts(ctx, accountRepo, arg.Payer, arg.Payee)
	if err != nil {
		return result, err
	}

	if payer.IsSeller {
		return result, domain.ErrSellerCannotPay
	}

	payerBalance, err := decimal.NewFromString(payer.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	if payerBalance.LessThan(value) {
		return result, domain.ErrInsufficientBalance
	}

	// To avoid deadlocks execute statements in consistent id order
	if arg.Payer < arg.Payee {
		result.Payer, result.Payee, err = addBalances(ctx, accountRepo, addBalanceParams{
			account1ID: arg.Payer,
			amount1:    value.Neg().String(),
			account2ID: arg.Payee,
			amount2:    value.String(),
		})
	} else {
		result.Payee, result.Payer, err = addBalances(ctx, accountRepo, addBalanceParams{
			account1ID: arg.Payee,
			amount1:    value.String(),
			account2ID: arg.Payer,
			amount2:    value.Neg().String(),
		})
	}

	if err != nil {
		return result, err
	}

	result.Transfer, err = ledgerRepo.Create(ctx, arg)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.TransferTxResult{}, errorspkg.ErrInternal
	}

	return result, nil
}

// lockAccounts takes row locks on both accounts in ascending id order.
func lockAccounts(ctx context.Context, r *accountrepo.RepoPGS, payerID, payeeID int64) (payer, payee domain.Account, err error) {
	ids := [2]int64{payerID, payeeID}
	if payeeID < payerID {
		ids = [2]int64{payeeID, payerID}
	}

	for _, id := range ids {
		account, err := r.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				if id == payerID {
					return payer, payee, domain.ErrInsufficientBalance
				}

				return payer, payee, domain.ErrPayeeNotFound
			}

			return payer, payee, err
		}

		if id == payerID {
			payer = account
		} else {
			payee = account
		}
	}

	return payer, payee, nil
}

type addBalanceParams struct {
	account1ID int64
	amount1    string
	account2ID int64
	amount2    string
}

func addBalances(ctx context.Context, r *accountrepo.RepoPGS, arg addBalanceParams) (domain.Account, domain.Account, error) {
	account1, err := r.AddBalance(ctx, arg.amount1, arg.account1ID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	account2, err := r.AddBalance(ctx, arg.amount2, arg.account2ID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	return account1, account2, nil
}
