// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"
	"errors"
	"sync"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/amountpkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
}

// AccountRepo provides read access to account balances.
type AccountRepo interface {
	Get(ctx context.Context, id int64) (domain.Account, error)
}

// Authorizer gates transfers on an external decision.
type Authorizer interface {
	Authorize(ctx context.Context) error
}

// Notifier announces committed transfers.
type Notifier interface {
	Notify(ctx context.Context, t domain.Transfer) error
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo       Repo
	accounts   AccountRepo
	authorizer Authorizer
	notifier   Notifier

	notifications sync.WaitGroup
}

// New returns transfer service struct to manage transfer business logic.
func New(tr Repo, ar AccountRepo, a Authorizer, n Notifier) *Service {
	return &Service{
		repo:       tr,
		accounts:   ar,
		authorizer: a,
		notifier:   n,
	}
}

// validRequest runs every check that can reject a transfer before the transaction
// starts and returns the parsed value.
func (s *Service) validRequest(ctx context.Context, arg domain.CreateTransferParams) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	if arg.Payee <= 0 || arg.Payer <= 0 {
		return decimal.Zero, domain.ErrInvalidID
	}

	value, err := amountpkg.Parse(arg.Value)
	if err != nil {
		l.Info().Err(err).Str("value", arg.Value).Send()
		return decimal.Zero, domain.ErrInvalidAmount
	}

	if !value.IsPositive() {
		return decimal.Zero, domain.ErrNonPositiveAmount
	}

	if arg.Payee == arg.Payer {
		return decimal.Zero, domain.ErrSameParty
	}

	if err := s.authorizer.Authorize(ctx); err != nil {
		l.Info().Err(err).Msg("transfer not authorized")
		return decimal.Zero, err
	}

	payer, err := s.accounts.Get(ctx, arg.Payer)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return decimal.Zero, domain.ErrInsufficientBalance
		}

		l.Error().Err(err).Send()

		return decimal.Zero, err
	}

	if payer.IsSeller {
		return decimal.Zero, domain.ErrSellerCannotPay
	}

	balance, err := decimal.NewFromString(payer.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return decimal.Zero, err
	}

	if balance.LessThan(value) {
		return decimal.Zero, domain.ErrInsufficientBalance
	}

	return value, nil
}

// Transfer checks if transfer request is valid, executes it and notifies the outcome.
//
// The notification is sent in the background once the transfer is committed, so
// Transfer does not wait for it. A failed notification is only logged.
func (s *Service) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	value, err := s.validRequest(ctx, arg)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	arg.Value = value.StringFixed(amountpkg.Scale)

	result, err := s.repo.Transfer(ctx, arg)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	l.Info().
		Int64("transfer_id", result.Transfer.ID).
		Int64("payer", arg.Payer).
		Int64("payee", arg.Payee).
		Str("value", arg.Value).
		Msg("transfer committed")

	s.notifications.Add(1)

	go func(ctx context.Context, t domain.Transfer) {
		defer s.notifications.Done()

		if err := s.notifier.Notify(ctx, t); err != nil {
			l.Warn().Err(err).Int64("transfer_id", t.ID).Msg("transfer notification failed")
		}
	}(context.WithoutCancel(ctx), result.Transfer)

	return result, nil
}

// Wait blocks until every notification started by Transfer has finished.
func (s *Service) Wait() {
	s.notifications.Wait()
}
