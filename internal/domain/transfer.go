package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidID indicates that payee or payer is not a positive account id.
	ErrInvalidID = errors.New("invalid account id")
	// ErrInvalidAmount indicates that the value is not a decimal with at most two fractional digits.
	ErrInvalidAmount = errors.New("invalid value")
	// ErrNonPositiveAmount indicates that the value is zero or negative.
	ErrNonPositiveAmount = errors.New("value must be positive")
	// ErrSameParty indicates a transfer from an account to itself.
	ErrSameParty = errors.New("payee and payer are the same")
	// ErrUnauthorized indicates that the authorization service denied the transfer.
	ErrUnauthorized = errors.New("not authorized to make the transfer")
	// ErrAuthorizerUnavailable indicates that the authorization service could not be consulted.
	ErrAuthorizerUnavailable = errors.New("authorization service unavailable")
	// ErrSellerCannotPay indicates that the payer is a seller.
	ErrSellerCannotPay = errors.New("a seller cannot make a deposit")
	// ErrInsufficientBalance indicates that the payer does not exist or lacks funds.
	ErrInsufficientBalance = errors.New("payer does not have enough balance")
	// ErrPayeeNotFound indicates that the payee account does not exist.
	ErrPayeeNotFound = errors.New("payee not found")
)

// Transfer is an entry of the append-only transfer ledger.
type Transfer struct {
	ID        int64     `json:"id"`
	Payee     int64     `json:"payee"`
	Payer     int64     `json:"payer"`
	Value     string    `json:"value"` // must be positive
	CreatedAt time.Time `json:"created_at"`
}

// CreateTransferParams is the input data for the transfer transaction.
type CreateTransferParams struct {
	Payee int64  `json:"payee"`
	Payer int64  `json:"payer"`
	Value string `json:"value"`
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	Transfer Transfer `json:"transfer"`
	Payer    Account  `json:"-"`
	Payee    Account  `json:"-"`
}
