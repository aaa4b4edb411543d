// Package domain provides definitions of all entities.
package domain

import "errors"

// ErrAccountNotFound indicates that the account is not found.
var ErrAccountNotFound = errors.New("account not found")

// Account is the balance view of a user row, the unit the transfer operation works on.
type Account struct {
	ID       int64  `json:"id"`
	Balance  string `json:"balance"`
	IsSeller bool   `json:"is_seller"`
}
