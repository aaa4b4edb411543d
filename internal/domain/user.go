package domain

import (
	"errors"
	"time"
)

// ErrUserAlreadyExists indicates that a user with the given cpf_cnpj or email already exists.
var ErrUserAlreadyExists = errors.New("this user already exists")

// User holds user data.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	CPFCNPJ        string    `json:"cpf_cnpj"`
	HashedPassword string    `json:"-"`
	Email          string    `json:"email"`
	Balance        string    `json:"balance"`
	IsSeller       bool      `json:"is_seller"`
	CreatedAt      time.Time `json:"created_at"`
}

// RegisterUserParams is the registration request as received from the client.
type RegisterUserParams struct {
	Name     string
	CPFCNPJ  string
	Password string
	Email    string
	Balance  string
	IsSeller bool
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	Name           string
	CPFCNPJ        string
	HashedPassword string
	Email          string
	Balance        string
	IsSeller       bool
}

// UserWithoutPassword is User data excluding password data.
type UserWithoutPassword struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CPFCNPJ   string    `json:"cpf_cnpj"`
	Email     string    `json:"email"`
	Balance   string    `json:"balance"`
	IsSeller  bool      `json:"is_seller"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the listing view of a user.
type UserSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	CPFCNPJ  string `json:"cpf_cnpj"`
	Balance  string `json:"balance"`
	IsSeller bool   `json:"is_seller"`
}
