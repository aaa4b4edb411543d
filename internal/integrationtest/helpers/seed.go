// Package helpers provides shared seeding helpers for integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/userrepo"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/dbpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/passpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/randompkg"
)

// SeedUserWithBalance creates a random user holding balance.
func SeedUserWithBalance(t *testing.T, db dbpkg.SQLInterface, balance string, isSeller bool) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(32))
	if err != nil {
		t.Fatalf("passpkg.Hash(randompkg.String(32)) returned error: %v", err)
	}

	cpfCNPJ := randompkg.CPF()
	if isSeller {
		cpfCNPJ = randompkg.CNPJ()
	}

	arg := domain.CreateUserParams{
		Name:           randompkg.Name(),
		CPFCNPJ:        cpfCNPJ,
		HashedPassword: hashedPassword,
		Email:          randompkg.Email(),
		Balance:        balance,
		IsSeller:       isSeller,
	}

	user, err := userrepo.NewRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return user
}

// SeedUser creates a random common user with 1000.00 on balance.
func SeedUser(t *testing.T, db dbpkg.SQLInterface) domain.User {
	t.Helper()
	return SeedUserWithBalance(t, db, "1000.00", false)
}

// SeedSeller creates a random seller with 1000.00 on balance.
func SeedSeller(t *testing.T, db dbpkg.SQLInterface) domain.User {
	t.Helper()
	return SeedUserWithBalance(t, db, "1000.00", true)
}

// Balance reads the stored balance of the user.
func Balance(t *testing.T, db dbpkg.SQLInterface, id int64) string {
	t.Helper()

	var balance string
	if err := db.QueryRowContext(context.Background(), `SELECT balance FROM users WHERE id = $1`, id).Scan(&balance); err != nil {
		t.Fatalf("reading balance of user %d failed: %v", id, err)
	}

	return balance
}

// CountTransfers returns the number of ledger rows.
func CountTransfers(t *testing.T, db dbpkg.SQLInterface) int {
	t.Helper()

	var n int
	if err := db.QueryRowContext(context.Background(), `SELECT count(*) FROM log_transfers`).Scan(&n); err != nil {
		t.Fatalf("counting transfers failed: %v", err)
	}

	return n
}
