//go:build integration

package userrepo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/integrationtest"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/integrationtest/helpers"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/userrepo"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/configpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/passpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/randompkg"
)

var (
	dbDriver string
	dbSource string
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	os.Exit(m.Run())
}

func randomCreateUserParams(t *testing.T) domain.CreateUserParams {
	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	require.NoError(t, err)

	return domain.CreateUserParams{
		Name:           randompkg.Name(),
		CPFCNPJ:        randompkg.CPF(),
		HashedPassword: hashedPassword,
		Email:          randompkg.Email(),
		Balance:        randompkg.MoneyAmountBetween(0, 1000),
	}
}

func TestCreate(t *testing.T) {
	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := userrepo.NewRepoPGS(tx)

	arg := randomCreateUserParams(t)

	user, err := repo.Create(context.Background(), arg)
	require.NoError(t, err)

	require.NotZero(t, user.ID)
	require.Equal(t, arg.Name, user.Name)
	require.Equal(t, arg.CPFCNPJ, user.CPFCNPJ)
	require.Equal(t, arg.HashedPassword, user.HashedPassword)
	require.Equal(t, arg.Email, user.Email)
	require.Equal(t, arg.Balance, user.Balance)
	require.False(t, user.IsSeller)
	require.NotZero(t, user.CreatedAt)
}

func TestCreateUserUniqueViolation(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(existing domain.User, arg *domain.CreateUserParams)
	}{
		{
			name: "DuplicateCPFCNPJ",
			modify: func(existing domain.User, arg *domain.CreateUserParams) {
				arg.CPFCNPJ = existing.CPFCNPJ
			},
		},
		{
			name: "DuplicateEmail",
			modify: func(existing domain.User, arg *domain.CreateUserParams) {
				arg.Email = existing.Email
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			tx := integrationtest.SetupTX(t, dbDriver, dbSource)
			existing := helpers.SeedUser(t, tx)

			arg := randomCreateUserParams(t)
			tc.modify(existing, &arg)

			user, err := userrepo.NewRepoPGS(tx).Create(context.Background(), arg)
			require.ErrorIs(t, err, domain.ErrUserAlreadyExists)
			require.Empty(t, user)
		})
	}
}

func TestCreateNegativeBalance(t *testing.T) {
	tx := integrationtest.SetupTX(t, dbDriver, dbSource)

	arg := randomCreateUserParams(t)
	arg.Balance = "-1.00"

	_, err := userrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	require.Error(t, err)
}

func TestList(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)
	repo := userrepo.NewRepoPGS(db)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)

	user := helpers.SeedUser(t, db)
	seller := helpers.SeedSeller(t, db)

	got, err = repo.List(context.Background())
	require.NoError(t, err)

	want := []domain.UserSummary{
		{ID: user.ID, Name: user.Name, CPFCNPJ: user.CPFCNPJ, Balance: user.Balance, IsSeller: false},
		{ID: seller.ID, Name: seller.Name, CPFCNPJ: seller.CPFCNPJ, Balance: seller.Balance, IsSeller: true},
	}
	require.Equal(t, want, got)
}
