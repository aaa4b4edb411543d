// Package randompkg provides functionality for generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	digits   = "0123456789"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer between min and max inclusive.
func IntBetween(min, max int64) int64 {
	return min + Intn(int(max-min+1))
}

func fromCharset(charset string, n int) string {
	var sb strings.Builder

	k := len(charset)

	for i := 0; i < n; i++ {
		c := charset[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// String generates a random string of length n.
func String(n int) string {
	return fromCharset(alphabet, n)
}

// Name generates a random user name.
func Name() string {
	return String(6)
}

// CPF generates a random 11 digit individual taxpayer number.
func CPF() string {
	return fromCharset(digits, 11)
}

// CNPJ generates a random 14 digit company taxpayer number.
func CNPJ() string {
	return fromCharset(digits, 14)
}

// MoneyAmountBetween generates a random amount of money between min and max with two decimals.
func MoneyAmountBetween(min, max int64) string {
	cents := IntBetween(min*100, max*100)
	return decimal.New(cents, -2).StringFixed(2)
}

// Email generates a random email.
func Email() string {
	return fmt.Sprintf("%s@email.com", String(10))
}
