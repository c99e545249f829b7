package order

import (
	"math/big"

	"github.com/shopspring/decimal"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

var ErrNotPositive = errors.New("amount must be strictly positive")

// ToBaseUnits scales a human-readable amount to the token's smallest unit.
// The scaling is exact fixed-point arithmetic; fractional remainders below
// one base unit are truncated toward zero. The result must stay positive.
func ToBaseUnits(amount decimal.Decimal, decimals uint8) (*big.Int, error) {
	scaled := amount.Shift(int32(decimals)).Truncate(0)
	if !scaled.IsPositive() {
		return nil, ErrNotPositive
	}
	return scaled.BigInt(), nil
}

// MakingAmount converts the pay-side amount: amount * 10^decimals.
func MakingAmount(amount decimal.Decimal, payDecimals uint8) (*big.Int, error) {
	v, err := ToBaseUnits(amount, payDecimals)
	return v, errors.Wrap(err, "failed to scale making amount")
}

// TakingAmount converts the receive-side amount: amount * price * 10^decimals.
func TakingAmount(amount, price decimal.Decimal, receiveDecimals uint8) (*big.Int, error) {
	v, err := ToBaseUnits(amount.Mul(price), receiveDecimals)
	return v, errors.Wrap(err, "failed to scale taking amount")
}
