// Package vaultmath holds the checked integer arithmetic behind share
// issuance, redemption and fee splitting. Products are computed at 256-bit
// width so intermediate values never wrap; only results that do not fit in
// a uint64 are reported as overflow.
package vaultmath

import (
	"errors"

	"github.com/holiman/uint256"
)

var (
	// ErrOverflow is returned when a result does not fit in a uint64.
	ErrOverflow = errors.New("vaultmath: overflow")
	// ErrUnderflow is returned when a subtraction would go negative.
	ErrUnderflow = errors.New("vaultmath: underflow")
	// ErrDivisionByZero is returned for a zero divisor.
	ErrDivisionByZero = errors.New("vaultmath: division by zero")
)

const bpsDenominator = 10_000

// MulDiv returns floor(a*b/d).
func MulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivisionByZero
	}
	res, overflow := new(uint256.Int).MulDivOverflow(uint256.NewInt(a), uint256.NewInt(b), uint256.NewInt(d))
	if overflow || !res.IsUint64() {
		return 0, ErrOverflow
	}
	return res.Uint64(), nil
}

// MulDivUp returns ceil(a*b/d).
func MulDivUp(a, b, d uint64) (uint64, error) {
	q, err := MulDiv(a, b, d)
	if err != nil {
		return 0, err
	}
	rem := new(uint256.Int).MulMod(uint256.NewInt(a), uint256.NewInt(b), uint256.NewInt(d))
	if rem.IsZero() {
		return q, nil
	}
	return Add(q, 1)
}

// Add returns a+b or ErrOverflow.
func Add(a, b uint64) (uint64, error) {
	s := a + b
	if s < a {
		return 0, ErrOverflow
	}
	return s, nil
}

// Sub returns a-b or ErrUnderflow.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// SaturatingSub returns a-b, or 0 when b > a.
func SaturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Mul returns a*b or ErrOverflow.
func Mul(a, b uint64) (uint64, error) {
	return MulDiv(a, b, 1)
}

// BpsOf returns floor(amount*bps/10000).
func BpsOf(amount uint64, bps uint16) (uint64, error) {
	return MulDiv(amount, uint64(bps), bpsDenominator)
}

// SplitBuffer splits amount into the part kept liquid and the part placed
// for yield according to the target buffer ratio.
func SplitBuffer(amount uint64, targetBufferBps uint16) (buffer, yield uint64, err error) {
	buffer, err = BpsOf(amount, targetBufferBps)
	if err != nil {
		return 0, 0, err
	}
	yield, err = Sub(amount, buffer)
	if err != nil {
		return 0, 0, err
	}
	return buffer, yield, nil
}

// SharesForDeposit returns the shares minted for amount. An empty or
// valueless vault mints 1:1; otherwise floor(amount*totalShares/totalValue),
// rounding in the vault's favour.
func SharesForDeposit(amount, totalShares, totalValue uint64) (uint64, error) {
	if totalShares == 0 || totalValue == 0 {
		return amount, nil
	}
	return MulDiv(amount, totalShares, totalValue)
}

// ValueOfShares returns floor(shares*totalValue/totalShares). A vault with
// no shares owes nothing.
func ValueOfShares(shares, totalShares, totalValue uint64) (uint64, error) {
	if totalShares == 0 {
		return 0, nil
	}
	return MulDiv(shares, totalValue, totalShares)
}

// SharesForWithdrawal estimates the shares equivalent to amount as
// floor(amount*totalShares/totalValue).
func SharesForWithdrawal(amount, totalShares, totalValue uint64) (uint64, error) {
	return MulDiv(amount, totalShares, totalValue)
}

// ExchangeRate returns totalValue per share scaled by precision, or
// precision itself when no shares exist.
func ExchangeRate(totalShares, totalValue, precision uint64) (uint64, error) {
	if totalShares == 0 {
		return precision, nil
	}
	return MulDiv(totalValue, precision, totalShares)
}

// ProtocolFee splits fee into the protocol cut (truncating) and the
// merchant remainder.
func ProtocolFee(fee uint64, feeBps uint16) (protocolFee, merchantReceives uint64, err error) {
	protocolFee, err = BpsOf(fee, feeBps)
	if err != nil {
		return 0, 0, err
	}
	merchantReceives, err = Sub(fee, protocolFee)
	if err != nil {
		return 0, 0, err
	}
	return protocolFee, merchantReceives, nil
}
