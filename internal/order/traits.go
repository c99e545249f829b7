package order

import (
	"math/big"

	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Maker traits bit layout of the Limit Order Protocol v4: the low 200 bits
// hold packed values, the high bits hold behavior flags.
const (
	noPartialFillsBit     = 255
	allowMultipleFillsBit = 254

	expirationOffset = 80
	expirationBits   = 40
)

// MakerTraits packs order behavior flags and the expiration deadline into a
// single uint256 the protocol contract understands.
type MakerTraits struct {
	value *big.Int
}

func NewMakerTraits() *MakerTraits {
	return &MakerTraits{value: new(big.Int)}
}

// ParseMakerTraits restores packed traits from their decimal string form.
func ParseMakerTraits(s string) (*MakerTraits, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("invalid maker traits value %q", s)
	}
	return &MakerTraits{value: v}, nil
}

// WithExpiration stores the absolute UNIX deadline (seconds) in the 40-bit
// expiration field.
func (t *MakerTraits) WithExpiration(deadline int64) *MakerTraits {
	mask := new(big.Int).Lsh(bitMask(expirationBits), expirationOffset)
	t.value.AndNot(t.value, mask)

	v := new(big.Int).And(big.NewInt(deadline), bitMask(expirationBits))
	t.value.Or(t.value, v.Lsh(v, expirationOffset))
	return t
}

// Expiration returns the stored deadline, zero when none was set.
func (t *MakerTraits) Expiration() int64 {
	v := new(big.Int).Rsh(t.value, expirationOffset)
	return v.And(v, bitMask(expirationBits)).Int64()
}

// AllowPartialFills clears the no-partial-fills flag.
func (t *MakerTraits) AllowPartialFills() *MakerTraits {
	t.value.SetBit(t.value, noPartialFillsBit, 0)
	return t
}

// AllowMultipleFills marks the order fillable more than once.
func (t *MakerTraits) AllowMultipleFills() *MakerTraits {
	t.value.SetBit(t.value, allowMultipleFillsBit, 1)
	return t
}

func (t *MakerTraits) IsPartialFillAllowed() bool {
	return t.value.Bit(noPartialFillsBit) == 0
}

func (t *MakerTraits) IsMultipleFillsAllowed() bool {
	return t.value.Bit(allowMultipleFillsBit) == 1
}

// Value returns a copy of the packed traits.
func (t *MakerTraits) Value() *big.Int {
	return new(big.Int).Set(t.value)
}

func (t *MakerTraits) String() string {
	return t.value.String()
}

func bitMask(bits uint) *big.Int {
	one := big.NewInt(1)
	return new(big.Int).Sub(new(big.Int).Lsh(one, bits), one)
}
