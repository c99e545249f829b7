package order

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/shopspring/decimal"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Expiration choices offered to the maker.
const (
	Expires1H = "1h"
	Expires1D = "1d"
	Expires1W = "1w"
	Expires1M = "1m"
	Expires1Y = "1y"
)

var expirationOffsets = map[string]time.Duration{
	Expires1H: time.Hour,
	Expires1D: 24 * time.Hour,
	Expires1W: 7 * 24 * time.Hour,
	Expires1M: 30 * 24 * time.Hour,
	Expires1Y: 365 * 24 * time.Hour,
}

var (
	ErrSameAsset         = errors.New("maker and taker assets must differ")
	ErrBadExpiration     = errors.New("unknown expiration choice")
	ErrPriceNotPositive  = errors.New("price must be strictly positive")
	ErrAmountNotPositive = errors.New("amount must be strictly positive")

	// salts are drawn uniformly below 2^96; collisions between concurrently
	// active orders of one maker are negligible at this range
	saltBound = new(big.Int).Lsh(big.NewInt(1), 96)
)

// BuildParams are the user-entered inputs of a limit order.
type BuildParams struct {
	Maker           common.Address
	PayToken        common.Address
	ReceiveToken    common.Address
	PayDecimals     uint8
	ReceiveDecimals uint8
	Amount          decimal.Decimal
	Price           decimal.Decimal
	Expiration      string
}

// Built is the outcome of Build: the canonical payload, its typed-data
// representation and the protocol order hash. No signature is attached yet.
// Making and Taking are the scaled amounts as integers, matching the decimal
// strings in Data.
type Built struct {
	Data       Data
	TypedData  apitypes.TypedData
	OrderHash  common.Hash
	Salt       *big.Int
	Traits     *MakerTraits
	Making     *big.Int
	Taking     *big.Int
	Expiration int64
}

// Build assembles a canonical order from user inputs. It is pure data
// transformation: nothing here touches the network.
func Build(p BuildParams, chainID int64, verifyingContract common.Address) (*Built, error) {
	if p.PayToken == p.ReceiveToken {
		return nil, ErrSameAsset
	}
	if !p.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if !p.Price.IsPositive() {
		return nil, ErrPriceNotPositive
	}
	offset, ok := expirationOffsets[p.Expiration]
	if !ok {
		return nil, ErrBadExpiration
	}

	making, err := MakingAmount(p.Amount, p.PayDecimals)
	if err != nil {
		return nil, err
	}
	taking, err := TakingAmount(p.Amount, p.Price, p.ReceiveDecimals)
	if err != nil {
		return nil, err
	}

	salt, err := rand.Int(rand.Reader, saltBound)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	deadline := time.Now().Add(offset).Unix()
	traits := NewMakerTraits().
		WithExpiration(deadline).
		AllowPartialFills().
		AllowMultipleFills()

	data := Data{
		MakerAsset:   p.PayToken.Hex(),
		TakerAsset:   p.ReceiveToken.Hex(),
		MakingAmount: making.String(),
		TakingAmount: taking.String(),
		Maker:        p.Maker.Hex(),
		Receiver:     p.Maker.Hex(),
		Salt:         salt.String(),
		MakerTraits:  traits.String(),
	}

	td := TypedData(data, chainID, verifyingContract)
	hash, err := Hash(td)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute order hash")
	}

	return &Built{
		Data:       data,
		TypedData:  td,
		OrderHash:  hash,
		Salt:       salt,
		Traits:     traits,
		Making:     making,
		Taking:     taking,
		Expiration: deadline,
	}, nil
}
