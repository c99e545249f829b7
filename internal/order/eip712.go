package order

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// EIP-712 domain of the Limit Order Protocol v4.
const (
	TypedDataName    = "1inch Aggregation Router"
	TypedDataVersion = "6"
)

var orderTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Order": {
		{Name: "salt", Type: "uint256"},
		{Name: "maker", Type: "address"},
		{Name: "receiver", Type: "address"},
		{Name: "makerAsset", Type: "address"},
		{Name: "takerAsset", Type: "address"},
		{Name: "makingAmount", Type: "uint256"},
		{Name: "takingAmount", Type: "uint256"},
		{Name: "makerTraits", Type: "uint256"},
	},
}

// Domain binds order signatures to one chain and one verifying contract, so
// they cannot be replayed elsewhere.
func Domain(chainID int64, verifyingContract common.Address) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              TypedDataName,
		Version:           TypedDataVersion,
		ChainId:           math.NewHexOrDecimal256(chainID),
		VerifyingContract: verifyingContract.Hex(),
	}
}

// TypedData assembles the EIP-712 structure for the canonical order payload.
func TypedData(d Data, chainID int64, verifyingContract common.Address) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: "Order",
		Domain:      Domain(chainID, verifyingContract),
		Message: apitypes.TypedDataMessage{
			"salt":         d.Salt,
			"maker":        d.Maker,
			"receiver":     d.Receiver,
			"makerAsset":   d.MakerAsset,
			"takerAsset":   d.TakerAsset,
			"makingAmount": d.MakingAmount,
			"takingAmount": d.TakingAmount,
			"makerTraits":  d.MakerTraits,
		},
	}
}

// Hash computes the protocol order hash: the EIP-712 digest of the typed
// data. Identical inputs on the same chain always yield an identical hash.
func Hash(td apitypes.TypedData) (common.Hash, error) {
	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to hash typed data")
	}
	return common.BytesToHash(digest), nil
}
