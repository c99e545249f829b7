package order

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var (
	testMaker = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testWETH  = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	testUSDC  = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")

	testContract = common.HexToAddress("0x111111125421cA6dc452d289314280a0f8842A65")
)

func testParams() BuildParams {
	return BuildParams{
		Maker:           testMaker,
		PayToken:        testWETH,
		ReceiveToken:    testUSDC,
		PayDecimals:     18,
		ReceiveDecimals: 6,
		Amount:          decimal.RequireFromString("1.5"),
		Price:           decimal.RequireFromString("2000"),
		Expiration:      Expires1D,
	}
}

func TestBuild(t *testing.T) {
	built, err := Build(testParams(), 137, testContract)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if built.Data.MakingAmount != "1500000000000000000" {
		t.Errorf("making amount: got %s", built.Data.MakingAmount)
	}
	if built.Data.TakingAmount != "3000000000" {
		t.Errorf("taking amount: got %s", built.Data.TakingAmount)
	}
	if built.Making.String() != built.Data.MakingAmount {
		t.Errorf("Making %s does not match payload %s", built.Making, built.Data.MakingAmount)
	}
	if built.Taking.String() != built.Data.TakingAmount {
		t.Errorf("Taking %s does not match payload %s", built.Taking, built.Data.TakingAmount)
	}
	if built.Data.Receiver != built.Data.Maker {
		t.Errorf("receiver must equal maker, got %s", built.Data.Receiver)
	}
	if built.Data.Extension != "" {
		t.Errorf("extension must stay empty until submission, got %s", built.Data.Extension)
	}

	bound := new(big.Int).Lsh(big.NewInt(1), 96)
	if built.Salt.Sign() < 0 || built.Salt.Cmp(bound) >= 0 {
		t.Errorf("salt %s out of [0, 2^96)", built.Salt)
	}

	if !built.Traits.IsPartialFillAllowed() {
		t.Error("partial fills must be allowed")
	}
	if !built.Traits.IsMultipleFillsAllowed() {
		t.Error("multiple fills must be allowed")
	}

	wantDeadline := time.Now().Add(24 * time.Hour).Unix()
	if diff := built.Expiration - wantDeadline; diff < -5 || diff > 5 {
		t.Errorf("expiration %d not close to %d", built.Expiration, wantDeadline)
	}
	if built.Traits.Expiration() != built.Expiration {
		t.Errorf("traits deadline %d != %d", built.Traits.Expiration(), built.Expiration)
	}
}

func TestBuild_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BuildParams)
		want   error
	}{
		{"same asset", func(p *BuildParams) { p.ReceiveToken = p.PayToken }, ErrSameAsset},
		{"zero amount", func(p *BuildParams) { p.Amount = decimal.Zero }, ErrAmountNotPositive},
		{"negative price", func(p *BuildParams) { p.Price = decimal.NewFromInt(-1) }, ErrPriceNotPositive},
		{"bad expiration", func(p *BuildParams) { p.Expiration = "2h" }, ErrBadExpiration},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := testParams()
			tc.mutate(&p)
			if _, err := Build(p, 137, testContract); err != tc.want {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestHash_Deterministic(t *testing.T) {
	data := Data{
		MakerAsset:   testWETH.Hex(),
		TakerAsset:   testUSDC.Hex(),
		MakingAmount: "1500000000000000000",
		TakingAmount: "3000000000",
		Maker:        testMaker.Hex(),
		Receiver:     testMaker.Hex(),
		Salt:         "12345678901234567890",
		MakerTraits:  NewMakerTraits().WithExpiration(1767225600).AllowMultipleFills().String(),
	}

	first, err := Hash(TypedData(data, 137, testContract))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Hash(TypedData(data, 137, testContract))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("same payload hashed to %s and %s", first, second)
	}
}

func TestHash_SensitiveToPayload(t *testing.T) {
	base := Data{
		MakerAsset:   testWETH.Hex(),
		TakerAsset:   testUSDC.Hex(),
		MakingAmount: "1500000000000000000",
		TakingAmount: "3000000000",
		Maker:        testMaker.Hex(),
		Receiver:     testMaker.Hex(),
		Salt:         "1",
		MakerTraits:  "0",
	}
	ref, err := Hash(TypedData(base, 137, testContract))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Data)
	}{
		{"salt", func(d *Data) { d.Salt = "2" }},
		{"making amount", func(d *Data) { d.MakingAmount = "1500000000000000001" }},
		{"taking amount", func(d *Data) { d.TakingAmount = "3000000001" }},
		{"maker traits", func(d *Data) { d.MakerTraits = "1" }},
		{"receiver", func(d *Data) { d.Receiver = testUSDC.Hex() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := base
			tc.mutate(&d)
			h, err := Hash(TypedData(d, 137, testContract))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if h == ref {
				t.Error("mutated payload produced the reference hash")
			}
		})
	}

	otherChain, err := Hash(TypedData(base, 1, testContract))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if otherChain == ref {
		t.Error("different chain id produced the reference hash")
	}
}

func TestBuild_FreshSalt(t *testing.T) {
	p := testParams()
	first, err := Build(p, 137, testContract)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Build(p, 137, testContract)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Salt.Cmp(second.Salt) == 0 {
		t.Error("two builds drew the same salt")
	}
	if first.OrderHash == second.OrderHash {
		t.Error("two builds produced the same order hash")
	}
}
