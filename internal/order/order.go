package order

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Status of an order as the orderbook reports it. Transitions are one-way:
// an order never returns to StatusActive once it left it.
type Status string

const (
	StatusActive    Status = "active"
	StatusFilled    Status = "filled"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// ParseStatus maps an orderbook status string onto Status. Anything unknown
// counts as active.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusFilled, StatusCancelled, StatusExpired:
		return Status(s)
	default:
		return StatusActive
	}
}

// Data is the canonical order payload submitted to the orderbook. All integer
// fields are decimal strings to keep uint256 values exact over JSON.
type Data struct {
	MakerAsset   string `json:"makerAsset"`
	TakerAsset   string `json:"takerAsset"`
	MakingAmount string `json:"makingAmount"`
	TakingAmount string `json:"takingAmount"`
	Maker        string `json:"maker"`
	Receiver     string `json:"receiver"`
	Salt         string `json:"salt"`
	MakerTraits  string `json:"makerTraits"`
	Extension    string `json:"extension,omitempty"`
}

// Record is the client-visible order. ID is a local identifier derived from
// salt and creation time, not the protocol order hash.
type Record struct {
	ID           string         `json:"id"`
	Maker        common.Address `json:"maker"`
	Taker        common.Address `json:"taker"`
	MakerAsset   common.Address `json:"makerAsset"`
	TakerAsset   common.Address `json:"takerAsset"`
	MakingAmount string         `json:"makingAmount"`
	TakingAmount string         `json:"takingAmount"`
	Salt         string         `json:"salt"`
	Expiration   int64          `json:"expiration"`
	Signature    string         `json:"signature"`
	Status       Status         `json:"status"`
	CreatedAt    int64          `json:"createdAt"`
	OrderHash    string         `json:"orderHash"`
	MakerTraits  string         `json:"makerTraits"`
}

// LocalID derives the session-local order identifier from salt and the
// creation timestamp in milliseconds.
func LocalID(salt string, createdAt int64) string {
	return fmt.Sprintf("%s-%d", salt, createdAt)
}
