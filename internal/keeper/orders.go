package keeper

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iShinzoo/LimitOrder/internal/order"
	"github.com/iShinzoo/LimitOrder/internal/orderbook"
	"github.com/shopspring/decimal"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// listing page size used when refreshing the local view
const refreshLimit = 100

// CreateParams are the user-entered inputs of a new limit order.
type CreateParams struct {
	PayToken     common.Address
	ReceiveToken common.Address
	Amount       decimal.Decimal
	Price        decimal.Decimal
	Expiration   string
}

// CreateOrder runs the full maker workflow: build, guard allowance, sign,
// submit, and record. Steps are strictly sequential; the order is appended
// to the active set only after the proxy acknowledges the submission. The
// append is optimistic and is not reconciled against a later refresh.
func (k *Keeper) CreateOrder(ctx context.Context, p CreateParams) (order.Record, error) {
	if !k.session.IsConnected() {
		return order.Record{}, errors.New("wallet not connected")
	}

	payDecimals, err := k.tokenDecimals(ctx, p.PayToken)
	if err != nil {
		return order.Record{}, errors.Wrap(err, "failed to get pay token decimals")
	}
	receiveDecimals, err := k.tokenDecimals(ctx, p.ReceiveToken)
	if err != nil {
		return order.Record{}, errors.Wrap(err, "failed to get receive token decimals")
	}

	built, err := order.Build(order.BuildParams{
		Maker:           k.session.Address(),
		PayToken:        p.PayToken,
		ReceiveToken:    p.ReceiveToken,
		PayDecimals:     payDecimals,
		ReceiveDecimals: receiveDecimals,
		Amount:          p.Amount,
		Price:           p.Price,
		Expiration:      p.Expiration,
	}, k.chainID, k.verifyingContract)
	if err != nil {
		return order.Record{}, errors.Wrap(err, "failed to build order")
	}

	if err = k.ensureAllowance(ctx, p.PayToken, built.Making); err != nil {
		return order.Record{}, err
	}

	signature, err := k.session.SignTypedData(built.TypedData)
	if err != nil {
		return order.Record{}, errors.Wrap(err, "failed to sign order")
	}

	payload := built.Data
	payload.Extension = "0x"
	err = k.postOrder(ctx, orderbook.SubmitBody{
		OrderHash: built.OrderHash.Hex(),
		Signature: signature,
		Data:      payload,
	})
	if err != nil {
		return order.Record{}, errors.Wrap(err, "failed to submit order")
	}

	now := time.Now().UnixMilli()
	rec := order.Record{
		ID:           order.LocalID(built.Salt.String(), now),
		Maker:        k.session.Address(),
		Taker:        common.Address{},
		MakerAsset:   p.PayToken,
		TakerAsset:   p.ReceiveToken,
		MakingAmount: built.Data.MakingAmount,
		TakingAmount: built.Data.TakingAmount,
		Salt:         built.Salt.String(),
		Expiration:   built.Expiration,
		Signature:    signature,
		Status:       order.StatusActive,
		CreatedAt:    now,
		OrderHash:    built.OrderHash.Hex(),
		MakerTraits:  built.Traits.String(),
	}
	k.store.Add(rec)

	k.log.WithFields(logan.F{"order_hash": rec.OrderHash, "id": rec.ID}).
		Info("order created")
	return rec, nil
}

// CancelOrder reclassifies a local order as cancelled and moves it into
// history. It performs no on-chain or upstream action: protocol-level
// cancellation requires an on-chain transaction this client does not send,
// so a later refresh may resurface the order while the orderbook still
// reports it active.
func (k *Keeper) CancelOrder(id string) (order.Record, error) {
	rec, err := k.store.Cancel(id)
	if err != nil {
		return order.Record{}, errors.Wrap(err, "failed to cancel order", logan.F{"id": id})
	}

	k.log.WithField("id", id).Info("order cancelled locally")
	return rec, nil
}

// RefreshOrders replaces the local active and history sets wholesale with
// the orderbook's current view of the maker's orders.
func (k *Keeper) RefreshOrders(ctx context.Context) error {
	listing, err := k.fetchOrders(ctx, k.session.Address().Hex(), refreshLimit)
	if err != nil {
		return errors.Wrap(err, "failed to fetch orders")
	}

	var active, history []order.Record
	for _, entry := range listing {
		rec := entryToRecord(entry)
		if rec.Status == order.StatusActive {
			active = append(active, rec)
			continue
		}
		history = append(history, rec)
	}

	k.store.Replace(active, history)
	k.log.WithFields(logan.F{"active": len(active), "history": len(history)}).
		Debug("orders refreshed")
	return nil
}

func entryToRecord(e bookOrder) order.Record {
	createdAt := e.CreateDateTime
	if createdAt == 0 {
		createdAt = time.Now().UnixMilli()
	}

	var expiration int64
	if traits, err := order.ParseMakerTraits(e.Data.MakerTraits); err == nil {
		expiration = traits.Expiration()
	}

	return order.Record{
		ID:           order.LocalID(e.Data.Salt, createdAt),
		Maker:        common.HexToAddress(e.Data.Maker),
		Taker:        common.Address{},
		MakerAsset:   common.HexToAddress(e.Data.MakerAsset),
		TakerAsset:   common.HexToAddress(e.Data.TakerAsset),
		MakingAmount: e.Data.MakingAmount,
		TakingAmount: e.Data.TakingAmount,
		Salt:         e.Data.Salt,
		Expiration:   expiration,
		Signature:    e.Signature,
		Status:       order.ParseStatus(e.Status),
		CreatedAt:    createdAt,
		OrderHash:    e.OrderHash,
		MakerTraits:  e.Data.MakerTraits,
	}
}
