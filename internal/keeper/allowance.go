package keeper

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/iShinzoo/LimitOrder/internal/gobind"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// ErrApprovalFailed marks a rejected or reverted ERC-20 approval. It is kept
// distinct from submission errors: a failed approval blocks order creation
// entirely.
var ErrApprovalFailed = errors.New("token approval failed")

// ethBackend is the node surface the allowance guard needs: contract calls
// plus receipt lookups. *ethclient.Client satisfies it.
type ethBackend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// ensureAllowance checks the maker's allowance for the protocol contract and
// raises it to exactly the required amount when short. It returns only after
// the approval transaction is mined; no order is submitted with unconfirmed
// allowance.
func (k *Keeper) ensureAllowance(ctx context.Context, token common.Address, required *big.Int) error {
	client, err := k.session.Client()
	if err != nil {
		return err
	}
	return k.ensureAllowanceOn(ctx, client, token, required)
}

func (k *Keeper) ensureAllowanceOn(ctx context.Context, backend ethBackend, token common.Address, required *big.Int) error {
	erc20, err := gobind.NewERC20(token, backend)
	if err != nil {
		return errors.Wrap(err, "failed to bind token contract")
	}

	childCtx, cancel := context.WithTimeout(ctx, k.requestTimeout)
	defer cancel()

	current, err := erc20.Allowance(&bind.CallOpts{Context: childCtx}, k.session.Address(), k.verifyingContract)
	if err != nil {
		return errors.Wrap(err, "failed to get current allowance")
	}

	log := k.log.WithFields(logan.F{
		"token":     token.Hex(),
		"required":  required.String(),
		"allowance": current.String(),
	})
	if current.Cmp(required) >= 0 {
		log.Debug("token already approved")
		return nil
	}

	opts, err := k.session.TransactOpts(ctx)
	if err != nil {
		return err
	}

	tx, err := erc20.Approve(opts, k.verifyingContract, required)
	if err != nil {
		return errors.Wrap(ErrApprovalFailed, err.Error())
	}

	log.WithField("tx", tx.Hash().Hex()).Debug("approval transaction sent")
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return errors.Wrap(ErrApprovalFailed, err.Error())
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return errors.From(ErrApprovalFailed, logan.F{"tx": tx.Hash().Hex()})
	}

	log.Debug("token approval confirmed")
	return nil
}

// tokenDecimals reads and memoizes a token's decimals.
func (k *Keeper) tokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	k.decMu.Lock()
	if k.decimals == nil {
		k.decimals = make(map[common.Address]uint8)
	}
	if d, ok := k.decimals[token]; ok {
		k.decMu.Unlock()
		return d, nil
	}
	k.decMu.Unlock()

	client, err := k.session.Client()
	if err != nil {
		return 0, err
	}
	erc20, err := gobind.NewERC20(token, client)
	if err != nil {
		return 0, errors.Wrap(err, "failed to bind token contract")
	}

	childCtx, cancel := context.WithTimeout(ctx, k.requestTimeout)
	defer cancel()

	d, err := erc20.Decimals(&bind.CallOpts{Context: childCtx})
	if err != nil {
		return 0, errors.Wrap(err, "failed to get token decimals")
	}

	k.decMu.Lock()
	k.decimals[token] = d
	k.decMu.Unlock()
	return d, nil
}
