package session

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

var (
	ErrNotConnected = errors.New("wallet session is not connected")
	// ErrWrongNetwork is the typed connection failure for a node that serves
	// a different chain than the session targets.
	ErrWrongNetwork = errors.New("RPC node serves an unexpected chain")
)

// Session binds one signing key to one chain. It owns the connection state
// explicitly instead of hiding it in package-level variables.
type Session struct {
	log     *logan.Entry
	rpc     string
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int

	mu         sync.RWMutex
	client     *ethclient.Client
	connected  bool
	connecting bool
}

func New(log *logan.Entry, rpc string, key *ecdsa.PrivateKey, chainID int64) *Session {
	return &Session{
		log:     log.WithField("component", "session"),
		rpc:     rpc,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: big.NewInt(chainID),
	}
}

// Connect dials the RPC node, verifies it serves the target chain and binds
// the session to the key's account.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	s.connecting = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.connecting = false
		s.mu.Unlock()
	}()

	client, err := ethclient.DialContext(ctx, s.rpc)
	if err != nil {
		return errors.Wrap(err, "failed to dial RPC node")
	}

	got, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return errors.Wrap(err, "failed to get chain id from node")
	}
	if got.Cmp(s.chainID) != 0 {
		client.Close()
		return errors.From(ErrWrongNetwork, logan.F{
			"want_chain_id": s.chainID.String(),
			"got_chain_id":  got.String(),
		})
	}

	s.mu.Lock()
	s.client = client
	s.connected = true
	s.mu.Unlock()

	s.log.WithField("account", s.address.Hex()).Info("wallet session connected")
	return nil
}

// Disconnect clears local session state only; nothing happens on-chain.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	s.connected = false
}

func (s *Session) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *Session) IsConnecting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connecting
}

// Address returns the account the session signs for.
func (s *Session) Address() common.Address {
	return s.address
}

// ChainID returns the chain the session is bound to.
func (s *Session) ChainID() int64 {
	return s.chainID.Int64()
}

// Client returns the connected RPC client.
func (s *Session) Client() (*ethclient.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.connected || s.client == nil {
		return nil, ErrNotConnected
	}
	return s.client, nil
}

// SignTypedData signs the EIP-712 digest of the given structure and returns
// a 0x-prefixed 65-byte signature with v in {27, 28}.
func (s *Session) SignTypedData(td apitypes.TypedData) (string, error) {
	if !s.IsConnected() {
		return "", ErrNotConnected
	}

	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash typed data")
	}

	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign digest")
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}

// TransactOpts prepares signing options for sending a transaction from the
// session account.
func (s *Session) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if !s.IsConnected() {
		return nil, ErrNotConnected
	}

	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create transactor")
	}
	opts.Context = ctx
	return opts, nil
}
