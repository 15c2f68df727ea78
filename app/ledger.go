package app

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
	"github.com/iov-one/mintgate/runtime"
)

// Ledger executes transactions on a versioned store. Every successful
// transaction is committed as a new version, a rejected one leaves the store
// untouched.
//
// A Ledger is not safe for concurrent use.
type Ledger struct {
	logger log.Logger
	store  mintgate.CommitKVStore
	rt     *runtime.Runtime

	// chainID is loaded from the store, saved once by InitChain.
	chainID string

	// baseContext contains context info that is valid for the lifetime of
	// the ledger.
	baseContext mintgate.Context
}

// NewLedger returns a ledger working on the latest version of the store.
func NewLedger(store mintgate.CommitKVStore, rt *runtime.Runtime) (*Ledger, error) {
	l := &Ledger{
		store:       store,
		rt:          rt,
		baseContext: context.Background(),
	}
	l = l.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(store)
	if err != nil {
		return nil, err
	}
	if chainID != "" {
		l.chainID = chainID
		l.baseContext = mintgate.WithChainID(l.baseContext, chainID)
	}
	return l, nil
}

// WithLogger sets the logger used by the ledger and all programs.
func (l *Ledger) WithLogger(logger log.Logger) *Ledger {
	l.baseContext = mintgate.WithLogger(l.baseContext, logger)
	l.logger = logger
	return l
}

// ChainID returns the chain id set at genesis or an empty string.
func (l *Ledger) ChainID() string {
	return l.chainID
}

// InitChain writes the genesis state and commits it as the first version.
func (l *Ledger) InitChain(gen Genesis) (mintgate.CommitID, error) {
	if l.chainID != "" {
		return mintgate.CommitID{}, errors.Wrapf(errors.ErrState, "ledger already initialized for chain %s", l.chainID)
	}
	if err := gen.Validate(); err != nil {
		return mintgate.CommitID{}, errors.Wrap(err, "genesis")
	}

	cache := l.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return mintgate.CommitID{}, err
	}
	if err := gen.initState(cache, l.rt); err != nil {
		cache.Discard()
		return mintgate.CommitID{}, errors.Wrap(err, "genesis state")
	}
	if err := cache.Write(); err != nil {
		return mintgate.CommitID{}, errors.Wrap(err, "write genesis")
	}
	id, err := l.store.Commit()
	if err != nil {
		return mintgate.CommitID{}, errors.Wrap(err, "commit genesis")
	}

	l.chainID = gen.ChainID
	l.baseContext = mintgate.WithChainID(l.baseContext, gen.ChainID)
	l.logger.Info("genesis committed",
		"chain", gen.ChainID,
		"version", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash))
	return id, nil
}

// Deliver executes the transaction and commits its effects. The result
// holds the program log, also when the transaction was rejected.
func (l *Ledger) Deliver(tx *runtime.Tx) (*runtime.Result, mintgate.CommitID, error) {
	if l.chainID == "" {
		return nil, mintgate.CommitID{}, errors.Wrap(errors.ErrState, "ledger not initialized")
	}

	cache := l.store.CacheWrap()
	res, err := l.rt.Execute(l.baseContext, cache, tx)
	if err != nil {
		cache.Discard()
		return res, mintgate.CommitID{}, err
	}
	if err := cache.Write(); err != nil {
		return res, mintgate.CommitID{}, errors.Wrap(err, "write")
	}
	id, err := l.store.Commit()
	if err != nil {
		return res, mintgate.CommitID{}, errors.Wrap(err, "commit")
	}
	l.logger.Info("transaction committed", "version", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return res, id, nil
}

// Account returns the committed state of an account.
func (l *Ledger) Account(key common.PublicKey) (*runtime.Account, error) {
	view := l.store.CacheWrap()
	defer view.Discard()
	return runtime.LoadAccount(view, key)
}

// Fund credits lamports to a system account and commits the change. It is
// an operator action that bypasses transaction execution.
func (l *Ledger) Fund(key common.PublicKey, lamports uint64) (mintgate.CommitID, error) {
	cache := l.store.CacheWrap()
	if err := runtime.Fund(cache, key, lamports); err != nil {
		cache.Discard()
		return mintgate.CommitID{}, err
	}
	if err := cache.Write(); err != nil {
		return mintgate.CommitID{}, errors.Wrap(err, "write")
	}
	return l.store.Commit()
}

// _mg: is a prefix for ledger internal data.
const chainIDKey = "_mg:chainID"

// loadChainID returns the chain id stored, if any.
func loadChainID(db mintgate.CommitKVStore) (string, error) {
	v, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv mintgate.KVStore, chainID string) error {
	if !mintgate.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
