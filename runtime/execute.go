package runtime

import (
	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
)

// Result of a transaction execution.
type Result struct {
	// Logs contains all program log lines, up to the failing instruction
	// if the transaction was rejected.
	Logs []string
}

// Execute verifies the transaction signatures and runs all instructions in
// order. Execution stops at the first failing instruction and every write of
// the transaction is discarded. On success all writes are applied to db at
// once.
//
// The chain id is read from the context. A result is returned even if the
// execution failed.
func (r *Runtime) Execute(ctx mintgate.Context, db mintgate.CacheableKVStore, tx *Tx) (*Result, error) {
	logs := mintgate.NewLogCollector()
	ctx = mintgate.WithLogCollector(ctx, logs)

	if len(tx.Instructions) == 0 {
		return &Result{}, errors.Wrap(errors.ErrEmpty, "no instructions")
	}
	if err := tx.VerifySignatures(mintgate.GetChainID(ctx)); err != nil {
		return &Result{}, errors.Wrap(err, "signatures")
	}

	err := savepoint(db, func(cache mintgate.KVStore) error {
		for i, ix := range tx.Instructions {
			accounts := tx.accountInfos(ix)
			if err := r.process(ctx, cache, ix.ProgramID, accounts, ix.Data, 1); err != nil {
				return errors.Wrapf(err, "instruction %d", i)
			}
		}
		return nil
	})
	res := &Result{Logs: logs.Lines()}
	if err != nil {
		mintgate.GetLogger(ctx).Info("transaction rejected", "err", err)
		return res, err
	}
	return res, nil
}

// savepoint isolates all writes made by fn and applies them to db only if fn
// succeeds.
func savepoint(db mintgate.CacheableKVStore, fn func(mintgate.KVStore) error) error {
	cache := db.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
