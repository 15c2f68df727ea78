package runtime

import (
	"math"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
)

// Fund credits lamports to an account outside of any transaction. It is
// meant to be used when the initial ledger state is created.
func Fund(db mintgate.KVStore, key common.PublicKey, lamports uint64) error {
	acc, err := LoadAccount(db, key)
	if err != nil {
		return err
	}
	if acc.Lamports > math.MaxUint64-lamports {
		return errors.Wrapf(errors.ErrOverflow, "balance of %s", key.ToBase58())
	}
	acc.Lamports += lamports
	return SaveAccount(db, key, acc)
}

// Deploy marks the account as an executable program owned by the loader.
// Programs must be deployed so that they can be referenced as capability
// accounts.
func Deploy(db mintgate.KVStore, id common.PublicKey) error {
	acc, err := LoadAccount(db, id)
	if err != nil {
		return err
	}
	acc.Executable = true
	acc.Owner = LoaderID
	if acc.Lamports == 0 {
		acc.Lamports = 1
	}
	return SaveAccount(db, id, acc)
}

// LoaderID owns all deployed program accounts.
var LoaderID = common.PublicKeyFromString("BPFLoaderUpgradeab1e11111111111111111111111")
