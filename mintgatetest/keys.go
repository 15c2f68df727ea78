package mintgatetest

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/iov-one/mintgate"
)

// NewKey returns a random public key.
func NewKey() common.PublicKey {
	return types.NewAccount().PublicKey
}

// Signed returns a writable signer account.
func Signed(key common.PublicKey) mintgate.AccountInfo {
	return mintgate.AccountInfo{Key: key, IsSigner: true, IsWritable: true}
}

// Writable returns a writable account that did not sign.
func Writable(key common.PublicKey) mintgate.AccountInfo {
	return mintgate.AccountInfo{Key: key, IsWritable: true}
}

// ReadOnly returns an account with no privileges.
func ReadOnly(key common.PublicKey) mintgate.AccountInfo {
	return mintgate.AccountInfo{Key: key}
}
