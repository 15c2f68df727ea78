package mintgate

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/mintgate/errors"
)

// PublicKeySize is the length of an account key in bytes.
const PublicKeySize = 32

// AccountInfo is a reference to a ledger account as seen by a program during
// a single invocation. The flags are set by the host runtime before the
// program runs.
type AccountInfo struct {
	Key common.PublicKey
	// IsSigner is set when the account holder authenticated the current
	// invocation with a valid signature.
	IsSigner bool
	// IsWritable is set when the invocation may modify the account.
	IsWritable bool
}

// Meta returns the account as an instruction account meta, carrying the
// same privileges.
func (a AccountInfo) Meta() types.AccountMeta {
	return types.AccountMeta{
		PubKey:     a.Key,
		IsSigner:   a.IsSigner,
		IsWritable: a.IsWritable,
	}
}

// FindAccount returns the first account with the given key.
func FindAccount(accounts []AccountInfo, key common.PublicKey) (AccountInfo, bool) {
	for _, a := range accounts {
		if a.Key == key {
			return a, true
		}
	}
	return AccountInfo{}, false
}

// ParsePublicKey decodes a base58 encoded 32 byte public key.
//
// Unlike common.PublicKeyFromString this function rejects input that is not
// a canonical base58 encoding of exactly 32 bytes.
func ParsePublicKey(s string) (common.PublicKey, error) {
	if s == "" {
		return common.PublicKey{}, errors.Wrap(errors.ErrEmpty, "public key")
	}
	raw := base58.Decode(s)
	if len(raw) != PublicKeySize {
		return common.PublicKey{}, errors.Wrapf(errors.ErrInput,
			"public key %q: want %d bytes, got %d", s, PublicKeySize, len(raw))
	}
	if base58.Encode(raw) != s {
		return common.PublicKey{}, errors.Wrapf(errors.ErrInput, "public key %q: not canonical base58", s)
	}
	return common.PublicKeyFromBytes(raw), nil
}

// IsZeroKey returns true if the key has all bytes set to zero.
func IsZeroKey(key common.PublicKey) bool {
	return key == common.PublicKey{}
}
