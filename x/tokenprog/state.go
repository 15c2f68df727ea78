package tokenprog

import (
	"encoding/binary"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/token"

	"github.com/iov-one/mintgate/errors"
)

// Sizes of the account layouts.
const (
	MintSize    = token.MintAccountSize
	AccountSize = token.TokenAccountSize
)

// Mint describes a token type. A nil MintAuthority means the supply is
// fixed.
type Mint struct {
	token.MintAccount
}

// States of a token account.
const (
	AccountUninitialized token.TokenAccountState = iota
	AccountInitialized
	AccountFrozen
)

// Account holds tokens of a single mint for a single owner.
type Account struct {
	token.TokenAccount
}

// Marshal returns the 82 byte mint layout.
func (m *Mint) Marshal() []byte {
	raw := make([]byte, MintSize)
	putOptionKey(raw[0:36], m.MintAuthority)
	binary.LittleEndian.PutUint64(raw[36:44], m.Supply)
	raw[44] = m.Decimals
	raw[45] = putBool(m.IsInitialized)
	putOptionKey(raw[46:82], m.FreezeAuthority)
	return raw
}

// UnmarshalMint decodes the mint layout. Option tags and flags other than
// 0 and 1 are rejected.
func UnmarshalMint(raw []byte) (*Mint, error) {
	if len(raw) != MintSize {
		return nil, errors.ErrInput.Newf("mint: want %d bytes, got %d", MintSize, len(raw))
	}
	if err := checkOption(raw[0:4]); err != nil {
		return nil, errors.Wrap(err, "mint authority")
	}
	if raw[45] > 1 {
		return nil, errors.ErrInput.Newf("is initialized: invalid bool %d", raw[45])
	}
	if err := checkOption(raw[46:50]); err != nil {
		return nil, errors.Wrap(err, "freeze authority")
	}
	m, err := token.MintAccountFromData(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &Mint{MintAccount: m}, nil
}

// Marshal returns the 165 byte token account layout.
func (a *Account) Marshal() []byte {
	raw := make([]byte, AccountSize)
	copy(raw[0:32], a.Mint[:])
	copy(raw[32:64], a.Owner[:])
	binary.LittleEndian.PutUint64(raw[64:72], a.Amount)
	putOptionKey(raw[72:108], a.Delegate)
	raw[108] = byte(a.State)
	if a.IsNative != nil {
		binary.LittleEndian.PutUint32(raw[109:113], 1)
		binary.LittleEndian.PutUint64(raw[113:121], *a.IsNative)
	}
	binary.LittleEndian.PutUint64(raw[121:129], a.DelegatedAmount)
	putOptionKey(raw[129:165], a.CloseAuthority)
	return raw
}

// UnmarshalAccount decodes the token account layout. Unknown states and
// option tags other than 0 and 1 are rejected.
func UnmarshalAccount(raw []byte) (*Account, error) {
	if len(raw) != AccountSize {
		return nil, errors.ErrInput.Newf("token account: want %d bytes, got %d", AccountSize, len(raw))
	}
	if err := checkOption(raw[72:76]); err != nil {
		return nil, errors.Wrap(err, "delegate")
	}
	if raw[108] > byte(AccountFrozen) {
		return nil, errors.ErrInput.Newf("invalid account state %d", raw[108])
	}
	if err := checkOption(raw[109:113]); err != nil {
		return nil, errors.Wrap(err, "is native")
	}
	if err := checkOption(raw[129:133]); err != nil {
		return nil, errors.Wrap(err, "close authority")
	}
	a, err := token.TokenAccountFromData(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &Account{TokenAccount: a}, nil
}

// putOptionKey writes a u32 tag followed by the key, or zeros.
func putOptionKey(dst []byte, key *common.PublicKey) {
	if key == nil {
		return
	}
	binary.LittleEndian.PutUint32(dst[0:4], 1)
	copy(dst[4:36], key[:])
}

// checkOption validates a u32 option tag.
func checkOption(tag []byte) error {
	if v := binary.LittleEndian.Uint32(tag); v > 1 {
		return errors.ErrInput.Newf("invalid option tag %d", v)
	}
	return nil
}

func putBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}
