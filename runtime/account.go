package runtime

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
)

// Account is the host record of a ledger account.
type Account struct {
	Lamports   uint64
	Owner      common.PublicKey
	Executable bool
	Data       []byte
}

// IsUnused returns true if the account was never allocated: no lamports, no
// data and owned by the system program.
func (a *Account) IsUnused() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner == common.SystemProgramID
}

// Protobuf field tags of the account record.
const (
	tagLamports   = 1<<3 | 0
	tagOwner      = 2<<3 | 2
	tagExecutable = 3<<3 | 0
	tagData       = 4<<3 | 2
)

// Marshal serializes the account using the protobuf wire format.
func (a *Account) Marshal() ([]byte, error) {
	b := proto.NewBuffer(nil)
	if err := b.EncodeVarint(tagLamports); err != nil {
		return nil, err
	}
	if err := b.EncodeVarint(a.Lamports); err != nil {
		return nil, err
	}
	if err := b.EncodeVarint(tagOwner); err != nil {
		return nil, err
	}
	if err := b.EncodeRawBytes(a.Owner[:]); err != nil {
		return nil, err
	}
	if a.Executable {
		if err := b.EncodeVarint(tagExecutable); err != nil {
			return nil, err
		}
		if err := b.EncodeVarint(1); err != nil {
			return nil, err
		}
	}
	if len(a.Data) > 0 {
		if err := b.EncodeVarint(tagData); err != nil {
			return nil, err
		}
		if err := b.EncodeRawBytes(a.Data); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

// Unmarshal loads the account from its protobuf wire format. Unknown fields
// are skipped.
func (a *Account) Unmarshal(raw []byte) error {
	*a = Account{}
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "account: bad field tag")
		}
		raw = raw[n:]

		switch tag & 7 {
		case 0:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrap(errors.ErrInput, "account: bad varint")
			}
			raw = raw[n:]
			switch tag {
			case tagLamports:
				a.Lamports = v
			case tagExecutable:
				a.Executable = v != 0
			}
		case 2:
			l, n := proto.DecodeVarint(raw)
			if n == 0 || uint64(len(raw)-n) < l {
				return errors.Wrap(errors.ErrInput, "account: bad length")
			}
			val := raw[n : n+int(l)]
			raw = raw[n+int(l):]
			switch tag {
			case tagOwner:
				if len(val) != mintgate.PublicKeySize {
					return errors.Wrapf(errors.ErrInput, "account: owner of %d bytes", len(val))
				}
				a.Owner = common.PublicKeyFromBytes(val)
			case tagData:
				a.Data = append([]byte(nil), val...)
			}
		default:
			return errors.Wrapf(errors.ErrInput, "account: unsupported wire type %d", tag&7)
		}
	}
	return nil
}

var accountPrefix = []byte("acct:")

func accountKey(key common.PublicKey) []byte {
	return append(append([]byte{}, accountPrefix...), key[:]...)
}

// LoadAccount returns the account stored under the given key. An account
// that was never allocated is returned as an unused, system owned account
// with no lamports.
func LoadAccount(db mintgate.ReadOnlyKVStore, key common.PublicKey) (*Account, error) {
	raw, err := db.Get(accountKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "load account")
	}
	if raw == nil {
		return &Account{Owner: common.SystemProgramID}, nil
	}
	var a Account
	if err := a.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "account %s", key.ToBase58())
	}
	return &a, nil
}

// SaveAccount writes the account. An account that ends up with no lamports
// and no data is removed from the ledger.
func SaveAccount(db mintgate.KVStore, key common.PublicKey, a *Account) error {
	if a.Lamports == 0 && len(a.Data) == 0 {
		return db.Delete(accountKey(key))
	}
	raw, err := a.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal account")
	}
	return db.Set(accountKey(key), raw)
}
