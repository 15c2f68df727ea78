package runtime

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
)

// AccountStorageOverhead is the number of bytes every account is charged for
// on top of its data.
const AccountStorageOverhead = 128

// Upper bounds of the rent parameters. With them the minimum balance of any
// account up to a few gigabytes fits in a uint64.
const (
	MaxLamportsPerByteYear = 1 << 32
	MaxExemptionThreshold  = 100
)

// rentSize is the serialized size of the rent sysvar.
const rentSize = 17

// SysvarOwnerID owns all sysvar accounts.
var SysvarOwnerID = common.PublicKeyFromString("Sysvar1111111111111111111111111111111111111")

// Rent describes the storage fee parameters of the ledger.
type Rent struct {
	// LamportsPerByteYear is the storage price.
	LamportsPerByteYear uint64 `json:"lamports_per_byte_year"`
	// ExemptionThreshold is the number of years of rent an account must
	// hold to be exempt from paying rent.
	ExemptionThreshold float64 `json:"exemption_threshold"`
	// BurnPercent of the collected rent is destroyed.
	BurnPercent uint8 `json:"burn_percent"`
}

// DefaultRent matches the mainnet parameters.
var DefaultRent = Rent{
	LamportsPerByteYear: 3480,
	ExemptionThreshold:  2,
	BurnPercent:         50,
}

// Validate returns an error if the parameters cannot be used.
func (r Rent) Validate() error {
	if r.LamportsPerByteYear == 0 {
		return errors.Field("LamportsPerByteYear", errors.ErrAmount, "must be positive")
	}
	if r.LamportsPerByteYear > MaxLamportsPerByteYear {
		return errors.Field("LamportsPerByteYear", errors.ErrAmount, "too large")
	}
	if r.ExemptionThreshold <= 0 || math.IsNaN(r.ExemptionThreshold) || math.IsInf(r.ExemptionThreshold, 0) {
		return errors.Field("ExemptionThreshold", errors.ErrAmount, "must be a positive number")
	}
	if r.ExemptionThreshold > MaxExemptionThreshold {
		return errors.Field("ExemptionThreshold", errors.ErrAmount, "too large")
	}
	if r.BurnPercent > 100 {
		return errors.Field("BurnPercent", errors.ErrAmount, "must not exceed 100")
	}
	return nil
}

// MinimumBalance returns the lamports an account of the given data size must
// hold to be rent exempt. The result saturates at math.MaxUint64.
func (r Rent) MinimumBalance(size uint64) uint64 {
	bytes, carry := bits.Add64(AccountStorageOverhead, size, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	hi, perYear := bits.Mul64(bytes, r.LamportsPerByteYear)
	if hi != 0 {
		return math.MaxUint64
	}
	balance := float64(perYear) * r.ExemptionThreshold
	if balance >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(balance)
}

// IsExempt returns true if an account holding lamports and size bytes of
// data is rent exempt.
func (r Rent) IsExempt(lamports, size uint64) bool {
	return lamports >= r.MinimumBalance(size)
}

// Marshal returns the sysvar layout: u64 price, f64 threshold, u8 burn
// percent, little endian.
func (r Rent) Marshal() []byte {
	raw := make([]byte, rentSize)
	binary.LittleEndian.PutUint64(raw[0:8], r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(raw[8:16], math.Float64bits(r.ExemptionThreshold))
	raw[16] = r.BurnPercent
	return raw
}

// UnmarshalRent decodes the rent sysvar layout.
func UnmarshalRent(raw []byte) (Rent, error) {
	if len(raw) != rentSize {
		return Rent{}, errors.Wrapf(errors.ErrInput, "rent sysvar: want %d bytes, got %d", rentSize, len(raw))
	}
	return Rent{
		LamportsPerByteYear: binary.LittleEndian.Uint64(raw[0:8]),
		ExemptionThreshold:  math.Float64frombits(binary.LittleEndian.Uint64(raw[8:16])),
		BurnPercent:         raw[16],
	}, nil
}

// SetRent stores the rent parameters in the rent sysvar account.
func SetRent(db mintgate.KVStore, r Rent) error {
	if err := r.Validate(); err != nil {
		return errors.Wrap(err, "rent")
	}
	data := r.Marshal()
	return SaveAccount(db, common.SysVarRentPubkey, &Account{
		Lamports: 1,
		Owner:    SysvarOwnerID,
		Data:     data,
	})
}

// LoadRent reads the rent parameters from the rent sysvar account.
func LoadRent(db mintgate.ReadOnlyKVStore) (Rent, error) {
	return LoadRentFrom(db, common.SysVarRentPubkey)
}

// LoadRentFrom reads the rent parameters from the given account, which must
// be the rent sysvar.
func LoadRentFrom(db mintgate.ReadOnlyKVStore, key common.PublicKey) (Rent, error) {
	if key != common.SysVarRentPubkey {
		return Rent{}, errors.Wrapf(errors.ErrInput, "%s is not the rent sysvar", key.ToBase58())
	}
	acc, err := LoadAccount(db, key)
	if err != nil {
		return Rent{}, err
	}
	if acc.Owner != SysvarOwnerID {
		return Rent{}, errors.Wrap(errors.ErrNotFound, "rent sysvar not initialized")
	}
	return UnmarshalRent(acc.Data)
}
