package tokenprog

import (
	"encoding/binary"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/iov-one/mintgate/errors"
)

// Instruction tags.
const (
	InstructionInitializeMint     uint8 = 0
	InstructionMintTo             uint8 = 7
	InstructionInitializeAccount3 uint8 = 18
)

// Msg is implemented by all instruction messages.
type Msg interface {
	Validate() error
}

// InitializeMintMsg turns an allocated mint account into a mint.
type InitializeMintMsg struct {
	Decimals        uint8
	MintAuthority   common.PublicKey
	FreezeAuthority *common.PublicKey
}

// Validate checks the message on its own.
func (m *InitializeMintMsg) Validate() error {
	return nil
}

// MintToMsg creates new tokens in a token account.
type MintToMsg struct {
	Amount uint64
}

// Validate checks the message on its own.
func (m *MintToMsg) Validate() error {
	return nil
}

// InitializeAccount3Msg turns an allocated account into a token account of
// the given owner.
type InitializeAccount3Msg struct {
	Owner common.PublicKey
}

// Validate checks the message on its own.
func (m *InitializeAccount3Msg) Validate() error {
	return nil
}

// ParseMsg decodes instruction data into one of the messages.
func ParseMsg(data []byte) (Msg, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "instruction tag missing")
	}
	tag, data := data[0], data[1:]

	switch tag {
	case InstructionInitializeMint:
		if len(data) < 34 {
			return nil, errors.Wrapf(errors.ErrInput, "initialize mint: invalid data length %d", len(data))
		}
		msg := InitializeMintMsg{
			Decimals:      data[0],
			MintAuthority: common.PublicKeyFromBytes(data[1:33]),
		}
		switch data[33] {
		case 0:
		case 1:
			if len(data) < 66 {
				return nil, errors.Wrap(errors.ErrInput, "initialize mint: freeze authority missing")
			}
			k := common.PublicKeyFromBytes(data[34:66])
			msg.FreezeAuthority = &k
		default:
			return nil, errors.Wrap(errors.ErrInput, "initialize mint: invalid freeze authority option")
		}
		return &msg, nil
	case InstructionMintTo:
		if len(data) != 8 {
			return nil, errors.Wrapf(errors.ErrInput, "mint to: invalid data length %d", len(data))
		}
		return &MintToMsg{Amount: binary.LittleEndian.Uint64(data)}, nil
	case InstructionInitializeAccount3:
		if len(data) != 32 {
			return nil, errors.Wrapf(errors.ErrInput, "initialize account: invalid data length %d", len(data))
		}
		return &InitializeAccount3Msg{Owner: common.PublicKeyFromBytes(data)}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown instruction %d", tag)
	}
}
