package sysprog

import (
	"encoding/binary"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
)

// Instruction indexes.
const (
	InstructionCreateAccount uint32 = 0
	InstructionTransfer      uint32 = 2
)

// MaxPermittedDataLength is the maximum data size of a single account.
const MaxPermittedDataLength = 10 * 1024 * 1024

// CreateAccountMsg allocates a new account owned by Owner, funded from the
// first account of the instruction.
type CreateAccountMsg struct {
	Lamports uint64
	Space    uint64
	Owner    common.PublicKey
}

// Validate checks the message on its own.
func (m *CreateAccountMsg) Validate() error {
	if m.Space > MaxPermittedDataLength {
		return errors.Field("Space", errors.ErrInput, "must not exceed %d", MaxPermittedDataLength)
	}
	return nil
}

// TransferMsg moves lamports from the first to the second account of the
// instruction.
type TransferMsg struct {
	Lamports uint64
}

// Validate checks the message on its own.
func (m *TransferMsg) Validate() error {
	return nil
}

// Msg is implemented by all instruction messages.
type Msg interface {
	Validate() error
}

// ParseMsg decodes instruction data into one of the messages.
func ParseMsg(data []byte) (Msg, error) {
	if len(data) < 4 {
		return nil, errors.Wrap(errors.ErrInput, "instruction index missing")
	}
	idx := binary.LittleEndian.Uint32(data)
	data = data[4:]

	switch idx {
	case InstructionCreateAccount:
		if len(data) != 8+8+mintgate.PublicKeySize {
			return nil, errors.Wrapf(errors.ErrInput, "create account: invalid data length %d", len(data))
		}
		return &CreateAccountMsg{
			Lamports: binary.LittleEndian.Uint64(data[0:8]),
			Space:    binary.LittleEndian.Uint64(data[8:16]),
			Owner:    common.PublicKeyFromBytes(data[16:48]),
		}, nil
	case InstructionTransfer:
		if len(data) != 8 {
			return nil, errors.Wrapf(errors.ErrInput, "transfer: invalid data length %d", len(data))
		}
		return &TransferMsg{Lamports: binary.LittleEndian.Uint64(data)}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown instruction %d", idx)
	}
}
