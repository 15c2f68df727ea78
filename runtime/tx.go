package runtime

import (
	"bytes"
	"encoding/binary"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"golang.org/x/crypto/ed25519"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
)

// Tx is a transaction: an ordered list of instructions executed atomically,
// signed by every account that any instruction marks as a signer.
type Tx struct {
	// FeePayer is always a required signer and always writable.
	FeePayer     common.PublicKey
	Instructions []types.Instruction
	Signatures   []Signature
}

// Signature of a single required signer over the transaction sign bytes.
type Signature struct {
	PubKey    common.PublicKey
	Signature []byte
}

// RequiredSigners returns the fee payer followed by every key marked as a
// signer by any instruction, in order of first appearance.
func (tx *Tx) RequiredSigners() []common.PublicKey {
	res := []common.PublicKey{tx.FeePayer}
	seen := map[common.PublicKey]bool{tx.FeePayer: true}
	for _, ix := range tx.Instructions {
		for _, meta := range ix.Accounts {
			if meta.IsSigner && !seen[meta.PubKey] {
				seen[meta.PubKey] = true
				res = append(res, meta.PubKey)
			}
		}
	}
	return res
}

// SignBytes returns the canonical bytes that every signer signs. The chain
// id is included so a transaction cannot be replayed on another ledger.
//
// Layout: chain id length (u8) and bytes, fee payer, instruction count
// (u16), then for each instruction the program id, meta count (u16), every
// meta as key and flags byte (1 signer, 2 writable), data length (u32) and
// data. All integers are little endian.
func (tx *Tx) SignBytes(chainID string) ([]byte, error) {
	if len(chainID) > 255 {
		return nil, errors.Wrap(errors.ErrInput, "chain id too long")
	}
	if len(tx.Instructions) > 0xffff {
		return nil, errors.Wrap(errors.ErrInput, "too many instructions")
	}

	var buf bytes.Buffer
	buf.WriteByte(byte(len(chainID)))
	buf.WriteString(chainID)
	buf.Write(tx.FeePayer[:])

	var n [4]byte
	binary.LittleEndian.PutUint16(n[:2], uint16(len(tx.Instructions)))
	buf.Write(n[:2])
	for i, ix := range tx.Instructions {
		if len(ix.Accounts) > 0xffff {
			return nil, errors.Wrapf(errors.ErrInput, "instruction %d: too many accounts", i)
		}
		buf.Write(ix.ProgramID[:])
		binary.LittleEndian.PutUint16(n[:2], uint16(len(ix.Accounts)))
		buf.Write(n[:2])
		for _, meta := range ix.Accounts {
			buf.Write(meta.PubKey[:])
			var flags byte
			if meta.IsSigner {
				flags |= 1
			}
			if meta.IsWritable {
				flags |= 2
			}
			buf.WriteByte(flags)
		}
		binary.LittleEndian.PutUint32(n[:], uint32(len(ix.Data)))
		buf.Write(n[:])
		buf.Write(ix.Data)
	}
	return buf.Bytes(), nil
}

// Sign adds signatures of the given accounts. Existing signatures of the
// same keys are replaced.
func (tx *Tx) Sign(chainID string, signers ...types.Account) error {
	msg, err := tx.SignBytes(chainID)
	if err != nil {
		return err
	}
	for _, s := range signers {
		sig := ed25519.Sign(ed25519.PrivateKey(s.PrivateKey), msg)
		tx.setSignature(Signature{PubKey: s.PublicKey, Signature: sig})
	}
	return nil
}

func (tx *Tx) setSignature(sig Signature) {
	for i, s := range tx.Signatures {
		if s.PubKey == sig.PubKey {
			tx.Signatures[i] = sig
			return
		}
	}
	tx.Signatures = append(tx.Signatures, sig)
}

// VerifySignatures checks that every required signer provided a valid
// signature and that no other signatures are attached.
func (tx *Tx) VerifySignatures(chainID string) error {
	msg, err := tx.SignBytes(chainID)
	if err != nil {
		return err
	}
	required := tx.RequiredSigners()
	isRequired := make(map[common.PublicKey]bool, len(required))
	for _, k := range required {
		isRequired[k] = true
	}

	signed := make(map[common.PublicKey]bool, len(tx.Signatures))
	for _, s := range tx.Signatures {
		if !isRequired[s.PubKey] {
			return errors.Wrapf(errors.ErrInput, "unexpected signature of %s", s.PubKey.ToBase58())
		}
		if !ed25519.Verify(ed25519.PublicKey(s.PubKey[:]), msg, s.Signature) {
			return errors.Wrapf(errors.ErrUnauthorized, "invalid signature of %s", s.PubKey.ToBase58())
		}
		signed[s.PubKey] = true
	}
	for _, k := range required {
		if !signed[k] {
			return errors.Wrapf(errors.ErrUnauthorized, "missing signature of %s", k.ToBase58())
		}
	}
	return nil
}

// accountInfos returns the accounts of an instruction with privileges
// computed over the whole transaction.
func (tx *Tx) accountInfos(ix types.Instruction) []mintgate.AccountInfo {
	signer := map[common.PublicKey]bool{tx.FeePayer: true}
	writable := map[common.PublicKey]bool{tx.FeePayer: true}
	for _, other := range tx.Instructions {
		for _, meta := range other.Accounts {
			signer[meta.PubKey] = signer[meta.PubKey] || meta.IsSigner
			writable[meta.PubKey] = writable[meta.PubKey] || meta.IsWritable
		}
	}

	res := make([]mintgate.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		res[i] = mintgate.AccountInfo{
			Key:        meta.PubKey,
			IsSigner:   signer[meta.PubKey],
			IsWritable: writable[meta.PubKey],
		}
	}
	return res
}
