package ataprog

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
	"github.com/iov-one/mintgate/runtime"
	"github.com/iov-one/mintgate/x/tokenprog"
)

// ID of the associated token account program.
var ID = common.SPLAssociatedTokenAccountProgramID

// Instruction tags. Empty instruction data means Create.
const (
	InstructionCreate           uint8 = 0
	InstructionCreateIdempotent uint8 = 1
)

// Account positions of both instructions.
const (
	accFunder = iota
	accAssociated
	accOwner
	accMint
	accSystemProgram
	accTokenProgram
	numAccounts
)

// Program processes associated token account instructions.
type Program struct {
	id common.PublicKey
}

var _ mintgate.Program = Program{}

// NewProgram returns a program deriving addresses for id.
func NewProgram(id common.PublicKey) Program {
	return Program{id: id}
}

// Register binds the program to its default id.
func Register(rt *runtime.Runtime) {
	rt.Register(ID, NewProgram(ID))
}

// Address returns the associated token account address of the owner for
// the mint and its bump seed.
func Address(programID, owner, mint, tokenProgram common.PublicKey) (common.PublicKey, uint8, error) {
	addr, bump, err := common.FindProgramAddress(seeds(owner, mint, tokenProgram), programID)
	if err != nil {
		return common.PublicKey{}, 0, errors.Wrapf(errors.ErrInput, "derive address: %s", err)
	}
	return addr, bump, nil
}

func seeds(owner, mint, tokenProgram common.PublicKey) [][]byte {
	return [][]byte{owner.Bytes(), tokenProgram.Bytes(), mint.Bytes()}
}

// Process implements mintgate.Program.
func (p Program) Process(ctx mintgate.Context, db mintgate.KVStore, inv mintgate.Invoker, accounts []mintgate.AccountInfo, data []byte) error {
	idempotent := false
	switch {
	case len(data) == 0 || (len(data) == 1 && data[0] == InstructionCreate):
		mintgate.Log(ctx, "Create")
	case len(data) == 1 && data[0] == InstructionCreateIdempotent:
		mintgate.Log(ctx, "CreateIdempotent")
		idempotent = true
	default:
		return errors.Wrap(errors.ErrInput, "unknown instruction")
	}
	if len(accounts) < numAccounts {
		return errors.Wrapf(errors.ErrInput, "want %d accounts, got %d", numAccounts, len(accounts))
	}

	var (
		funder       = accounts[accFunder]
		associated   = accounts[accAssociated]
		owner        = accounts[accOwner].Key
		mint         = accounts[accMint].Key
		systemID     = accounts[accSystemProgram].Key
		tokenProgram = accounts[accTokenProgram].Key
	)

	addr, bump, err := Address(p.id, owner, mint, tokenProgram)
	if err != nil {
		return err
	}
	if addr != associated.Key {
		return errors.Wrapf(errors.ErrInput, "associated address mismatch, want %s", addr.ToBase58())
	}

	existing, err := runtime.LoadAccount(db, associated.Key)
	if err != nil {
		return err
	}
	if !existing.IsUnused() {
		if idempotent && existing.Owner == tokenProgram {
			acc, err := tokenprog.UnmarshalAccount(existing.Data)
			if err == nil && acc.Owner == owner && acc.Mint == mint {
				return nil
			}
		}
		return errors.Wrapf(errors.ErrDuplicate, "account %s already in use", associated.Key.ToBase58())
	}

	rent, err := runtime.LoadRent(db)
	if err != nil {
		return err
	}
	create := system.CreateAccount(system.CreateAccountParam{
		From:     funder.Key,
		New:      associated.Key,
		Owner:    tokenProgram,
		Lamports: rent.MinimumBalance(tokenprog.AccountSize),
		Space:    tokenprog.AccountSize,
	})
	create.ProgramID = systemID
	signer := append(seeds(owner, mint, tokenProgram), []byte{bump})
	if err := inv.InvokeSigned(ctx, db, create, accounts, signer); err != nil {
		return errors.Wrap(err, "allocate")
	}

	initialize := token.InitializeAccount3(token.InitializeAccount3Param{
		Account: associated.Key,
		Mint:    mint,
		Owner:   owner,
	})
	initialize.ProgramID = tokenProgram
	if err := inv.Invoke(ctx, db, initialize, accounts); err != nil {
		return errors.Wrap(err, "initialize")
	}
	return nil
}
