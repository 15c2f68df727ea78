package tokenprog

import (
	"math"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/token"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
	"github.com/iov-one/mintgate/runtime"
)

// ID of the token program.
var ID = common.TokenProgramID

// Program processes token instructions.
type Program struct {
	id common.PublicKey
}

var _ mintgate.Program = Program{}

// NewProgram returns a token program that owns accounts created for id.
func NewProgram(id common.PublicKey) Program {
	return Program{id: id}
}

// Register binds the program to its default id.
func Register(rt *runtime.Runtime) {
	rt.Register(ID, NewProgram(ID))
}

// Process implements mintgate.Program.
func (p Program) Process(ctx mintgate.Context, db mintgate.KVStore, inv mintgate.Invoker, accounts []mintgate.AccountInfo, data []byte) error {
	msg, err := ParseMsg(data)
	if err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	switch msg := msg.(type) {
	case *InitializeMintMsg:
		mintgate.Log(ctx, "Instruction: InitializeMint")
		return p.initializeMint(db, accounts, msg)
	case *InitializeAccount3Msg:
		mintgate.Log(ctx, "Instruction: InitializeAccount3")
		return p.initializeAccount(db, accounts, msg)
	case *MintToMsg:
		mintgate.Log(ctx, "Instruction: MintTo")
		return p.mintTo(db, accounts, msg)
	}
	return errors.Wrapf(errors.ErrType, "%T", msg)
}

func (p Program) initializeMint(db mintgate.KVStore, accounts []mintgate.AccountInfo, msg *InitializeMintMsg) error {
	if len(accounts) < 2 {
		return errors.Wrap(errors.ErrInput, "initialize mint: mint and rent sysvar required")
	}
	mintInfo := accounts[0]
	if !mintInfo.IsWritable {
		return errors.Wrap(errors.ErrUnauthorized, "mint not writable")
	}
	acc, err := p.loadOwned(db, mintInfo.Key)
	if err != nil {
		return err
	}
	if len(acc.Data) != MintSize {
		return errors.Wrapf(errors.ErrInput, "mint account holds %d bytes, want %d", len(acc.Data), MintSize)
	}
	mint, err := UnmarshalMint(acc.Data)
	if err != nil {
		return err
	}
	if mint.IsInitialized {
		return errors.Wrapf(errors.ErrDuplicate, "mint %s already initialized", mintInfo.Key.ToBase58())
	}

	rent, err := runtime.LoadRentFrom(db, accounts[1].Key)
	if err != nil {
		return err
	}
	if !rent.IsExempt(acc.Lamports, MintSize) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "mint not rent exempt, need %d lamports", rent.MinimumBalance(MintSize))
	}

	auth := msg.MintAuthority
	mint = &Mint{MintAccount: token.MintAccount{
		MintAuthority:   &auth,
		Decimals:        msg.Decimals,
		IsInitialized:   true,
		FreezeAuthority: msg.FreezeAuthority,
	}}
	acc.Data = mint.Marshal()
	return runtime.SaveAccount(db, mintInfo.Key, acc)
}

func (p Program) initializeAccount(db mintgate.KVStore, accounts []mintgate.AccountInfo, msg *InitializeAccount3Msg) error {
	if len(accounts) < 2 {
		return errors.Wrap(errors.ErrInput, "initialize account: account and mint required")
	}
	info, mintInfo := accounts[0], accounts[1]
	if !info.IsWritable {
		return errors.Wrap(errors.ErrUnauthorized, "token account not writable")
	}
	acc, err := p.loadOwned(db, info.Key)
	if err != nil {
		return err
	}
	if len(acc.Data) != AccountSize {
		return errors.Wrapf(errors.ErrInput, "token account holds %d bytes, want %d", len(acc.Data), AccountSize)
	}
	state, err := UnmarshalAccount(acc.Data)
	if err != nil {
		return err
	}
	if state.State != AccountUninitialized {
		return errors.Wrapf(errors.ErrDuplicate, "token account %s already initialized", info.Key.ToBase58())
	}
	if _, err := p.loadMint(db, mintInfo.Key); err != nil {
		return err
	}

	rent, err := runtime.LoadRent(db)
	if err != nil {
		return err
	}
	if !rent.IsExempt(acc.Lamports, AccountSize) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "token account not rent exempt, need %d lamports", rent.MinimumBalance(AccountSize))
	}

	state = &Account{TokenAccount: token.TokenAccount{
		Mint:  mintInfo.Key,
		Owner: msg.Owner,
		State: AccountInitialized,
	}}
	acc.Data = state.Marshal()
	return runtime.SaveAccount(db, info.Key, acc)
}

func (p Program) mintTo(db mintgate.KVStore, accounts []mintgate.AccountInfo, msg *MintToMsg) error {
	if len(accounts) < 3 {
		return errors.Wrap(errors.ErrInput, "mint to: mint, destination and authority required")
	}
	mintInfo, destInfo, authInfo := accounts[0], accounts[1], accounts[2]
	if !mintInfo.IsWritable || !destInfo.IsWritable {
		return errors.Wrap(errors.ErrUnauthorized, "mint and destination must be writable")
	}

	destAcc, err := p.loadOwned(db, destInfo.Key)
	if err != nil {
		return err
	}
	dest, err := UnmarshalAccount(destAcc.Data)
	if err != nil {
		return err
	}
	switch dest.State {
	case AccountUninitialized:
		return errors.Wrapf(errors.ErrState, "token account %s not initialized", destInfo.Key.ToBase58())
	case AccountFrozen:
		return errors.Wrapf(errors.ErrState, "token account %s frozen", destInfo.Key.ToBase58())
	}
	if dest.Mint != mintInfo.Key {
		return errors.Wrap(errors.ErrInput, "token account belongs to another mint")
	}

	mintAcc, err := p.loadOwned(db, mintInfo.Key)
	if err != nil {
		return err
	}
	mint, err := UnmarshalMint(mintAcc.Data)
	if err != nil {
		return err
	}
	if !mint.IsInitialized {
		return errors.Wrapf(errors.ErrState, "mint %s not initialized", mintInfo.Key.ToBase58())
	}
	if mint.MintAuthority == nil {
		return errors.Wrap(errors.ErrState, "fixed supply")
	}
	if *mint.MintAuthority != authInfo.Key || !authInfo.IsSigner {
		return errors.Wrap(errors.ErrUnauthorized, "mint authority signature missing")
	}

	if mint.Supply > math.MaxUint64-msg.Amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	if dest.Amount > math.MaxUint64-msg.Amount {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	mint.Supply += msg.Amount
	dest.Amount += msg.Amount

	mintAcc.Data = mint.Marshal()
	if err := runtime.SaveAccount(db, mintInfo.Key, mintAcc); err != nil {
		return errors.Wrap(err, "save mint")
	}
	destAcc.Data = dest.Marshal()
	if err := runtime.SaveAccount(db, destInfo.Key, destAcc); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

// loadOwned returns the account, which must be owned by this program.
func (p Program) loadOwned(db mintgate.ReadOnlyKVStore, key common.PublicKey) (*runtime.Account, error) {
	acc, err := runtime.LoadAccount(db, key)
	if err != nil {
		return nil, err
	}
	if acc.Owner != p.id {
		return nil, errors.Wrapf(errors.ErrOwner, "account %s not owned by the token program", key.ToBase58())
	}
	return acc, nil
}

func (p Program) loadMint(db mintgate.ReadOnlyKVStore, key common.PublicKey) (*Mint, error) {
	acc, err := p.loadOwned(db, key)
	if err != nil {
		return nil, err
	}
	mint, err := UnmarshalMint(acc.Data)
	if err != nil {
		return nil, err
	}
	if !mint.IsInitialized {
		return nil, errors.Wrapf(errors.ErrState, "mint %s not initialized", key.ToBase58())
	}
	return mint, nil
}

// LoadMint reads an initialized mint owned by the default token program.
func LoadMint(db mintgate.ReadOnlyKVStore, key common.PublicKey) (*Mint, error) {
	return NewProgram(ID).loadMint(db, key)
}

// LoadTokenAccount reads a token account owned by the default token program.
func LoadTokenAccount(db mintgate.ReadOnlyKVStore, key common.PublicKey) (*Account, error) {
	acc, err := NewProgram(ID).loadOwned(db, key)
	if err != nil {
		return nil, err
	}
	return UnmarshalAccount(acc.Data)
}
