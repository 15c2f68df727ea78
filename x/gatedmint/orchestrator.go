package gatedmint

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
	"github.com/iov-one/mintgate/x/tokenprog"
)

const (
	// MintFunding is the amount of lamports moved from the admin to the new
	// mint account, a tenth of a SOL. It is a fixed value, not the rent
	// exemption minimum of the current rent parameters.
	MintFunding uint64 = 100000000

	// MintDecimals of every created token class.
	MintDecimals uint8 = 0

	// MintAmount of units created in the holding account.
	MintAmount uint64 = 1
)

// step is a single operation of the mint sequence.
type step struct {
	name string
	run  func(ctx mintgate.Context, db mintgate.KVStore, inv mintgate.Invoker, accs *Accounts) error
}

// mintSteps are executed in order. Each step depends on the accounts the
// previous steps created.
var mintSteps = []step{
	{name: "create mint account", run: createMintAccount},
	{name: "initialize mint", run: initializeMint},
	{name: "create holding account", run: createHoldingAccount},
	{name: "mint to holding account", run: mintToHolding},
}

// Orchestrate runs all mint steps in order and stops at the first failure.
// Writes of completed steps are not reverted, the host must discard them
// when an error is returned.
func Orchestrate(ctx mintgate.Context, db mintgate.KVStore, inv mintgate.Invoker, accs *Accounts) error {
	for _, s := range mintSteps {
		if err := s.run(ctx, db, inv, accs); err != nil {
			return errors.Wrap(err, s.name)
		}
	}
	mintgate.Log(ctx, "token mint process completed successfully")
	return nil
}

func createMintAccount(ctx mintgate.Context, db mintgate.KVStore, inv mintgate.Invoker, accs *Accounts) error {
	mintgate.Log(ctx, "creating mint account", "mint", accs.Mint.Key.ToBase58())
	ix := system.CreateAccount(system.CreateAccountParam{
		From:     accs.Admin.Key,
		New:      accs.Mint.Key,
		Owner:    accs.TokenProgram.Key,
		Lamports: MintFunding,
		Space:    tokenprog.MintSize,
	})
	return invoke(ctx, db, inv, accs, accs.SystemProgram.Key, ix)
}

func initializeMint(ctx mintgate.Context, db mintgate.KVStore, inv mintgate.Invoker, accs *Accounts) error {
	mintgate.Log(ctx, "initializing mint account", "mint", accs.Mint.Key.ToBase58())
	admin := accs.Admin.Key
	ix := token.InitializeMint(token.InitializeMintParam{
		Decimals:   MintDecimals,
		Mint:       accs.Mint.Key,
		MintAuth:   admin,
		FreezeAuth: &admin,
	})
	return invoke(ctx, db, inv, accs, accs.TokenProgram.Key, ix)
}

func createHoldingAccount(ctx mintgate.Context, db mintgate.KVStore, inv mintgate.Invoker, accs *Accounts) error {
	mintgate.Log(ctx, "creating token account", "token", accs.Holding.Key.ToBase58())
	ix := associated_token_account.CreateAssociatedTokenAccount(
		associated_token_account.CreateAssociatedTokenAccountParam{
			Funder:                 accs.Admin.Key,
			Owner:                  accs.Admin.Key,
			Mint:                   accs.Mint.Key,
			AssociatedTokenAccount: accs.Holding.Key,
		},
	)
	return invoke(ctx, db, inv, accs, accs.AssociatedProgram.Key, ix)
}

func mintToHolding(ctx mintgate.Context, db mintgate.KVStore, inv mintgate.Invoker, accs *Accounts) error {
	mintgate.Log(ctx, "minting token to token account",
		"mint", accs.Mint.Key.ToBase58(),
		"token", accs.Holding.Key.ToBase58())
	ix := token.MintTo(token.MintToParam{
		Mint:    accs.Mint.Key,
		To:      accs.Holding.Key,
		Auth:    accs.Admin.Key,
		Signers: []common.PublicKey{accs.Admin.Key},
		Amount:  MintAmount,
	})
	return invoke(ctx, db, inv, accs, accs.TokenProgram.Key, ix)
}

// invoke calls the program behind a capability account. Instructions are
// built for the well known program and sysvar ids, those references are
// rebound to the accounts the caller provided.
func invoke(ctx mintgate.Context, db mintgate.KVStore, inv mintgate.Invoker, accs *Accounts, programID common.PublicKey, ix types.Instruction) error {
	rebind := map[common.PublicKey]common.PublicKey{
		common.SystemProgramID:                    accs.SystemProgram.Key,
		common.TokenProgramID:                     accs.TokenProgram.Key,
		common.SPLAssociatedTokenAccountProgramID: accs.AssociatedProgram.Key,
		common.SysVarRentPubkey:                   accs.Rent.Key,
	}
	ix.ProgramID = programID
	metas := make([]types.AccountMeta, len(ix.Accounts))
	for i, m := range ix.Accounts {
		if k, ok := rebind[m.PubKey]; ok {
			m.PubKey = k
		}
		metas[i] = m
	}
	ix.Accounts = metas
	return inv.Invoke(ctx, db, ix, accs.List())
}
