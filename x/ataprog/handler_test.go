package ataprog

import (
	"context"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
	"github.com/iov-one/mintgate/runtime"
	"github.com/iov-one/mintgate/store"
	"github.com/iov-one/mintgate/x/sysprog"
	"github.com/iov-one/mintgate/x/tokenprog"
)

const chainID = "ata-test"

func setup(t *testing.T) (mintgate.CacheableKVStore, *runtime.Runtime, types.Account, common.PublicKey) {
	db := store.MemStore()
	require.NoError(t, runtime.SetRent(db, runtime.DefaultRent))
	payer := types.NewAccount()
	require.NoError(t, runtime.Fund(db, payer.PublicKey, 1000000000))

	rt := runtime.New()
	sysprog.Register(rt)
	tokenprog.Register(rt)
	Register(rt)

	mint := types.NewAccount()
	require.NoError(t, exec(t, db, rt, payer, []types.Account{mint},
		system.CreateAccount(system.CreateAccountParam{
			From:     payer.PublicKey,
			New:      mint.PublicKey,
			Owner:    tokenprog.ID,
			Lamports: runtime.DefaultRent.MinimumBalance(tokenprog.MintSize),
			Space:    tokenprog.MintSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Mint:     mint.PublicKey,
			MintAuth: payer.PublicKey,
		}),
	))
	return db, rt, payer, mint.PublicKey
}

func exec(t *testing.T, db mintgate.CacheableKVStore, rt *runtime.Runtime, payer types.Account, signers []types.Account, ixs ...types.Instruction) error {
	t.Helper()
	tx := &runtime.Tx{FeePayer: payer.PublicKey, Instructions: ixs}
	require.NoError(t, tx.Sign(chainID, append([]types.Account{payer}, signers...)...))
	_, err := rt.Execute(mintgate.WithChainID(context.Background(), chainID), db, tx)
	return err
}

func createIx(payer, owner, mint, ata common.PublicKey) types.Instruction {
	return associated_token_account.CreateAssociatedTokenAccount(
		associated_token_account.CreateAssociatedTokenAccountParam{
			Funder:                 payer,
			Owner:                  owner,
			Mint:                   mint,
			AssociatedTokenAccount: ata,
		},
	)
}

func TestCreate(t *testing.T) {
	db, rt, payer, mint := setup(t)
	owner := types.NewAccount().PublicKey

	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	addr, _, err := Address(ID, owner, mint, tokenprog.ID)
	require.NoError(t, err)
	require.Equal(t, ata, addr)

	require.NoError(t, exec(t, db, rt, payer, nil, createIx(payer.PublicKey, owner, mint, ata)))

	acc, err := tokenprog.LoadTokenAccount(db, ata)
	require.NoError(t, err)
	require.Equal(t, owner, acc.Owner)
	require.Equal(t, mint, acc.Mint)
	require.Equal(t, tokenprog.AccountInitialized, acc.State)

	raw, err := runtime.LoadAccount(db, ata)
	require.NoError(t, err)
	require.Equal(t, runtime.DefaultRent.MinimumBalance(tokenprog.AccountSize), raw.Lamports)

	err = exec(t, db, rt, payer, nil, createIx(payer.PublicKey, owner, mint, ata))
	require.True(t, errors.ErrDuplicate.Is(err), "unexpected error: %+v", err)

	idempotent := createIx(payer.PublicKey, owner, mint, ata)
	idempotent.Data = []byte{InstructionCreateIdempotent}
	require.NoError(t, exec(t, db, rt, payer, nil, idempotent))
}

func TestCreateWrongAddress(t *testing.T) {
	db, rt, payer, mint := setup(t)
	owner := types.NewAccount().PublicKey
	other := types.NewAccount().PublicKey

	err := exec(t, db, rt, payer, nil, createIx(payer.PublicKey, owner, mint, other))
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)
}

func TestCreateUnknownMint(t *testing.T) {
	db, rt, payer, _ := setup(t)
	owner := types.NewAccount().PublicKey
	mint := types.NewAccount().PublicKey
	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)

	err = exec(t, db, rt, payer, nil, createIx(payer.PublicKey, owner, mint, ata))
	require.True(t, errors.ErrOwner.Is(err), "unexpected error: %+v", err)

	// Allocation was rolled back together with the failed initialization.
	acc, err := runtime.LoadAccount(db, ata)
	require.NoError(t, err)
	require.True(t, acc.IsUnused())
}
