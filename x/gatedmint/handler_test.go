package gatedmint

import (
	"context"
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
	"github.com/iov-one/mintgate/mintgatetest/assert"
	"github.com/iov-one/mintgate/runtime"
	"github.com/iov-one/mintgate/store"
	"github.com/iov-one/mintgate/x/ataprog"
	"github.com/iov-one/mintgate/x/sysprog"
	"github.com/iov-one/mintgate/x/tokenprog"
)

const testChainID = "gatedmint-test"

type ledger struct {
	db     mintgate.CacheableKVStore
	ops    store.ShowOpser
	rt     *runtime.Runtime
	admin  types.Account
	second types.Account
}

func newLedger(t *testing.T, adminLamports uint64) *ledger {
	t.Helper()
	db, ops := store.LogableStore()
	admin := types.NewAccount()
	second := types.NewAccount()
	require.NoError(t, runtime.SetRent(db, runtime.DefaultRent))
	require.NoError(t, runtime.Fund(db, admin.PublicKey, adminLamports))

	rt := runtime.New()
	sysprog.Register(rt)
	tokenprog.Register(rt)
	ataprog.Register(rt)
	Register(rt, DefaultProgramID, Configuration{Admin: admin.PublicKey, SecondSigner: second.PublicKey})
	return &ledger{db: db, ops: ops, rt: rt, admin: admin, second: second}
}

func (l *ledger) mint(t *testing.T, ix types.Instruction, signers ...types.Account) (*runtime.Result, error) {
	t.Helper()
	tx := &runtime.Tx{FeePayer: l.admin.PublicKey, Instructions: []types.Instruction{ix}}
	require.NoError(t, tx.Sign(testChainID, signers...))
	return l.rt.Execute(mintgate.WithChainID(context.Background(), testChainID), l.db, tx)
}

func (l *ledger) instruction(t *testing.T, mint common.PublicKey) types.Instruction {
	t.Helper()
	ix, err := NewMintInstruction(MintParams{
		ProgramID:    DefaultProgramID,
		Mint:         mint,
		Admin:        l.admin.PublicKey,
		SecondSigner: l.second.PublicKey,
	})
	require.NoError(t, err)
	return ix
}

func TestMintEndToEnd(t *testing.T) {
	l := newLedger(t, 1000000000)
	mint := types.NewAccount()

	res, err := l.mint(t, l.instruction(t, mint.PublicKey), l.admin, l.second, mint)
	require.NoError(t, err, "logs: %v", res.Logs)

	acc, err := runtime.LoadAccount(l.db, mint.PublicKey)
	require.NoError(t, err)
	require.Equal(t, tokenprog.ID, acc.Owner)
	require.Equal(t, MintFunding, acc.Lamports)
	require.Len(t, acc.Data, tokenprog.MintSize)

	m, err := tokenprog.LoadMint(l.db, mint.PublicKey)
	require.NoError(t, err)
	require.Equal(t, uint8(0), m.Decimals)
	require.Equal(t, uint64(1), m.Supply)
	require.Equal(t, l.admin.PublicKey, *m.MintAuthority)
	require.Equal(t, l.admin.PublicKey, *m.FreezeAuthority)

	holding, _, err := common.FindAssociatedTokenAddress(l.admin.PublicKey, mint.PublicKey)
	require.NoError(t, err)
	h, err := tokenprog.LoadTokenAccount(l.db, holding)
	require.NoError(t, err)
	require.Equal(t, uint64(1), h.Amount)
	require.Equal(t, l.admin.PublicKey, h.Owner)
	require.Equal(t, mint.PublicKey, h.Mint)

	admin, err := runtime.LoadAccount(l.db, l.admin.PublicKey)
	require.NoError(t, err)
	spent := MintFunding + runtime.DefaultRent.MinimumBalance(tokenprog.AccountSize)
	require.Equal(t, 1000000000-spent, admin.Lamports)

	wantLogs := []string{
		"Program log: creating mint account mint=" + mint.PublicKey.ToBase58(),
		"Program log: initializing mint account mint=" + mint.PublicKey.ToBase58(),
		"Program log: creating token account token=" + holding.ToBase58(),
		"Program log: minting token to token account mint=" + mint.PublicKey.ToBase58() + " token=" + holding.ToBase58(),
		"Program log: token mint process completed successfully",
	}
	var got []string
	for _, line := range res.Logs {
		if strings.HasPrefix(line, "Program log: ") && !strings.HasPrefix(line, "Program log: Instruction") &&
			!strings.HasPrefix(line, "Program log: Create") {
			got = append(got, line)
		}
	}
	require.Equal(t, wantLogs, got)
	require.Equal(t, "Program "+DefaultProgramID.ToBase58()+" invoke [1]", res.Logs[0])
	require.Equal(t, "Program "+DefaultProgramID.ToBase58()+" success", res.Logs[len(res.Logs)-1])

	assert.LogContains(t, res.Logs,
		"creating mint account",
		"Program "+sysprog.ID.ToBase58()+" invoke [2]",
		"initializing mint account",
		"Program "+tokenprog.ID.ToBase58()+" invoke [2]",
		"creating token account",
		"Program "+ataprog.ID.ToBase58()+" invoke [2]",
		"Program "+sysprog.ID.ToBase58()+" invoke [3]",
		"Program "+tokenprog.ID.ToBase58()+" invoke [3]",
		"Program "+ataprog.ID.ToBase58()+" success",
		"minting token",
		"Program "+tokenprog.ID.ToBase58()+" invoke [2]",
		"completed successfully",
	)
}

func TestMintTwiceWithSameMintFails(t *testing.T) {
	l := newLedger(t, 1000000000)
	mint := types.NewAccount()
	ix := l.instruction(t, mint.PublicKey)

	_, err := l.mint(t, ix, l.admin, l.second, mint)
	require.NoError(t, err)
	before := len(l.ops.ShowOps())

	_, err = l.mint(t, ix, l.admin, l.second, mint)
	require.True(t, errors.ErrDuplicate.Is(err), "unexpected error: %+v", err)
	require.Contains(t, err.Error(), "create mint account")
	require.Equal(t, before, len(l.ops.ShowOps()))

	m, err := tokenprog.LoadMint(l.db, mint.PublicKey)
	require.NoError(t, err)
	require.Equal(t, uint64(1), m.Supply)
}

func TestMintUnsignedSecondSignerCommitsNothing(t *testing.T) {
	l := newLedger(t, 1000000000)
	mint := types.NewAccount()
	ix := l.instruction(t, mint.PublicKey)
	ix.Accounts[AccSecondSigner].IsSigner = false
	before := len(l.ops.ShowOps())

	res, err := l.mint(t, ix, l.admin, mint)
	require.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)
	require.Contains(t, res.Logs, "Program log: unapproved second signer account="+l.second.PublicKey.ToBase58())
	require.Equal(t, before, len(l.ops.ShowOps()))

	acc, err := runtime.LoadAccount(l.db, mint.PublicKey)
	require.NoError(t, err)
	require.True(t, acc.IsUnused())
}

func TestMintHostRejections(t *testing.T) {
	cases := map[string]struct {
		adminLamports uint64
		modify        func(l *ledger, ix *types.Instruction)
		wantErr       *errors.Error
		wantStep      string
	}{
		"admin cannot fund the mint": {
			adminLamports: MintFunding - 1,
			wantErr:       errors.ErrInsufficientAmount,
			wantStep:      "create mint account",
		},
		"admin cannot fund the holding account": {
			adminLamports: MintFunding + 1,
			wantErr:       errors.ErrInsufficientAmount,
			wantStep:      "create holding account",
		},
		"holding account not derived from admin and mint": {
			adminLamports: 1000000000,
			modify: func(l *ledger, ix *types.Instruction) {
				ix.Accounts[AccHolding].PubKey = types.NewAccount().PublicKey
			},
			wantErr:  errors.ErrInput,
			wantStep: "create holding account",
		},
		"foreign rent account": {
			adminLamports: 1000000000,
			modify: func(l *ledger, ix *types.Instruction) {
				ix.Accounts[AccRent].PubKey = types.NewAccount().PublicKey
			},
			wantErr:  errors.ErrInput,
			wantStep: "initialize mint",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := newLedger(t, tc.adminLamports)
			mint := types.NewAccount()
			ix := l.instruction(t, mint.PublicKey)
			if tc.modify != nil {
				tc.modify(l, &ix)
			}
			before := len(l.ops.ShowOps())

			_, err := l.mint(t, ix, l.admin, l.second, mint)
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			require.Contains(t, err.Error(), tc.wantStep)
			require.Equal(t, before, len(l.ops.ShowOps()))
		})
	}
}
