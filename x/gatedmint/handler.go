package gatedmint

import (
	"crypto/sha256"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/runtime"
)

// DefaultProgramID is the id the program is deployed under unless
// configured otherwise.
var DefaultProgramID = common.PublicKeyFromBytes(sumID("gatedmint"))

func sumID(name string) []byte {
	h := sha256.Sum256([]byte("program:" + name))
	return h[:]
}

// Program mints one unit of a new token class for every invocation
// co-signed by the configured identities.
type Program struct {
	gate Gate
}

var _ mintgate.Program = Program{}

// NewProgram returns a program guarded by the given identities.
func NewProgram(conf Configuration) Program {
	return Program{gate: NewGate(conf)}
}

// Register binds the program to id.
func Register(rt *runtime.Runtime, id common.PublicKey, conf Configuration) {
	rt.Register(id, NewProgram(conf))
}

// Process implements mintgate.Program. Instruction data is ignored.
func (p Program) Process(ctx mintgate.Context, db mintgate.KVStore, inv mintgate.Invoker, accounts []mintgate.AccountInfo, data []byte) error {
	accs, err := BindAccounts(accounts)
	if err != nil {
		return err
	}
	if err := p.gate.Authorize(ctx, accs.Admin, accs.SecondSigner); err != nil {
		return err
	}
	return Orchestrate(ctx, db, inv, accs)
}

// MintParams lists the accounts of a mint instruction.
type MintParams struct {
	ProgramID    common.PublicKey
	Mint         common.PublicKey
	Admin        common.PublicKey
	SecondSigner common.PublicKey
}

// NewMintInstruction builds an instruction invoking the program. The mint
// must sign as it is allocated by the system program. The holding account
// is derived from the admin and the mint.
func NewMintInstruction(p MintParams) (types.Instruction, error) {
	holding, _, err := common.FindAssociatedTokenAddress(p.Admin, p.Mint)
	if err != nil {
		return types.Instruction{}, err
	}
	return types.Instruction{
		ProgramID: p.ProgramID,
		Accounts: []types.AccountMeta{
			AccMint:              {PubKey: p.Mint, IsSigner: true, IsWritable: true},
			AccHolding:           {PubKey: holding, IsWritable: true},
			AccAdmin:             {PubKey: p.Admin, IsSigner: true, IsWritable: true},
			AccRent:              {PubKey: common.SysVarRentPubkey},
			AccSystemProgram:     {PubKey: common.SystemProgramID},
			AccTokenProgram:      {PubKey: common.TokenProgramID},
			AccAssociatedProgram: {PubKey: common.SPLAssociatedTokenAccountProgramID},
			AccSecondSigner:      {PubKey: p.SecondSigner, IsSigner: true},
		},
	}, nil
}
