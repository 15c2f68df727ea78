package runtime

import (
	"fmt"
	"sort"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
)

// MaxInvokeDepth is the maximum program call depth, counting the top level
// instruction as 1.
const MaxInvokeDepth = 4

// Runtime executes programs registered under their program ids.
type Runtime struct {
	programs map[common.PublicKey]mintgate.Program
}

var _ mintgate.Invoker = (*Runtime)(nil)

// New returns a runtime with no programs registered.
func New() *Runtime {
	return &Runtime{
		programs: make(map[common.PublicKey]mintgate.Program),
	}
}

// Register binds a program to an id. Use this function only during a
// startup phase. Attempt to register the same id twice results in panic.
func (r *Runtime) Register(id common.PublicKey, p mintgate.Program) {
	if _, ok := r.programs[id]; ok {
		panic(fmt.Sprintf("program %s already registered", id.ToBase58()))
	}
	r.programs[id] = p
}

// ProgramIDs returns the ids of all registered programs, ordered by their
// base58 encoding.
func (r *Runtime) ProgramIDs() []common.PublicKey {
	ids := make([]common.PublicKey, 0, len(r.programs))
	for id := range r.programs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].ToBase58() < ids[j].ToBase58() })
	return ids
}

// Invoke implements mintgate.Invoker.
func (r *Runtime) Invoke(ctx mintgate.Context, db mintgate.KVStore, ix types.Instruction, accounts []mintgate.AccountInfo) error {
	return r.InvokeSigned(ctx, db, ix, accounts)
}

// InvokeSigned implements mintgate.Invoker.
//
// The callee receives the accounts listed by the instruction. Privileges are
// computed per key: a key is a signer (writable) for the callee if any of its
// metas in the instruction requests it. Every requested privilege must be
// held by the caller, or for signers be a program derived address of the
// caller created from one of signerSeeds.
func (r *Runtime) InvokeSigned(
	ctx mintgate.Context,
	db mintgate.KVStore,
	ix types.Instruction,
	accounts []mintgate.AccountInfo,
	signerSeeds ...[][]byte,
) error {
	caller, ok := currentInvocation(ctx)
	if !ok {
		return errors.Wrap(errors.ErrHuman, "invoke called outside of a program")
	}
	if caller.depth >= MaxInvokeDepth {
		return errors.Wrapf(errors.ErrState, "max invoke depth %d reached", MaxInvokeDepth)
	}

	derived := make(map[common.PublicKey]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := common.CreateProgramAddress(seeds, caller.programID)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "signer seeds: %s", err)
		}
		derived[addr] = true
	}

	if _, ok := mintgate.FindAccount(accounts, ix.ProgramID); !ok {
		return errors.Wrapf(errors.ErrInput, "program account %s not provided", ix.ProgramID.ToBase58())
	}

	signer := make(map[common.PublicKey]bool)
	writable := make(map[common.PublicKey]bool)
	for _, meta := range ix.Accounts {
		signer[meta.PubKey] = signer[meta.PubKey] || meta.IsSigner
		writable[meta.PubKey] = writable[meta.PubKey] || meta.IsWritable
	}

	callee := make([]mintgate.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		held, ok := mintgate.FindAccount(accounts, meta.PubKey)
		if !ok {
			return errors.Wrapf(errors.ErrInput, "missing account %s", meta.PubKey.ToBase58())
		}
		if signer[meta.PubKey] && !held.IsSigner && !derived[meta.PubKey] {
			return errors.Wrapf(errors.ErrUnauthorized, "%s: signer privilege escalated", meta.PubKey.ToBase58())
		}
		if writable[meta.PubKey] && !held.IsWritable {
			return errors.Wrapf(errors.ErrUnauthorized, "%s: writable privilege escalated", meta.PubKey.ToBase58())
		}
		callee[i] = mintgate.AccountInfo{
			Key:        meta.PubKey,
			IsSigner:   signer[meta.PubKey],
			IsWritable: writable[meta.PubKey],
		}
	}
	return r.process(ctx, db, ix.ProgramID, callee, ix.Data, caller.depth+1)
}

// process runs a single program call and reports it in the program log.
func (r *Runtime) process(
	ctx mintgate.Context,
	db mintgate.KVStore,
	programID common.PublicKey,
	accounts []mintgate.AccountInfo,
	data []byte,
	depth int,
) (err error) {
	p, ok := r.programs[programID]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "program %s", programID.ToBase58())
	}

	id := programID.ToBase58()
	logs := mintgate.GetLogCollector(ctx)
	ctx = mintgate.WithLogInfo(ctx, "program", id, "depth", depth)
	logger := mintgate.GetLogger(ctx)

	logger.Debug("invoke")
	if logs != nil {
		logs.Append(fmt.Sprintf("Program %s invoke [%d]", id, depth))
	}

	defer func() {
		if err != nil {
			logger.Debug("failed", "err", err)
			if logs != nil {
				logs.Append(fmt.Sprintf("Program %s failed: %s", id, err))
			}
			return
		}
		if logs != nil {
			logs.Append(fmt.Sprintf("Program %s success", id))
		}
	}()
	defer errors.Recover(&err)

	ctx = withInvocation(ctx, programID, depth)
	return p.Process(ctx, db, r, accounts, data)
}
