package mintgate

import (
	"github.com/blocto/solana-go-sdk/types"
)

// Program is a ledger program, the on-ledger equivalent of a request
// handler. It is given the accounts referenced by the instruction, in the
// order the caller listed them, and the raw instruction data.
//
// A program must not keep any state between invocations outside of the
// store. Any returned error aborts the whole transaction; the host discards
// every write made by this and all other instructions of the transaction.
type Program interface {
	Process(ctx Context, db KVStore, inv Invoker, accounts []AccountInfo, data []byte) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(ctx Context, db KVStore, inv Invoker, accounts []AccountInfo, data []byte) error

var _ Program = ProgramFunc(nil)

// Process calls fn.
func (fn ProgramFunc) Process(ctx Context, db KVStore, inv Invoker, accounts []AccountInfo, data []byte) error {
	return fn(ctx, db, inv, accounts, data)
}

// Invoker is the host capability to call another program from within a
// program (cross-program invocation). The call is synchronous: it returns
// only once the callee completed or failed.
//
// accounts must contain every account referenced by the instruction, with
// privileges that are at least those requested by the instruction.
type Invoker interface {
	Invoke(ctx Context, db KVStore, ix types.Instruction, accounts []AccountInfo) error

	// InvokeSigned works like Invoke, but additionally grants signer
	// privileges to program derived addresses of the calling program,
	// created from the given seeds.
	InvokeSigned(ctx Context, db KVStore, ix types.Instruction, accounts []AccountInfo, signerSeeds ...[][]byte) error
}
