package mintgatetest

import (
	"github.com/blocto/solana-go-sdk/types"

	"github.com/iov-one/mintgate"
)

// Call is a single invocation recorded by the Invoker.
type Call struct {
	Instruction types.Instruction
	Accounts    []mintgate.AccountInfo
	SignerSeeds [][][]byte
}

// Invoker is a mintgate.Invoker that records all calls instead of running
// any program. Errs configures the result of each call: the n-th call
// returns Errs[n], or nil if Errs is shorter.
type Invoker struct {
	Errs  []error
	calls []Call
}

var _ mintgate.Invoker = (*Invoker)(nil)

// Invoke implements mintgate.Invoker.
func (inv *Invoker) Invoke(ctx mintgate.Context, db mintgate.KVStore, ix types.Instruction, accounts []mintgate.AccountInfo) error {
	return inv.InvokeSigned(ctx, db, ix, accounts)
}

// InvokeSigned implements mintgate.Invoker.
func (inv *Invoker) InvokeSigned(ctx mintgate.Context, db mintgate.KVStore, ix types.Instruction, accounts []mintgate.AccountInfo, signerSeeds ...[][]byte) error {
	n := len(inv.calls)
	inv.calls = append(inv.calls, Call{
		Instruction: ix,
		Accounts:    accounts,
		SignerSeeds: signerSeeds,
	})
	if n < len(inv.Errs) {
		return inv.Errs[n]
	}
	return nil
}

// Calls returns all recorded calls in order.
func (inv *Invoker) Calls() []Call {
	return inv.calls
}

// CallCount returns the number of recorded calls.
func (inv *Invoker) CallCount() int {
	return len(inv.calls)
}

// FailAt returns an invoker that fails the n-th call (counting from 0) with
// err. All earlier calls succeed.
func FailAt(n int, err error) *Invoker {
	return &Invoker{Errs: append(make([]error, n), err)}
}
