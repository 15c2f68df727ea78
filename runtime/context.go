package runtime

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/iov-one/mintgate"
)

type contextKey int // local to the runtime package

const (
	contextKeyInvocation contextKey = iota
)

// invocation describes the program currently being executed.
type invocation struct {
	programID common.PublicKey
	depth     int
}

func withInvocation(ctx mintgate.Context, programID common.PublicKey, depth int) mintgate.Context {
	return context.WithValue(ctx, contextKeyInvocation, invocation{programID: programID, depth: depth})
}

// currentInvocation returns the program being executed. ok is false when
// called outside of a program.
func currentInvocation(ctx mintgate.Context) (inv invocation, ok bool) {
	inv, ok = ctx.Value(contextKeyInvocation).(invocation)
	return inv, ok
}

// CurrentProgramID returns the id of the program being executed, if any.
func CurrentProgramID(ctx mintgate.Context) (common.PublicKey, bool) {
	inv, ok := currentInvocation(ctx)
	return inv.programID, ok
}
