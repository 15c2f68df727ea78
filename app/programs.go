package app

import (
	"github.com/blocto/solana-go-sdk/common"

	"github.com/iov-one/mintgate/runtime"
	"github.com/iov-one/mintgate/x/ataprog"
	"github.com/iov-one/mintgate/x/gatedmint"
	"github.com/iov-one/mintgate/x/sysprog"
	"github.com/iov-one/mintgate/x/tokenprog"
)

// NewRuntime returns a runtime with the system, token and associated token
// account programs registered under their well known ids and the gated mint
// program registered under gateID.
func NewRuntime(conf gatedmint.Configuration, gateID common.PublicKey) *runtime.Runtime {
	rt := runtime.New()
	sysprog.Register(rt)
	tokenprog.Register(rt)
	ataprog.Register(rt)
	gatedmint.Register(rt, gateID, conf)
	return rt
}
