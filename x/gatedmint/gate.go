package gatedmint

import (
	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
)

// Gate admits an invocation only if both configured identities signed it.
type Gate struct {
	conf Configuration
}

// NewGate returns a gate for the given identities.
func NewGate(conf Configuration) Gate {
	return Gate{conf: conf}
}

// Authorize checks the admin first and the second signer after it. The
// first failing check aborts, the second one is not evaluated.
func (g Gate) Authorize(ctx mintgate.Context, admin, second mintgate.AccountInfo) error {
	if admin.Key != g.conf.Admin || !admin.IsSigner {
		mintgate.Log(ctx, "unapproved admin/mint authority", "account", admin.Key.ToBase58())
		return errors.ErrUnauthorized.New("admin")
	}
	if second.Key != g.conf.SecondSigner || !second.IsSigner {
		mintgate.Log(ctx, "unapproved second signer", "account", second.Key.ToBase58())
		return errors.ErrUnauthorized.New("second signer")
	}
	return nil
}
