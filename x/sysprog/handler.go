package sysprog

import (
	"math"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
	"github.com/iov-one/mintgate/runtime"
)

// ID of the system program.
var ID = common.SystemProgramID

// Program processes system instructions.
type Program struct{}

var _ mintgate.Program = Program{}

// NewProgram returns the system program.
func NewProgram() Program {
	return Program{}
}

// Register binds the program to its id.
func Register(rt *runtime.Runtime) {
	rt.Register(ID, NewProgram())
}

// Process implements mintgate.Program.
func (Program) Process(ctx mintgate.Context, db mintgate.KVStore, inv mintgate.Invoker, accounts []mintgate.AccountInfo, data []byte) error {
	msg, err := ParseMsg(data)
	if err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	switch msg := msg.(type) {
	case *CreateAccountMsg:
		return createAccount(db, accounts, msg)
	case *TransferMsg:
		return transfer(db, accounts, msg)
	}
	return errors.Wrapf(errors.ErrType, "%T", msg)
}

func createAccount(db mintgate.KVStore, accounts []mintgate.AccountInfo, msg *CreateAccountMsg) error {
	if len(accounts) < 2 {
		return errors.Wrap(errors.ErrInput, "create account: funder and new account required")
	}
	from, to := accounts[0], accounts[1]
	if err := requireSignerWritable(from, "funder"); err != nil {
		return err
	}
	if err := requireSignerWritable(to, "new account"); err != nil {
		return err
	}

	acc, err := runtime.LoadAccount(db, to.Key)
	if err != nil {
		return err
	}
	if !acc.IsUnused() {
		return errors.Wrapf(errors.ErrDuplicate, "account %s already in use", to.Key.ToBase58())
	}

	if err := moveLamports(db, from.Key, to.Key, msg.Lamports); err != nil {
		return err
	}

	// Reload, the balance was just changed.
	acc, err = runtime.LoadAccount(db, to.Key)
	if err != nil {
		return err
	}
	acc.Owner = msg.Owner
	acc.Data = make([]byte, msg.Space)
	return runtime.SaveAccount(db, to.Key, acc)
}

func transfer(db mintgate.KVStore, accounts []mintgate.AccountInfo, msg *TransferMsg) error {
	if len(accounts) < 2 {
		return errors.Wrap(errors.ErrInput, "transfer: source and destination required")
	}
	from, to := accounts[0], accounts[1]
	if err := requireSignerWritable(from, "source"); err != nil {
		return err
	}
	if !to.IsWritable {
		return errors.Wrap(errors.ErrUnauthorized, "destination not writable")
	}
	return moveLamports(db, from.Key, to.Key, msg.Lamports)
}

// moveLamports transfers lamports out of a system owned account with no
// data into any other account.
func moveLamports(db mintgate.KVStore, from, to common.PublicKey, amount uint64) error {
	src, err := runtime.LoadAccount(db, from)
	if err != nil {
		return err
	}
	if src.Owner != ID || len(src.Data) != 0 {
		return errors.Wrapf(errors.ErrOwner, "source %s must be a system account with no data", from.ToBase58())
	}
	if src.Lamports < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, need %d", src.Lamports, amount)
	}
	if from == to || amount == 0 {
		return nil
	}

	dst, err := runtime.LoadAccount(db, to)
	if err != nil {
		return err
	}
	if dst.Lamports > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	src.Lamports -= amount
	dst.Lamports += amount
	if err := runtime.SaveAccount(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := runtime.SaveAccount(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func requireSignerWritable(a mintgate.AccountInfo, name string) error {
	if !a.IsSigner {
		return errors.Wrapf(errors.ErrUnauthorized, "%s %s did not sign", name, a.Key.ToBase58())
	}
	if !a.IsWritable {
		return errors.Wrapf(errors.ErrUnauthorized, "%s %s not writable", name, a.Key.ToBase58())
	}
	return nil
}
