package gatedmint

import (
	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
)

// Positions of the accounts in the instruction account list.
const (
	AccMint = iota
	AccHolding
	AccAdmin
	AccRent
	AccSystemProgram
	AccTokenProgram
	AccAssociatedProgram
	AccSecondSigner

	// NumAccounts is the number of accounts an invocation requires.
	NumAccounts
)

// Accounts is the labeled view of the positional account list.
type Accounts struct {
	Mint              mintgate.AccountInfo
	Holding           mintgate.AccountInfo
	Admin             mintgate.AccountInfo
	Rent              mintgate.AccountInfo
	SystemProgram     mintgate.AccountInfo
	TokenProgram      mintgate.AccountInfo
	AssociatedProgram mintgate.AccountInfo
	SecondSigner      mintgate.AccountInfo
}

// BindAccounts assigns meaning to the accounts by their position. Accounts
// past the required ones are ignored.
func BindAccounts(accounts []mintgate.AccountInfo) (*Accounts, error) {
	if len(accounts) < NumAccounts {
		return nil, errors.Wrapf(errors.ErrInput, "want %d accounts, got %d", NumAccounts, len(accounts))
	}
	return &Accounts{
		Mint:              accounts[AccMint],
		Holding:           accounts[AccHolding],
		Admin:             accounts[AccAdmin],
		Rent:              accounts[AccRent],
		SystemProgram:     accounts[AccSystemProgram],
		TokenProgram:      accounts[AccTokenProgram],
		AssociatedProgram: accounts[AccAssociatedProgram],
		SecondSigner:      accounts[AccSecondSigner],
	}, nil
}

// List returns the accounts in their positional order.
func (a *Accounts) List() []mintgate.AccountInfo {
	return []mintgate.AccountInfo{
		a.Mint,
		a.Holding,
		a.Admin,
		a.Rent,
		a.SystemProgram,
		a.TokenProgram,
		a.AssociatedProgram,
		a.SecondSigner,
	}
}
