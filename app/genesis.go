package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
	"github.com/iov-one/mintgate/runtime"
)

// Genesis describes the initial ledger state.
type Genesis struct {
	ChainID  string           `json:"chain_id"`
	Rent     runtime.Rent     `json:"rent"`
	Accounts []GenesisAccount `json:"accounts"`
}

// GenesisAccount is a system account funded at genesis.
type GenesisAccount struct {
	PubKey   string `json:"pubkey"`
	Lamports uint64 `json:"lamports"`
}

// DefaultGenesis returns a genesis with the default rent and no accounts.
func DefaultGenesis(chainID string) Genesis {
	return Genesis{ChainID: chainID, Rent: runtime.DefaultRent}
}

// LoadGenesis reads and validates a genesis file.
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}
	if err := gen.Validate(); err != nil {
		return gen, errors.Wrap(err, "genesis file")
	}
	return gen, nil
}

// Validate returns all problems of the genesis.
func (g Genesis) Validate() error {
	var errs error
	if !mintgate.IsValidChainID(g.ChainID) {
		errs = errors.AppendField(errs, "ChainID", errors.Wrapf(errors.ErrInput, "%q", g.ChainID))
	}
	errs = errors.AppendField(errs, "Rent", g.Rent.Validate())

	seen := make(map[string]bool)
	for _, a := range g.Accounts {
		if _, err := mintgate.ParsePublicKey(a.PubKey); err != nil {
			errs = errors.AppendField(errs, "Accounts", err)
			continue
		}
		if seen[a.PubKey] {
			errs = errors.AppendField(errs, "Accounts", errors.Wrapf(errors.ErrDuplicate, "%s", a.PubKey))
		}
		seen[a.PubKey] = true
		if a.Lamports == 0 {
			errs = errors.AppendField(errs, "Accounts", errors.Wrapf(errors.ErrAmount, "%s: no lamports", a.PubKey))
		}
	}
	return errs
}

// initState writes the genesis state.
func (g Genesis) initState(db mintgate.KVStore, rt *runtime.Runtime) error {
	if err := runtime.SetRent(db, g.Rent); err != nil {
		return err
	}
	for _, a := range g.Accounts {
		key, err := mintgate.ParsePublicKey(a.PubKey)
		if err != nil {
			return err
		}
		if err := runtime.Fund(db, key, a.Lamports); err != nil {
			return errors.Wrapf(err, "fund %s", a.PubKey)
		}
	}
	for _, id := range rt.ProgramIDs() {
		if err := runtime.Deploy(db, id); err != nil {
			return errors.Wrapf(err, "deploy %s", id.ToBase58())
		}
	}
	return nil
}
