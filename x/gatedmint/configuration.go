package gatedmint

import (
	"encoding/json"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/errors"
)

// Configuration holds the two identities that must co-sign every
// invocation.
type Configuration struct {
	// Admin is the first co-signer. It also pays for all created accounts
	// and becomes the mint and freeze authority of every minted token.
	Admin common.PublicKey
	// SecondSigner is the second co-signer.
	SecondSigner common.PublicKey
}

// Validate returns an error if the configuration cannot be used.
func (c Configuration) Validate() error {
	var errs error
	if mintgate.IsZeroKey(c.Admin) {
		errs = errors.AppendField(errs, "Admin", errors.ErrEmpty)
	}
	if mintgate.IsZeroKey(c.SecondSigner) {
		errs = errors.AppendField(errs, "SecondSigner", errors.ErrEmpty)
	}
	if errs == nil && c.Admin == c.SecondSigner {
		errs = errors.Field("SecondSigner", errors.ErrDuplicate, "must differ from admin")
	}
	return errs
}

// LoadConfiguration parses both identities from their base58 encoding and
// validates the result.
func LoadConfiguration(admin, secondSigner string) (Configuration, error) {
	var (
		conf Configuration
		errs error
		err  error
	)
	if conf.Admin, err = mintgate.ParsePublicKey(admin); err != nil {
		errs = errors.AppendField(errs, "Admin", err)
	}
	if conf.SecondSigner, err = mintgate.ParsePublicKey(secondSigner); err != nil {
		errs = errors.AppendField(errs, "SecondSigner", err)
	}
	if errs != nil {
		return Configuration{}, errs
	}
	if err := conf.Validate(); err != nil {
		return Configuration{}, err
	}
	return conf, nil
}

// MustLoadConfiguration is like LoadConfiguration but panics on error. Use
// it only for values embedded in the binary.
func MustLoadConfiguration(admin, secondSigner string) Configuration {
	conf, err := LoadConfiguration(admin, secondSigner)
	if err != nil {
		panic(errors.Wrap(err, "load configuration"))
	}
	return conf
}

type configurationJSON struct {
	Admin        string `json:"admin"`
	SecondSigner string `json:"second_signer"`
}

// MarshalJSON encodes both keys in base58.
func (c Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(configurationJSON{
		Admin:        c.Admin.ToBase58(),
		SecondSigner: c.SecondSigner.ToBase58(),
	})
}

// UnmarshalJSON decodes and validates a configuration.
func (c *Configuration) UnmarshalJSON(raw []byte) error {
	var j configurationJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	conf, err := LoadConfiguration(j.Admin, j.SecondSigner)
	if err != nil {
		return err
	}
	*c = conf
	return nil
}
