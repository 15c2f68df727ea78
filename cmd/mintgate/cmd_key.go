package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stellar/go/exp/crypto/derivation"
)

// defaultDerivationPath is the account path used by Solana wallets.
const defaultDerivationPath = "m/44'/501'/0'/0'"

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new keypair and write it as a JSON array of 64 bytes, the format
used by solana-keygen.

By default a random key is created. When a hex encoded seed is given, the key
is derived from it using the derivation path. This command fails if the
keypair file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("keypair", env("MINTGATE_KEYPAIR", os.Getenv("HOME")+"/.mintgate/id.json"),
			"Path to the keypair file. You can use MINTGATE_KEYPAIR environment variable to set it.")
		seedFl = fl.String("seed", "", "Optional hex encoded seed to derive the key from.")
		pathFl = fl.String("derivation", defaultDerivationPath, "SLIP-10 derivation path, used together with -seed.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing keypair. User must
		// manually delete it first.
		return fmt.Errorf("keypair file %q already exists, delete this file and try again", *keyPathFl)
	}

	var acc types.Account
	if *seedFl == "" {
		acc = types.NewAccount()
	} else {
		seed, err := hex.DecodeString(*seedFl)
		if err != nil {
			return fmt.Errorf("cannot decode seed: %s", err)
		}
		if acc, err = deriveAccount(seed, *pathFl); err != nil {
			return err
		}
	}

	if err := writeKeypair(*keyPathFl, acc); err != nil {
		return err
	}
	_, err := fmt.Fprintln(output, acc.PublicKey.ToBase58())
	return err
}

func cmdPubkey(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the base58 public key of a keypair file.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("keypair", env("MINTGATE_KEYPAIR", os.Getenv("HOME")+"/.mintgate/id.json"),
			"Path to the keypair file. You can use MINTGATE_KEYPAIR environment variable to set it.")
	)
	fl.Parse(args)

	acc, err := readKeypair(*keyPathFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, acc.PublicKey.ToBase58())
	return err
}

// deriveAccount returns the ed25519 account at the given SLIP-10 path.
func deriveAccount(seed []byte, path string) (types.Account, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return types.Account{}, fmt.Errorf("cannot derive key using path=%q: %s", path, err)
	}
	pub, err := k.PublicKey()
	if err != nil {
		return types.Account{}, fmt.Errorf("cannot derive public key: %s", err)
	}
	acc, err := types.AccountFromBytes(append(append([]byte{}, k.Key...), pub...))
	if err != nil {
		return types.Account{}, fmt.Errorf("invalid derived key: %s", err)
	}
	return acc, nil
}

func writeKeypair(path string, acc types.Account) error {
	ints := make([]int, len(acc.PrivateKey))
	for i, b := range acc.PrivateKey {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		return fmt.Errorf("cannot serialize keypair: %s", err)
	}
	if err := ioutil.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("cannot write keypair file: %s", err)
	}
	return nil
}

func readKeypair(path string) (types.Account, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return types.Account{}, fmt.Errorf("cannot read keypair file: %s", err)
	}
	key, err := decodeKeypairJSON(raw)
	if err != nil {
		return types.Account{}, fmt.Errorf("keypair file %q: %s", path, err)
	}
	acc, err := types.AccountFromBytes(key)
	if err != nil {
		return types.Account{}, fmt.Errorf("keypair file %q: %s", path, err)
	}
	return acc, nil
}

// decodeKeypairJSON decodes a JSON array of 64 bytes.
func decodeKeypairJSON(raw []byte) ([]byte, error) {
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, fmt.Errorf("invalid keypair json: %s", err)
	}
	if len(ints) != 64 {
		return nil, fmt.Errorf("invalid keypair length: %d", len(ints))
	}
	key := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("invalid keypair byte at %d: %d", i, v)
		}
		key[i] = byte(v)
	}
	return key, nil
}
