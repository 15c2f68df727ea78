package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/mintgate"
	"github.com/iov-one/mintgate/app"
	"github.com/iov-one/mintgate/errors"
	"github.com/iov-one/mintgate/runtime"
	"github.com/iov-one/mintgate/store/iavl"
	"github.com/iov-one/mintgate/x/gatedmint"
	"github.com/iov-one/mintgate/x/tokenprog"
)

const storeName = "mintgate"

func defaultHome() string {
	return env("MINTGATE_HOME", filepath.Join(os.Getenv("HOME"), ".mintgate"))
}

// openLedger loads the latest committed version of the ledger stored in the
// home directory. Returned function must be called to release the database.
func openLedger(home, logLevel string) (*app.Ledger, func(), error) {
	conf, err := configuration()
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(logLevel)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(home, 0700); err != nil {
		return nil, nil, fmt.Errorf("cannot create home directory: %s", err)
	}
	db, err := iavl.NewCommitStore(home, storeName)
	if err != nil {
		return nil, nil, err
	}
	if err := db.LoadLatestVersion(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("cannot load ledger: %s", err)
	}
	l, err := app.NewLedger(db, app.NewRuntime(conf, gatedmint.DefaultProgramID))
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return l.WithLogger(logger.With("module", "ledger")), db.Close, nil
}

// newLogger returns a logger writing to stderr, filtered to the given level.
func newLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stderr)), opt), nil
}

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize a new ledger in the home directory. The genesis file provides the
chain id, the rent parameters and the funded accounts. Without a genesis file
an empty ledger with default rent is created.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Ledger home directory. MINTGATE_HOME environment variable can be used to set it.")
		genesisFl = fl.String("genesis", "", "Optional path to the genesis JSON file.")
		chainFl   = fl.String("chain-id", "mintgate-local", "Chain ID used when no genesis file is given.")
		logFl     = fl.String("log-level", "info", "Log level (debug, info, error or none).")
	)
	fl.Parse(args)

	gen := app.DefaultGenesis(*chainFl)
	if *genesisFl != "" {
		var err error
		if gen, err = app.LoadGenesis(*genesisFl); err != nil {
			return err
		}
	}

	l, closeFn, err := openLedger(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer closeFn()

	id, err := l.InitChain(gen)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "chain: %s\nversion: %d\nhash: %X\n", gen.ChainID, id.Version, id.Hash)
	return err
}

func cmdFund(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Credit lamports to a system account. This is an operator action that does not
require a signature.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl     = fl.String("home", defaultHome(), "Ledger home directory. MINTGATE_HOME environment variable can be used to set it.")
		pubkeyFl   = fl.String("pubkey", "", "Base58 public key of the account to fund.")
		lamportsFl = fl.Uint64("lamports", 1000000000, "Amount of lamports to credit.")
		logFl      = fl.String("log-level", "info", "Log level (debug, info, error or none).")
	)
	fl.Parse(args)

	key, err := mintgate.ParsePublicKey(*pubkeyFl)
	if err != nil {
		return fmt.Errorf("invalid -pubkey: %s", err)
	}

	l, closeFn, err := openLedger(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := l.Fund(key, *lamportsFl); err != nil {
		return err
	}
	acc, err := l.Account(key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s: %d lamports\n", key.ToBase58(), acc.Lamports)
	return err
}

func cmdMint(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Submit a transaction that creates a new token mint and mints one unit to the
admin's associated token account. The transaction must be signed by both
co-signers embedded in this binary. The admin pays for all created accounts.

When no mint keypair is given, a fresh one is generated and discarded after
signing.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = fl.String("home", defaultHome(), "Ledger home directory. MINTGATE_HOME environment variable can be used to set it.")
		adminFl  = fl.String("admin", env("MINTGATE_KEYPAIR", ""), "Path to the admin keypair file.")
		secondFl = fl.String("second", "", "Path to the second signer keypair file.")
		mintFl   = fl.String("mint", "", "Optional path to the mint keypair file.")
		logFl    = fl.String("log-level", "info", "Log level (debug, info, error or none).")
		debugFl  = fl.Bool("debug", false, "Print unclassified transaction errors instead of a generic internal error.")
	)
	fl.Parse(args)

	admin, err := readKeypair(*adminFl)
	if err != nil {
		return err
	}
	second, err := readKeypair(*secondFl)
	if err != nil {
		return err
	}
	mint := types.NewAccount()
	if *mintFl != "" {
		if mint, err = readKeypair(*mintFl); err != nil {
			return err
		}
	}

	l, closeFn, err := openLedger(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer closeFn()

	ix, err := gatedmint.NewMintInstruction(gatedmint.MintParams{
		ProgramID:    gatedmint.DefaultProgramID,
		Mint:         mint.PublicKey,
		Admin:        admin.PublicKey,
		SecondSigner: second.PublicKey,
	})
	if err != nil {
		return err
	}
	tx := &runtime.Tx{FeePayer: admin.PublicKey, Instructions: []types.Instruction{ix}}
	if err := tx.Sign(l.ChainID(), admin, second, mint); err != nil {
		return err
	}

	res, id, err := l.Deliver(tx)
	if res != nil {
		for _, line := range res.Logs {
			fmt.Fprintf(output, "log: %s\n", line)
		}
	}
	if err != nil {
		return errors.Redact(err, *debugFl)
	}
	holding := ix.Accounts[gatedmint.AccHolding].PubKey
	_, err = fmt.Fprintf(output, "mint: %s\nholding: %s\nversion: %d\n", mint.PublicKey.ToBase58(), holding.ToBase58(), id.Version)
	return err
}

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the committed state of an account. Mint and token accounts owned by the
token program are decoded.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = fl.String("home", defaultHome(), "Ledger home directory. MINTGATE_HOME environment variable can be used to set it.")
		pubkeyFl = fl.String("pubkey", "", "Base58 public key of the account.")
		logFl    = fl.String("log-level", "error", "Log level (debug, info, error or none).")
	)
	fl.Parse(args)

	key, err := mintgate.ParsePublicKey(*pubkeyFl)
	if err != nil {
		return fmt.Errorf("invalid -pubkey: %s", err)
	}

	l, closeFn, err := openLedger(*homeFl, *logFl)
	if err != nil {
		return err
	}
	defer closeFn()

	acc, err := l.Account(key)
	if err != nil {
		return err
	}
	return printAccount(output, key, acc)
}

func printAccount(w io.Writer, key common.PublicKey, acc *runtime.Account) error {
	fmt.Fprintf(w, "pubkey: %s\n", key.ToBase58())
	fmt.Fprintf(w, "lamports: %d\n", acc.Lamports)
	fmt.Fprintf(w, "owner: %s\n", acc.Owner.ToBase58())
	fmt.Fprintf(w, "executable: %t\n", acc.Executable)
	fmt.Fprintf(w, "data: %d bytes\n", len(acc.Data))

	if acc.Owner != common.TokenProgramID {
		return nil
	}
	switch len(acc.Data) {
	case tokenprog.MintSize:
		m, err := tokenprog.UnmarshalMint(acc.Data)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "mint authority: %s\n", optionalKey(m.MintAuthority))
		fmt.Fprintf(w, "freeze authority: %s\n", optionalKey(m.FreezeAuthority))
		fmt.Fprintf(w, "supply: %d\n", m.Supply)
		fmt.Fprintf(w, "decimals: %d\n", m.Decimals)
	case tokenprog.AccountSize:
		a, err := tokenprog.UnmarshalAccount(acc.Data)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "mint: %s\n", a.Mint.ToBase58())
		fmt.Fprintf(w, "token owner: %s\n", a.Owner.ToBase58())
		fmt.Fprintf(w, "amount: %d\n", a.Amount)
	}
	return nil
}

func optionalKey(k *common.PublicKey) string {
	if k == nil {
		return "none"
	}
	return k.ToBase58()
}
