package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/mintgate/x/gatedmint"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// except the program name and the command name. It is the responsibility of
// the command function to parse the arguments using the flag package. A
// command function is expected to read and write only to provided input and
// output.
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"fund":    cmdFund,
	"init":    cmdInit,
	"keygen":  cmdKeygen,
	"mint":    cmdMint,
	"pubkey":  cmdPubkey,
	"show":    cmdShow,
	"version": cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s runs a local ledger with the gated mint program.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, gitHash)
	return nil
}

// gitHash is set during the compilation time.
var gitHash string = "dev"

// The two co-signers of the mint program are set during the compilation
// time:
//
//	go build -ldflags "-X main.adminPubkey=<base58> -X main.secondPubkey=<base58>"
var (
	adminPubkey  string
	secondPubkey string
)

// configuration returns the co-signers embedded in the binary. No ledger
// command can run without them.
func configuration() (gatedmint.Configuration, error) {
	conf, err := gatedmint.LoadConfiguration(adminPubkey, secondPubkey)
	if err != nil {
		return conf, fmt.Errorf("invalid co-signers embedded in the binary, rebuild with -ldflags: %s", err)
	}
	return conf, nil
}
